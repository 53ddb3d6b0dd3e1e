// Copyright 2025 The ChapterDB Authors
// This file is part of ChapterDB.
//
// ChapterDB is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ChapterDB is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with ChapterDB. If not, see <http://www.gnu.org/licenses/>.

package nametags

import (
	"bytes"
	"context"

	"github.com/google/btree"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Extractor is the nametags spec.Extractor, sourced from an injected
// RawSource. Volume membership is positional (count-based), unlike aai's
// block-range windows, so this extractor first establishes the global,
// sorted key order before slicing out the requested window.
type Extractor struct {
	Source RawSource
}

var _ spec.Extractor = (*Extractor)(nil)

// ChapterFromRaw implements spec.Extractor. As in aai, matching records are
// accumulated in a google/btree ordered by address bytes so the Chapter's
// canonical sorted order falls out of accumulation rather than a final sort.
func (e *Extractor) ChapterFromRaw(ctx context.Context, chapterId model.ChapterId, volumeId model.VolumeId, rawSourceDir string) (model.Chapter, bool, error) {
	keys, err := e.Source.SortedKeys(ctx, rawSourceDir)
	if err != nil {
		return nil, false, err
	}

	total := uint64(len(keys))
	from := volumeId.FirstGlobalIndex()
	if from >= total {
		return nil, false, nil
	}
	to := from + volumeId.Width()
	if to > total {
		to = total
	}
	window := keys[from:to]

	type item struct {
		addr Address
		val  NameTags
	}
	tree := btree.NewG(32, func(a, b item) bool {
		return bytes.Compare(a.addr[:], b.addr[:]) < 0
	})

	for _, addr := range window {
		if ChapterIdFor(addr) != chapterId {
			continue
		}
		val, err := e.Source.Record(ctx, rawSourceDir, addr)
		if err != nil {
			return nil, false, err
		}
		tree.ReplaceOrInsert(item{addr: addr, val: val})
	}

	if tree.Len() == 0 {
		return nil, false, nil
	}

	records := make([]model.Record, 0, tree.Len())
	tree.Ascend(func(it item) bool {
		records = append(records, model.Record{Key: it.addr, Value: it.val})
		return true
	})

	return NewChapter(chapterId, volumeId, records), true, nil
}

// LatestPossibleVolume implements spec.Extractor: floor(totalRecords /
// RecordsPerVolume) - 1, so a partially-filled trailing Volume is never
// sealed.
func (e *Extractor) LatestPossibleVolume(ctx context.Context, rawSourceDir string) (model.VolumeId, error) {
	keys, err := e.Source.SortedKeys(ctx, rawSourceDir)
	if err != nil {
		return model.VolumeId{}, err
	}
	total := uint64(len(keys))
	if total < RecordsPerVolume {
		return model.VolumeId{}, spec.ErrInsufficientData
	}
	position := total/RecordsPerVolume - 1
	return NthVolumeId(position), nil
}
