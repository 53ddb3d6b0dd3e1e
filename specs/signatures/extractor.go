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

package signatures

import (
	"bytes"
	"context"

	"github.com/google/btree"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Extractor is the signatures spec.Extractor, sourced from an injected
// RawSource; structurally identical to nametags' extractor since both
// specs share the count-based Volume scheme.
type Extractor struct {
	Source RawSource
}

var _ spec.Extractor = (*Extractor)(nil)

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
		sel  Selector
		text Texts
	}
	tree := btree.NewG(32, func(a, b item) bool {
		return bytes.Compare(a.sel[:], b.sel[:]) < 0
	})

	for _, sel := range window {
		if ChapterIdFor(sel) != chapterId {
			continue
		}
		text, err := e.Source.Record(ctx, rawSourceDir, sel)
		if err != nil {
			return nil, false, err
		}
		tree.ReplaceOrInsert(item{sel: sel, text: text})
	}

	if tree.Len() == 0 {
		return nil, false, nil
	}

	records := make([]model.Record, 0, tree.Len())
	tree.Ascend(func(it item) bool {
		records = append(records, model.Record{Key: it.sel, Value: it.text})
		return true
	})

	return NewChapter(chapterId, volumeId, records), true, nil
}

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
