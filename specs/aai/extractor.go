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

package aai

import (
	"bytes"
	"context"

	"github.com/google/btree"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Extractor is the aai spec.Extractor: one Chapter at a time, sourced from
// an injected ChunkSource.
type Extractor struct {
	Source ChunkSource
}

var _ spec.Extractor = (*Extractor)(nil)

// ChapterFromRaw implements spec.Extractor. Records are accumulated in a
// google/btree ordered by address bytes so the canonical sorted-by-key
// Chapter invariant (spec.md §3) falls out of the accumulation structure
// itself rather than a separate sort pass at the end — the same "keep
// things ordered as you go" idiom erigon leans on for its in-memory state
// layers.
func (e *Extractor) ChapterFromRaw(ctx context.Context, chapterId model.ChapterId, volumeId model.VolumeId, rawSourceDir string) (model.Chapter, bool, error) {
	from := volumeId.FirstGlobalIndex()
	to := from + volumeId.Width()

	raw, err := e.Source.Appearances(ctx, rawSourceDir, from, to)
	if err != nil {
		return nil, false, err
	}

	type item struct {
		addr Address
		apps Appearances
	}
	tree := btree.NewG(32, func(a, b item) bool {
		return bytes.Compare(a.addr[:], b.addr[:]) < 0
	})

	for _, a := range raw {
		if !volumeId.Contains(a.Appearance.Block) {
			return nil, false, spec.ErrOutOfWindow
		}
		if ChapterIdFor(a.Address) != chapterId {
			continue
		}
		key := item{addr: a.Address}
		if existing, found := tree.Get(key); found {
			existing.apps = append(existing.apps, a.Appearance)
			tree.ReplaceOrInsert(existing)
		} else {
			tree.ReplaceOrInsert(item{addr: a.Address, apps: Appearances{a.Appearance}})
		}
	}

	if tree.Len() == 0 {
		return nil, false, nil
	}

	records := make([]model.Record, 0, tree.Len())
	tree.Ascend(func(it item) bool {
		records = append(records, model.Record{Key: it.addr, Value: it.apps})
		return true
	})

	return NewChapter(chapterId, volumeId, records), true, nil
}

// LatestPossibleVolume implements spec.Extractor: the largest complete
// block-range Volume the raw source currently supports. Incomplete Volumes
// are never returned — this is what guarantees a sealed Volume is never
// retroactively altered (spec.md §4.5).
func (e *Extractor) LatestPossibleVolume(ctx context.Context, rawSourceDir string) (model.VolumeId, error) {
	highest, ok, err := e.Source.HighestCompleteBlock(ctx, rawSourceDir)
	if err != nil {
		return model.VolumeId{}, err
	}
	if !ok || highest < BlockRangeWidth {
		return model.VolumeId{}, spec.ErrInsufficientData
	}
	position := highest/BlockRangeWidth - 1
	return NthVolumeId(position), nil
}
