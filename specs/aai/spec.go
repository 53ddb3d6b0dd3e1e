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

	"github.com/chapterdb/todd/codec"
	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Spec implements spec.Spec for the address-appearance-index database.
type Spec struct {
	extractor *Extractor
	sampler   spec.SampleObtainer
	codec     *codec.Codec
}

// New builds the aai Spec over the given ChunkSource and sample obtainer.
func New(source ChunkSource, sampler spec.SampleObtainer) *Spec {
	return &Spec{
		extractor: &Extractor{Source: source},
		sampler:   sampler,
		codec:     NewCodec(),
	}
}

var _ spec.Spec = (*Spec)(nil)

func (s *Spec) DatabaseInterfaceId() string { return "addresses" }

func (s *Spec) SpecVersion() spec.Version { return spec.Version{Major: 0, Minor: 1, Patch: 0} }

func (s *Spec) SchemasResource() string {
	return "https://raw.githubusercontent.com/chapterdb/todd/main/schemas/addresses.json"
}

func (s *Spec) Describe() string {
	return "address appearance index: address -> (block, index) appearances, 100k-block volumes"
}

func (s *Spec) NumChapters() int { return NumChapters }

func (s *Spec) AllChapterIds() []model.ChapterId {
	return model.AllChapterIds(chapterPrefix, NumChapters)
}

func (s *Spec) AllVolumeIds(ctx context.Context, rawSourceDir string) ([]model.VolumeId, error) {
	latest, err := s.extractor.LatestPossibleVolume(ctx, rawSourceDir)
	if err != nil {
		return nil, err
	}
	ids := make([]model.VolumeId, latest.NthPosition()+1)
	for i := range ids {
		ids[i] = NthVolumeId(uint64(i))
	}
	return ids, nil
}

// RawKeyAsRecordKey accepts a possibly-truncated hex address: a full
// 20-byte address matches a Chapter record by equality, a shorter one by
// prefix (spec.md §4.9).
func (s *Spec) RawKeyAsRecordKey(raw string) (model.RecordKey, error) {
	b, err := ParseAddressPrefix(raw)
	if err != nil {
		return nil, err
	}
	return QueryKey(b), nil
}

// RecordKeyToChapterId implements spec.Spec. It accepts either an Address
// (a Chapter record's own key) or a QueryKey (a normalized user query) —
// both are keyed into the same chapter by their first byte.
func (s *Spec) RecordKeyToChapterId(k model.RecordKey) model.ChapterId {
	return model.NthChapterId(chapterPrefix, int(k.Bytes()[0]))
}

func (s *Spec) KeyMatchesQuery(candidate model.RecordKey, query model.RecordKey) bool {
	c := candidate.Bytes()
	q := query.Bytes()
	if len(q) == len(c) {
		return bytes.Equal(c, q)
	}
	// A shorter query key is a prefix match (spec.md §4.9 / §8).
	return len(q) < len(c) && bytes.HasPrefix(c, q)
}

func (s *Spec) ChapterIdFromInterfaceId(id string) (model.ChapterId, error) {
	return ChapterIdFromInterfaceId(id)
}

func (s *Spec) VolumeIdFromInterfaceId(id string) (model.VolumeId, error) {
	return VolumeIdFromInterfaceId(id)
}

func (s *Spec) Extractor() spec.Extractor { return s.extractor }

func (s *Spec) SampleObtainer() spec.SampleObtainer { return s.sampler }

func (s *Spec) Codec() *codec.Codec { return s.codec }
