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

	"github.com/chapterdb/todd/codec"
	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Spec implements spec.Spec for the 4-byte-selector-to-text database.
type Spec struct {
	extractor *Extractor
	sampler   spec.SampleObtainer
	codec     *codec.Codec
}

// New builds the signatures Spec over the given RawSource and sample
// obtainer.
func New(source RawSource, sampler spec.SampleObtainer) *Spec {
	return &Spec{
		extractor: &Extractor{Source: source},
		sampler:   sampler,
		codec:     NewCodec(),
	}
}

var _ spec.Spec = (*Spec)(nil)

func (s *Spec) DatabaseInterfaceId() string { return "signatures" }

func (s *Spec) SpecVersion() spec.Version { return spec.Version{Major: 0, Minor: 1, Patch: 0} }

func (s *Spec) SchemasResource() string {
	return "https://raw.githubusercontent.com/chapterdb/todd/main/schemas/signatures.json"
}

func (s *Spec) Describe() string {
	return "4-byte selector text index: selector -> known text signatures, 1000-record volumes"
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

func (s *Spec) RawKeyAsRecordKey(raw string) (model.RecordKey, error) {
	return ParseSelector(raw)
}

func (s *Spec) RecordKeyToChapterId(k model.RecordKey) model.ChapterId {
	return model.NthChapterId(chapterPrefix, int(k.Bytes()[0]))
}

func (s *Spec) KeyMatchesQuery(candidate model.RecordKey, query model.RecordKey) bool {
	return bytes.Equal(candidate.Bytes(), query.Bytes())
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
