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

// Package signatures is the 4-byte-selector-to-text spec: RecordKey is a
// 4-byte function/event selector, RecordValue is the list of human-readable
// text signatures that have ever hashed to that selector (collisions are
// real and expected), and the Volume axis counts records like nametags.
package signatures

import (
	"encoding/hex"
	"strings"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// NumChapters is NUM_CHAPTERS: one chapter per first byte of selector.
const NumChapters = 256

// RecordsPerVolume is the count-based Volume width.
const RecordsPerVolume = 1_000

const (
	chapterPrefix = "signatures"
	volumePrefix  = "signatures_from"
)

// SelectorWidth is the fixed width of a RecordKey in this spec.
const SelectorWidth = 4

// Selector is this spec's RecordKey: a 4-byte function or event selector.
type Selector [SelectorWidth]byte

func (s Selector) Bytes() []byte  { return s[:] }
func (s Selector) String() string { return hex.EncodeToString(s[:]) }

// ParseSelector normalizes user input into a Selector, requiring exactly
// SelectorWidth bytes — spec.md's worked example `find("ddf252ad")` has no
// leading "0x".
func ParseSelector(raw string) (Selector, error) {
	var sel Selector
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != SelectorWidth {
		return sel, spec.ErrInvalidKey
	}
	copy(sel[:], b)
	return sel, nil
}

// Texts is the RecordValue of this spec: every known text signature that
// hashes to this selector.
type Texts []string

// Chapter is the signatures concrete Chapter type.
type Chapter struct {
	chapterId model.ChapterId
	volumeId  model.VolumeId
	records   []model.Record
}

func NewChapter(chapterId model.ChapterId, volumeId model.VolumeId, records []model.Record) *Chapter {
	return &Chapter{chapterId: chapterId, volumeId: volumeId, records: records}
}

func (c *Chapter) ChapterId() model.ChapterId { return c.chapterId }
func (c *Chapter) VolumeId() model.VolumeId   { return c.volumeId }
func (c *Chapter) Records() []model.Record    { return c.records }

// ChapterIdFor returns the ChapterId a selector belongs to: first byte.
func ChapterIdFor(sel Selector) model.ChapterId {
	return model.NthChapterId(chapterPrefix, int(sel[0]))
}

// NthChapterId is the signatures spelling of model.NthChapterId.
func NthChapterId(n int) model.ChapterId { return model.NthChapterId(chapterPrefix, n) }

// ChapterIdFromInterfaceId parses a signatures chapter interface id.
func ChapterIdFromInterfaceId(s string) (model.ChapterId, error) {
	return model.ChapterIdFromInterfaceId(chapterPrefix, s)
}

// NthVolumeId is the signatures spelling of model.NthVolumeId.
func NthVolumeId(position uint64) model.VolumeId {
	return model.NthVolumeId(volumePrefix, model.RecordCount, RecordsPerVolume, position)
}

// VolumeIdFromInterfaceId parses a signatures volume interface id.
func VolumeIdFromInterfaceId(s string) (model.VolumeId, error) {
	return model.VolumeIdFromInterfaceId(volumePrefix, model.RecordCount, RecordsPerVolume, s)
}
