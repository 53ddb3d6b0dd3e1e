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

// Package nametags is the address-to-name/tag spec: RecordKey is a 20-byte
// address, RecordValue is that address's associated names and tags, and the
// Volume axis counts records rather than blocks (one Volume per 1,000
// records, in ascending-key insertion order).
package nametags

import (
	"encoding/hex"
	"strings"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// NumChapters is NUM_CHAPTERS for this spec: one chapter per first byte of
// address, same as aai.
const NumChapters = 256

// RecordsPerVolume is the count-based Volume width (spec.md §4.1 table).
const RecordsPerVolume = 1_000

const (
	// chapterPrefix is "chapter", the generic fallback spelling — this spec
	// has no more specific domain noun for its chapter axis the way aai's
	// "addresses" or signatures' "signatures" do.
	chapterPrefix = "chapter"
	volumePrefix  = "nametags_from"
)

// AddressWidth is the fixed width of a RecordKey in this spec.
const AddressWidth = 20

// Address is this spec's RecordKey.
type Address [AddressWidth]byte

func (a Address) Bytes() []byte  { return a[:] }
func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// ParseAddress normalizes user input into an Address, requiring the full
// width — nametags has no documented prefix-query behavior, unlike aai.
func ParseAddress(raw string) (Address, error) {
	var a Address
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != AddressWidth {
		return a, spec.ErrInvalidKey
	}
	copy(a[:], b)
	return a, nil
}

// NameTags is the RecordValue of this spec: every name and every tag
// associated with one address, each list independently populated (spec.md
// §4.1 table: "list of names + list of tags").
type NameTags struct {
	Names []string
	Tags  []string
}

// Chapter is the nametags concrete Chapter type.
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

// ChapterIdFor returns the ChapterId an address belongs to: first byte.
func ChapterIdFor(a Address) model.ChapterId {
	return model.NthChapterId(chapterPrefix, int(a[0]))
}

// NthChapterId is the nametags spelling of model.NthChapterId.
func NthChapterId(n int) model.ChapterId { return model.NthChapterId(chapterPrefix, n) }

// ChapterIdFromInterfaceId parses a nametags chapter interface id.
func ChapterIdFromInterfaceId(s string) (model.ChapterId, error) {
	return model.ChapterIdFromInterfaceId(chapterPrefix, s)
}

// NthVolumeId is the nametags spelling of model.NthVolumeId.
func NthVolumeId(position uint64) model.VolumeId {
	return model.NthVolumeId(volumePrefix, model.RecordCount, RecordsPerVolume, position)
}

// VolumeIdFromInterfaceId parses a nametags volume interface id.
func VolumeIdFromInterfaceId(s string) (model.VolumeId, error) {
	return model.VolumeIdFromInterfaceId(volumePrefix, model.RecordCount, RecordsPerVolume, s)
}
