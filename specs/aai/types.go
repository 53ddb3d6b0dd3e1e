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

// Package aai is the address-appearance-index spec: RecordKey is a 20-byte
// address, RecordValue is the list of (block, index) positions at which
// that address appears on chain, and the Volume axis is a fixed-width block
// range (100,000 blocks per Volume).
package aai

import (
	"encoding/hex"
	"strings"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// NumChapters is NUM_CHAPTERS for this spec: one chapter per first byte of
// address.
const NumChapters = 256

// BlockRangeWidth is the number of blocks covered by one Volume.
const BlockRangeWidth = 100_000

const (
	chapterPrefix = "addresses"
	volumePrefix  = "mappings_starting"
)

// AddressWidth is the fixed width of a RecordKey in this spec.
const AddressWidth = 20

// Address is a 20-byte Ethereum-style address, the RecordKey of this spec.
type Address [AddressWidth]byte

// Bytes implements model.RecordKey.
func (a Address) Bytes() []byte { return a[:] }

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }

// ParseAddress normalizes user input into an Address: strips an optional
// "0x" prefix, hex-decodes, and requires exactly AddressWidth bytes — the
// full-length path of spec.Spec.RawKeyAsRecordKey.
func ParseAddress(raw string) (Address, error) {
	var a Address
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, spec.ErrInvalidKey
	}
	if len(b) != AddressWidth {
		return a, spec.ErrInvalidKey
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddressPrefix normalizes a possibly-truncated address for prefix
// queries (spec.md §4.9's "user key shorter than a full record key").
func ParseAddressPrefix(raw string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if s == "" {
		return nil, spec.ErrInvalidKey
	}
	b, err := hex.DecodeString(s)
	if err != nil || len(b) == 0 || len(b) > AddressWidth {
		return nil, spec.ErrInvalidKey
	}
	return b, nil
}

// QueryKey is the RecordKey produced by RawKeyAsRecordKey: 1 to AddressWidth
// bytes, since a query is allowed to supply a truncated address and match by
// prefix (spec.md §4.9). A full Chapter Record's key is always an Address;
// QueryKey only ever appears on the query side of KeyMatchesQuery.
type QueryKey []byte

// Bytes implements model.RecordKey.
func (q QueryKey) Bytes() []byte { return q }

// Appearance is one (block, index-within-block) position at which an
// address appears in a transaction.
type Appearance struct {
	Block uint64
	Index uint32
}

// Appearances is the RecordValue of this spec: every appearance of one
// address within one Volume's block window, in the order the raw source
// produced them.
type Appearances []Appearance

// Chapter is the aai concrete Chapter type.
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

// NthChapterId is the aai spelling of model.NthChapterId.
func NthChapterId(n int) model.ChapterId { return model.NthChapterId(chapterPrefix, n) }

// ChapterIdFromInterfaceId parses an aai chapter interface id.
func ChapterIdFromInterfaceId(s string) (model.ChapterId, error) {
	return model.ChapterIdFromInterfaceId(chapterPrefix, s)
}

// NthVolumeId is the aai spelling of model.NthVolumeId.
func NthVolumeId(position uint64) model.VolumeId {
	return model.NthVolumeId(volumePrefix, model.BlockRange, BlockRangeWidth, position)
}

// VolumeIdFromInterfaceId parses an aai volume interface id.
func VolumeIdFromInterfaceId(s string) (model.VolumeId, error) {
	return model.VolumeIdFromInterfaceId(volumePrefix, model.BlockRange, BlockRangeWidth, s)
}
