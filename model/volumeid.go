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

package model

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/chapterdb/todd/internal/numfmt"
)

// VolumeScheme distinguishes the two ways a spec can carve its Volume axis.
type VolumeScheme int

const (
	// BlockRange volumes cover a fixed range of upstream block numbers;
	// position k covers blocks [k*Width, (k+1)*Width).
	BlockRange VolumeScheme = iota
	// RecordCount volumes cover a fixed count of raw records; position k
	// covers global record indices [k*Width, (k+1)*Width).
	RecordCount
)

// VolumeId names one Volume across all Chapters of a database. Ordered: every
// VolumeId has a zero-based NthPosition, and NthVolumeId(p).NthPosition()==p.
type VolumeId struct {
	prefix   string
	scheme   VolumeScheme
	width    uint64
	position uint64
}

// NthVolumeId constructs the VolumeId at zero-based position.
func NthVolumeId(prefix string, scheme VolumeScheme, width uint64, position uint64) VolumeId {
	return VolumeId{prefix: prefix, scheme: scheme, width: width, position: position}
}

// NthPosition returns the zero-based sequence position.
func (v VolumeId) NthPosition() uint64 { return v.position }

// Scheme reports whether this Volume is block-range or record-count based.
func (v VolumeId) Scheme() VolumeScheme { return v.scheme }

// Width returns the block-range width, or the records-per-volume capacity.
func (v VolumeId) Width() uint64 { return v.width }

// FirstGlobalIndex returns the first block number (BlockRange) or first
// global record ordinal (RecordCount) covered by this Volume.
func (v VolumeId) FirstGlobalIndex() uint64 { return v.position * v.width }

// Contains reports whether a global index (a block number, or a record's
// insertion ordinal) falls within this Volume's window.
func (v VolumeId) Contains(globalIndex uint64) bool {
	first := v.FirstGlobalIndex()
	return globalIndex >= first && globalIndex < first+v.width
}

// InterfaceId returns the canonical spelling, e.g.
// "mappings_starting_014_400_000" or "nametags_from_000_630_000".
func (v VolumeId) InterfaceId() string {
	return v.prefix + "_" + numfmt.NineDigitsUnderscored(v.FirstGlobalIndex())
}

func (v VolumeId) String() string { return v.InterfaceId() }

// VolumeIdFromInterfaceId parses a VolumeId back from its canonical spelling.
// Since the spelling encodes FirstGlobalIndex, not position, the position is
// recovered by dividing by width.
func VolumeIdFromInterfaceId(prefix string, scheme VolumeScheme, width uint64, s string) (VolumeId, error) {
	want := prefix + "_"
	if !strings.HasPrefix(s, want) {
		return VolumeId{}, errors.Wrapf(ErrMalformedInterfaceId, "volume id %q: want prefix %q", s, want)
	}
	numPart := s[len(want):]
	first, err := numfmt.ParseNineDigitsUnderscored(numPart)
	if err != nil {
		return VolumeId{}, errors.Wrapf(ErrMalformedInterfaceId, "volume id %q: bad numeric suffix", s)
	}
	if width == 0 || first%width != 0 {
		return VolumeId{}, errors.Wrapf(ErrMalformedInterfaceId, "volume id %q: %d is not a multiple of width %d", s, first, width)
	}
	return NthVolumeId(prefix, scheme, width, first/width), nil
}
