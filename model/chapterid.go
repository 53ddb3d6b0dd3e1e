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

// Package model holds the shapes shared by every layer of the engine:
// ChapterId, VolumeId, Chapter and Record. Nothing here knows how to read or
// write bytes; that lives in codec. Nothing here knows about the filesystem;
// that lives in layout. Keeping this package leaf-level lets codec, spec and
// layout all depend on it without forming an import cycle.
package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedInterfaceId is returned when a string does not parse as the
// interface id of a ChapterId or VolumeId.
var ErrMalformedInterfaceId = errors.New("malformed interface id")

// ChapterId names one Chapter across all Volumes of a database. It is opaque
// outside this package: construct one with NthChapterId or
// ChapterIdFromInterfaceId, never by composite literal.
type ChapterId struct {
	prefix string
	n      int
}

// NthChapterId returns the ChapterId at index n (0-based) for a spec whose
// chapter interface ids are spelled "<prefix>_0x<hex>".
func NthChapterId(prefix string, n int) ChapterId {
	return ChapterId{prefix: prefix, n: n}
}

// Index returns n, the 0-based position in [0, NumChapters).
func (c ChapterId) Index() int { return c.n }

// InterfaceId returns the canonical on-disk spelling, e.g. "addresses_0xab".
// Lexicographic ordering of InterfaceId strings for n in [0, 256) matches
// ascending n because the hex is always exactly two digits.
func (c ChapterId) InterfaceId() string {
	return fmt.Sprintf("%s_0x%02x", c.prefix, c.n)
}

func (c ChapterId) String() string { return c.InterfaceId() }

// ChapterIdFromInterfaceId parses a string of the form "<prefix>_0x<hex>"
// back into a ChapterId. The prefix must match exactly.
func ChapterIdFromInterfaceId(prefix, s string) (ChapterId, error) {
	want := prefix + "_0x"
	if !strings.HasPrefix(s, want) {
		return ChapterId{}, errors.Wrapf(ErrMalformedInterfaceId, "chapter id %q: want prefix %q", s, want)
	}
	hexPart := s[len(want):]
	n, err := strconv.ParseInt(hexPart, 16, 32)
	if err != nil {
		return ChapterId{}, errors.Wrapf(ErrMalformedInterfaceId, "chapter id %q: bad hex suffix", s)
	}
	return ChapterId{prefix: prefix, n: int(n)}, nil
}

// ChapterIdFromDirName parses the base name of a chapter directory, e.g.
// "/data/addresses/addresses_0xab" -> ChapterId{n: 0xab}.
func ChapterIdFromDirName(prefix, dirName string) (ChapterId, error) {
	if i := strings.LastIndexByte(dirName, '/'); i >= 0 {
		dirName = dirName[i+1:]
	}
	return ChapterIdFromInterfaceId(prefix, dirName)
}

// AllChapterIds returns NthChapterId(prefix, 0..numChapters-1).
func AllChapterIds(prefix string, numChapters int) []ChapterId {
	ids := make([]ChapterId, numChapters)
	for i := 0; i < numChapters; i++ {
		ids[i] = NthChapterId(prefix, i)
	}
	return ids
}
