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
	"context"
	"fmt"
	"strconv"
	"strings"
)

// AddressAppearance is one raw (address, block, index) triple as handed to
// the extractor by a ChunkSource, before it has been sorted into any
// Chapter.
type AddressAppearance struct {
	Address    Address
	Appearance Appearance
}

// ChunkSource is the "opaque source adapter" spec.md §1 calls out as
// out-of-scope: parsing the upstream Unchained Index chunk format. This
// package never reads chunk files itself: both decoding appearances and
// discovering which block ranges are on disk (HighestCompleteBlock) are
// delegated to whatever ChunkSource the caller injects.
type ChunkSource interface {
	// Appearances yields every appearance whose block lies in
	// [fromBlock, toBlock), in no particular order — the extractor sorts.
	Appearances(ctx context.Context, rawSourceDir string, fromBlock, toBlock uint64) ([]AddressAppearance, error)
	// HighestCompleteBlock reports the highest block number (exclusive
	// upper bound) the raw source has complete chunk coverage for, by
	// inspecting chunk file names only. ok is false if there isn't even
	// one complete chunk yet.
	HighestCompleteBlock(ctx context.Context, rawSourceDir string) (block uint64, ok bool, err error)
}

// parseChunkFileName parses the documented on-disk naming convention,
// "NNNNNNNNN-NNNNNNNNN.bin", spec.md §6, from the *name* alone (not the
// contents). The engine does not call it; coverage comes from the injected
// ChunkSource's HighestCompleteBlock.
func parseChunkFileName(name string) (from, to uint64, ok bool) {
	base := strings.TrimSuffix(name, ".bin")
	if base == name {
		return 0, 0, false
	}
	parts := strings.SplitN(base, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	from64, err1 := strconv.ParseUint(parts[0], 10, 64)
	to64, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return from64, to64, true
}

// formatChunkFileName is the inverse of parseChunkFileName.
func formatChunkFileName(from, to uint64) string {
	return fmt.Sprintf("%09d-%09d.bin", from, to)
}
