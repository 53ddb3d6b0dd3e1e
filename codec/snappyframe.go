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

package codec

import "github.com/golang/snappy"

// FrameEncode compresses an ssz-encoded Chapter with snappy's block format,
// producing the payload written to a ".ssz_snappy" file. Block (not
// streaming-frame) snappy is used because a Chapter is always fully
// buffered in memory before being written — there is no streaming producer
// to frame incrementally.
func FrameEncode(raw []byte) []byte {
	return snappy.Encode(nil, raw)
}

// FrameDecode reverses FrameEncode, failing with CompressionError (not
// TruncatedInput) on malformed snappy framing, so a corrupt frame can be
// told apart from a short read.
func FrameDecode(framed []byte) ([]byte, error) {
	raw, err := snappy.Decode(nil, framed)
	if err != nil {
		return nil, wrap(CompressionError, err)
	}
	return raw, nil
}
