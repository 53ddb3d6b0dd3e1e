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

import "github.com/chapterdb/todd/model"

// ChapterCodec is implemented once per concrete spec. It marshals that
// spec's concrete Chapter type to the ssz bytes described by spec.md §4.2;
// Codec wraps it with the optional snappy frame so specs never have to
// think about compression.
type ChapterCodec interface {
	MarshalChapter(ch model.Chapter) ([]byte, error)
	UnmarshalChapter(b []byte) (model.Chapter, error)
}

// Codec is the per-spec serialize/deserialize pair spec.md §4.2 requires:
// serialize and deserialize must be mutual inverses bit-exactly, since the
// Manifest's CIDs are taken over these exact bytes.
type Codec struct {
	inner  ChapterCodec
	snappy bool
}

// NewSSZ returns a Codec that writes the bare ssz encoding (file ext "ssz").
func NewSSZ(inner ChapterCodec) *Codec {
	return &Codec{inner: inner}
}

// NewSSZSnappy returns a Codec that wraps the ssz encoding in a snappy frame
// (file ext "ssz_snappy").
func NewSSZSnappy(inner ChapterCodec) *Codec {
	return &Codec{inner: inner, snappy: true}
}

// Ext is the file extension this Codec's Chapter files use, sans dot.
func (c *Codec) Ext() string {
	if c.snappy {
		return "ssz_snappy"
	}
	return "ssz"
}

// Serialize encodes a Chapter to bytes ready to be written to its file.
func (c *Codec) Serialize(ch model.Chapter) ([]byte, error) {
	raw, err := c.inner.MarshalChapter(ch)
	if err != nil {
		return nil, err
	}
	if c.snappy {
		return FrameEncode(raw), nil
	}
	return raw, nil
}

// Deserialize decodes bytes previously produced by Serialize back into a
// Chapter.
func (c *Codec) Deserialize(b []byte) (model.Chapter, error) {
	raw := b
	if c.snappy {
		decoded, err := FrameDecode(b)
		if err != nil {
			return nil, err
		}
		raw = decoded
	}
	return c.inner.UnmarshalChapter(raw)
}
