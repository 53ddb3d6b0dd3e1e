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

// ChapterHeader is the fixed section every concrete spec's Chapter encoding
// shares: which Chapter, which Volume, how many records, and the offset at
// which the variable record stream begins. Every on-disk Chapter file,
// regardless of spec, starts with these 18 bytes — the "fixed parts first,
// then offsets" half of spec.md §4.2's layout.
type ChapterHeader struct {
	ChapterIndex    uint16
	VolumePosition  uint64
	RecordCount     uint32
	VariableOffset  uint32
}

// HeaderLength is ChapterHeader's encoded size: 2 + 8 + 4 + 4.
const HeaderLength = 18

// WriteHeader appends h to w. Callers write the variable record stream
// immediately afterward, so h.VariableOffset is always HeaderLength.
func WriteHeader(w *Writer, chapterIndex uint16, volumePosition uint64, recordCount uint32) {
	w.WriteUint16(chapterIndex)
	w.WriteUint64(volumePosition)
	w.WriteUint32(recordCount)
	w.WriteUint32(HeaderLength)
}

// ReadHeader reads a ChapterHeader and validates VariableOffset is the
// constant this codec version always writes — any other value means the
// bytes were produced by an incompatible codec revision.
func ReadHeader(r *Reader) (ChapterHeader, error) {
	var h ChapterHeader
	idx, err := r.ReadUint16()
	if err != nil {
		return h, err
	}
	vol, err := r.ReadUint64()
	if err != nil {
		return h, err
	}
	count, err := r.ReadUint32()
	if err != nil {
		return h, err
	}
	off, err := r.ReadUint32()
	if err != nil {
		return h, err
	}
	if off != HeaderLength {
		return h, wrap(VersionMismatch, errOffsetMismatch(off))
	}
	h.ChapterIndex = idx
	h.VolumePosition = vol
	h.RecordCount = count
	h.VariableOffset = off
	return h, nil
}

type offsetMismatchError struct{ got uint32 }

func (e offsetMismatchError) Error() string {
	return "unexpected fixed-section offset"
}

func errOffsetMismatch(got uint32) error { return offsetMismatchError{got: got} }
