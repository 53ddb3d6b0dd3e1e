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

// ssz.go implements the wire algorithm spec.md §4.2 mandates precisely:
// fixed-width fields first, then a small offset table, then the variable
// payload — so that two implementations given the same Chapter produce
// identical bytes, which is what lets the Manifest's CIDs mean anything.
//
// Every concrete spec (aai, nametags, signatures) builds its Chapter and
// Record-value encodings out of these primitives; none of them touch
// encoding/binary directly, so a future change to endianness or width only
// has to happen here.
package codec

import (
	"encoding/binary"
	"io"
)

// Writer accumulates an ssz byte stream. The zero value is not usable; use
// NewWriter.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer, optionally pre-sized.
func NewWriter(sizeHint int) *Writer {
	return &Writer{buf: make([]byte, 0, sizeHint)}
}

func (w *Writer) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

func (w *Writer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteFixedBytes appends b verbatim. Used for fixed-width keys (addresses,
// 4-byte selectors) whose width the caller's spec already knows.
func (w *Writer) WriteFixedBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteVarBytes appends a uint32 length prefix followed by b — the
// "variable part" primitive every List<T> and string field is built from.
func (w *Writer) WriteVarBytes(b []byte) {
	w.WriteUint32(uint32(len(b)))
	w.buf = append(w.buf, b...)
}

// Len reports the number of bytes written so far — used to compute offsets
// while a container's fixed section is still being assembled.
func (w *Writer) Len() int { return len(w.buf) }

// Bytes returns the accumulated stream. Valid only after all writes.
func (w *Writer) Bytes() []byte { return w.buf }

// Reader consumes an ssz byte stream produced by Writer, failing fast with
// TruncatedInput rather than panicking on short input.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) need(n int) error {
	if len(r.buf)-r.pos < n {
		return wrap(TruncatedInput, io.ErrUnexpectedEOF)
	}
	return nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadFixedBytes reads exactly n bytes and returns a copy (never an alias
// into the reader's backing array, so callers may retain it).
func (r *Reader) ReadFixedBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// ReadVarBytes reads a uint32 length prefix then that many bytes.
func (r *Reader) ReadVarBytes() ([]byte, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	return r.ReadFixedBytes(int(n))
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Done reports whether the stream has been fully consumed; a Deserialize
// that leaves bytes unread signals TruncatedInput or TypeMismatch upstream,
// since a well-formed Chapter file never has trailing bytes.
func (r *Reader) Done() bool { return r.Remaining() == 0 }

// ExpectDone returns a TypeMismatch codec error when bytes remain after a
// container was expected to consume the whole stream.
func (r *Reader) ExpectDone() error {
	if !r.Done() {
		return wrap(TypeMismatch, io.ErrShortWrite)
	}
	return nil
}
