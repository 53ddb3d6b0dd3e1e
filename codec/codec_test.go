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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

// TestHeaderRoundTripFuzz generates randomized ChapterHeader fields with
// gofuzz and checks WriteHeader/ReadHeader are mutual inverses, the
// round-trip property spec.md §8 requires of the wire codec.
func TestHeaderRoundTripFuzz(t *testing.T) {
	f := fuzz.New()
	for i := 0; i < 200; i++ {
		var chapterIndex uint16
		var volumePosition uint64
		var recordCount uint32
		f.Fuzz(&chapterIndex)
		f.Fuzz(&volumePosition)
		f.Fuzz(&recordCount)

		w := NewWriter(HeaderLength)
		WriteHeader(w, chapterIndex, volumePosition, recordCount)

		got, err := ReadHeader(NewReader(w.Bytes()))
		require.NoError(t, err)

		want := ChapterHeader{
			ChapterIndex:   chapterIndex,
			VolumePosition: volumePosition,
			RecordCount:    recordCount,
			VariableOffset: HeaderLength,
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("header round-trip mismatch (-want +got):\n%s", diff)
		}
	}
}

// TestReadHeaderRejectsBadOffset simulates bytes written by an incompatible
// codec revision: any VariableOffset other than HeaderLength must fail
// closed rather than silently desyncing the reader.
func TestReadHeaderRejectsBadOffset(t *testing.T) {
	w := NewWriter(HeaderLength)
	w.WriteUint16(1)
	w.WriteUint64(2)
	w.WriteUint32(3)
	w.WriteUint32(99) // wrong offset

	_, err := ReadHeader(NewReader(w.Bytes()))
	require.Error(t, err)
}

// TestVarBytesRoundTripFuzz fuzzes the List<T>/string primitive every
// concrete spec's variable section is built from.
func TestVarBytesRoundTripFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 64)
	for i := 0; i < 100; i++ {
		var payload []byte
		f.Fuzz(&payload)

		w := NewWriter(len(payload) + 4)
		w.WriteVarBytes(payload)

		r := NewReader(w.Bytes())
		got, err := r.ReadVarBytes()
		require.NoError(t, err)
		require.True(t, r.Done())

		if diff := cmp.Diff(payload, got); diff != "" {
			t.Fatalf("var bytes round-trip mismatch (-want +got):\n%s", diff)
		}
	}
}

// TestSnappyFrameRoundTripFuzz exercises the ssz_snappy variant's framing,
// the compression half of the wire format fuzz coverage doesn't otherwise
// touch.
func TestSnappyFrameRoundTripFuzz(t *testing.T) {
	f := fuzz.New().NilChance(0).NumElements(0, 512)
	for i := 0; i < 50; i++ {
		var raw []byte
		f.Fuzz(&raw)

		framed := FrameEncode(raw)
		back, err := FrameDecode(framed)
		require.NoError(t, err)
		require.Equal(t, raw, back)
	}
}

func TestFrameDecodeRejectsGarbage(t *testing.T) {
	_, err := FrameDecode([]byte{0xff, 0xff, 0xff, 0xff, 0x00})
	require.Error(t, err)
}
