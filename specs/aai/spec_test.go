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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chapterdb/todd/spec"
)

func newTestSpec() *Spec {
	return New(&fakeChunkSource{}, &SampleSource{})
}

func TestRawKeyAsRecordKeyFullAddress(t *testing.T) {
	s := newTestSpec()
	k, err := s.RawKeyAsRecordKey("0x0102030405060708090a0b0c0d0e0f1011121314")
	require.NoError(t, err)
	require.Len(t, k.Bytes(), AddressWidth)
}

func TestRawKeyAsRecordKeyTruncated(t *testing.T) {
	s := newTestSpec()
	k, err := s.RawKeyAsRecordKey("0xab")
	require.NoError(t, err)
	require.Equal(t, []byte{0xab}, k.Bytes())
}

func TestRawKeyAsRecordKeyInvalid(t *testing.T) {
	s := newTestSpec()
	_, err := s.RawKeyAsRecordKey("not-hex")
	require.ErrorIs(t, err, spec.ErrInvalidKey)
}

func TestKeyMatchesQueryExactAndPrefix(t *testing.T) {
	s := newTestSpec()
	full := addrWithFirstByte(0xab)

	exact, err := s.RawKeyAsRecordKey(full.String())
	require.NoError(t, err)
	require.True(t, s.KeyMatchesQuery(full, exact))

	prefix, err := s.RawKeyAsRecordKey("0xab")
	require.NoError(t, err)
	require.True(t, s.KeyMatchesQuery(full, prefix))

	other, err := s.RawKeyAsRecordKey("0xcd")
	require.NoError(t, err)
	require.False(t, s.KeyMatchesQuery(full, other))
}

func TestRecordKeyToChapterId(t *testing.T) {
	s := newTestSpec()
	k, err := s.RawKeyAsRecordKey("0xab")
	require.NoError(t, err)
	require.Equal(t, NthChapterId(0xab), s.RecordKeyToChapterId(k))
}

func TestAllChapterIdsCount(t *testing.T) {
	s := newTestSpec()
	require.Len(t, s.AllChapterIds(), NumChapters)
}
