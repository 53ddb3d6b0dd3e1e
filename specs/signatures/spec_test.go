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

package signatures

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindKnownSelector(t *testing.T) {
	s := New(&fakeRawSource{}, &SampleSource{})
	k, err := s.RawKeyAsRecordKey("ddf252ad")
	require.NoError(t, err)
	require.Equal(t, Selector{0xdd, 0xf2, 0x52, 0xad}, k)
}

func TestChapterIdInterfaceIdExample(t *testing.T) {
	require.Equal(t, "signatures_0x1c", NthChapterId(0x1c).InterfaceId())
}
