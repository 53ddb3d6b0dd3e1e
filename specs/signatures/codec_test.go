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

	"github.com/chapterdb/todd/model"
)

func selWithFirstByte(b byte) Selector {
	var s Selector
	s[0] = b
	s[1] = 0xEE
	return s
}

func TestCodecRoundTrip(t *testing.T) {
	records := []model.Record{
		{Key: selWithFirstByte(0xdd), Value: Texts{"Transfer(address,address,uint256)"}},
		{Key: selWithFirstByte(0x01), Value: Texts{"foo()", "bar(uint256)"}},
	}
	chapter := NewChapter(NthChapterId(1), NthVolumeId(0), records)

	codec := NewCodec()
	b, err := codec.Serialize(chapter)
	require.NoError(t, err)

	got, err := codec.Deserialize(b)
	require.NoError(t, err)
	require.Equal(t, chapter.Records(), got.Records())
}

func TestSelectorRoundTrip(t *testing.T) {
	sel, err := ParseSelector("ddf252ad")
	require.NoError(t, err)
	require.Equal(t, "ddf252ad", sel.String())
}
