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
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestFsRawSourceSortedKeysAndRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := selWithFirstByte(0x02)
	b := selWithFirstByte(0x01)
	require.NoError(t, afero.WriteFile(fs, "raw/"+recordFileName(a), []byte(`["second"]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "raw/"+recordFileName(b), []byte(`["first"]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "raw/README.md", []byte("not a record"), 0o644))

	src := &FsRawSource{Fs: fs}
	keys, err := src.SortedKeys(context.Background(), "raw")
	require.NoError(t, err)
	require.Equal(t, []Selector{b, a}, keys)

	texts, err := src.Record(context.Background(), "raw", a)
	require.NoError(t, err)
	require.Equal(t, Texts{"second"}, texts)
}

func TestFsRawSourceSkipsUnparseableFilenames(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "raw/not-hex.json", []byte(`[]`), 0o644))

	src := &FsRawSource{Fs: fs}
	keys, err := src.SortedKeys(context.Background(), "raw")
	require.NoError(t, err)
	require.Empty(t, keys)
}

// TestFetchRemoteSampleMaterializesOneFilePerSelector exercises the fixed
// FetchRemoteSample end to end against a fake 4byte.directory page,
// including two colliding text signatures for the same selector.
func TestFetchRemoteSampleMaterializesOneFilePerSelector(t *testing.T) {
	sel := selWithFirstByte(0xdd)
	page := `{"results": [
		{"hex_signature": "` + sel.String() + `", "text_signature": "Transfer(address,address,uint256)"},
		{"hex_signature": "` + sel.String() + `", "text_signature": "collision(address,address,uint256)"}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	s := NewSampleSource("")
	s.Fs = fs
	s.ArchiveURL = srv.URL

	require.NoError(t, s.FetchRemoteSample(context.Background(), "raw"))

	src := &FsRawSource{Fs: fs}
	keys, err := src.SortedKeys(context.Background(), "raw")
	require.NoError(t, err)
	require.Equal(t, []Selector{sel}, keys)

	texts, err := src.Record(context.Background(), "raw", sel)
	require.NoError(t, err)
	require.ElementsMatch(t, Texts{"Transfer(address,address,uint256)", "collision(address,address,uint256)"}, texts)
}
