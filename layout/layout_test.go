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

package layout

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/chapterdb/todd/specs/aai"
)

type fakeDirs struct{ dir string }

func (f fakeDirs) UserDataDir() (string, error) { return f.dir, nil }

func testSpec() *aai.Spec {
	return aai.New(nil, &aai.SampleSource{})
}

func TestResolveDefaultMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Default, fakeDirs{dir: "/home/user/.config/chapterdb"}, "", "")
	require.NoError(t, err)
	require.Equal(t, "/home/user/.config/chapterdb/addresses_manifest.json", l.ManifestFile())
	require.Equal(t, "/home/user/.config/chapterdb/addresses", l.DataDir())
	require.Equal(t, "/home/user/.config/chapterdb/raw_source_addresses", l.RawSource())
}

func TestResolveSampleModeAddsSamplesSubdir(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Sample, fakeDirs{dir: "/home/user/.config/chapterdb"}, "", "")
	require.NoError(t, err)
	require.Equal(t, "/home/user/.config/chapterdb/samples/raw_source_addresses", l.RawSource())
}

func TestResolveCustomMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Custom, fakeDirs{dir: "/fallback"}, "/custom/raw", "")
	require.NoError(t, err)
	require.Equal(t, "/custom/raw/raw_source_addresses", l.RawSource())
	require.Equal(t, "/fallback/addresses", l.DataDir())
}

func TestChapterFilePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Default, fakeDirs{dir: "/data"}, "", "")
	require.NoError(t, err)

	chapterId := aai.NthChapterId(0xab)
	volumeId := aai.NthVolumeId(144)
	require.Equal(t,
		"/data/addresses/addresses_0xab/mappings_starting_014_400_000_addresses_0xab.ssz_snappy",
		l.ChapterFilePath(chapterId, volumeId))
}

func TestLatestVolumeOnDiskNoFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Default, fakeDirs{dir: "/data"}, "", "")
	require.NoError(t, err)

	_, ok, err := l.LatestVolumeOnDisk(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLatestVolumeOnDiskPicksHighest(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testSpec()
	l, err := Resolve(fs, s, Default, fakeDirs{dir: "/data"}, "", "")
	require.NoError(t, err)

	chapterId := aai.NthChapterId(0x01)
	dir := l.ChapterDir(chapterId)
	require.NoError(t, fs.MkdirAll(dir, 0o755))
	for _, pos := range []uint64{0, 1, 2} {
		name := l.ChapterFileName(chapterId, aai.NthVolumeId(pos))
		require.NoError(t, afero.WriteFile(fs, dir+"/"+name, []byte("x"), 0o644))
	}

	got, ok, err := l.LatestVolumeOnDisk(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(2), got.NthPosition())
}
