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

package nametags

import (
	"bytes"
	"context"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const recordFileExt = ".json"

// recordFileName is the raw-source filename convention this module commits
// to: the address's lowercase hex encoding, fixed-width, so a plain
// directory listing already sorts in ascending key order.
func recordFileName(addr Address) string {
	return addr.String() + recordFileExt
}

// FsRawSource is the concrete, disk-backed RawSource spec.md §6 describes:
// one file per record, filename is the key. It is the nametags-specific
// counterpart of aai's ChunkSource adapter, except — unlike ChunkSource,
// which spec.md §1 calls out as an opaque format left for the caller to
// parse — this on-disk convention is in-scope, so a real implementation
// ships here rather than being left to every caller to reinvent.
type FsRawSource struct {
	Fs afero.Fs
}

var _ RawSource = (*FsRawSource)(nil)

// NewFsRawSource wires a FsRawSource against the real filesystem.
func NewFsRawSource() *FsRawSource {
	return &FsRawSource{Fs: afero.NewOsFs()}
}

// SortedKeys implements RawSource: every parseable record filename under
// rawSourceDir, sorted ascending by address bytes. Entries that don't parse
// as a recordFileName are skipped rather than failing the whole directory,
// since a raw-source directory may legitimately carry other files (a
// README, a lockfile) alongside the per-record ones.
func (s *FsRawSource) SortedKeys(ctx context.Context, rawSourceDir string) ([]Address, error) {
	entries, err := afero.ReadDir(s.Fs, rawSourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, "nametags: reading raw source dir %s", rawSourceDir)
	}

	keys := make([]Address, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, recordFileExt) {
			continue
		}
		addr, err := ParseAddress(strings.TrimSuffix(name, recordFileExt))
		if err != nil {
			continue
		}
		keys = append(keys, addr)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys, nil
}

// Record implements RawSource: decodes the single per-address JSON file,
// using the same jsoniter stdlib-compatible config manifest.go reads/writes
// the manifest with.
func (s *FsRawSource) Record(ctx context.Context, rawSourceDir string, key Address) (NameTags, error) {
	path := rawSourceDir + "/" + recordFileName(key)
	b, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return NameTags{}, errors.Wrapf(err, "nametags: reading record %s", path)
	}
	var nt NameTags
	if err := jsonAPI.Unmarshal(b, &nt); err != nil {
		return NameTags{}, errors.Wrapf(err, "nametags: decoding record %s", path)
	}
	return nt, nil
}
