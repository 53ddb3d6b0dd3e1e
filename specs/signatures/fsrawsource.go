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

// recordFileName mirrors nametags.recordFileName: the selector's hex
// encoding, fixed-width, so a directory listing already sorts ascending.
func recordFileName(sel Selector) string {
	return sel.String() + recordFileExt
}

// FsRawSource is the concrete, disk-backed RawSource spec.md §6 describes
// for signatures: one file per selector, filename is the key. Same role as
// nametags.FsRawSource, for the selector-keyed spec.
type FsRawSource struct {
	Fs afero.Fs
}

var _ RawSource = (*FsRawSource)(nil)

// NewFsRawSource wires a FsRawSource against the real filesystem.
func NewFsRawSource() *FsRawSource {
	return &FsRawSource{Fs: afero.NewOsFs()}
}

// SortedKeys implements RawSource: every parseable record filename under
// rawSourceDir, sorted ascending by selector bytes. Unparseable entries are
// skipped rather than failing the whole directory.
func (s *FsRawSource) SortedKeys(ctx context.Context, rawSourceDir string) ([]Selector, error) {
	entries, err := afero.ReadDir(s.Fs, rawSourceDir)
	if err != nil {
		return nil, errors.Wrapf(err, "signatures: reading raw source dir %s", rawSourceDir)
	}

	keys := make([]Selector, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, recordFileExt) {
			continue
		}
		sel, err := ParseSelector(strings.TrimSuffix(name, recordFileExt))
		if err != nil {
			continue
		}
		keys = append(keys, sel)
	}

	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys, nil
}

// Record implements RawSource: decodes the single per-selector JSON file
// (a plain array of text signatures), via the same jsoniter config
// manifest.go uses to read/write the manifest.
func (s *FsRawSource) Record(ctx context.Context, rawSourceDir string, key Selector) (Texts, error) {
	path := rawSourceDir + "/" + recordFileName(key)
	b, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "signatures: reading record %s", path)
	}
	var texts Texts
	if err := jsonAPI.Unmarshal(b, &texts); err != nil {
		return nil, errors.Wrapf(err, "signatures: decoding record %s", path)
	}
	return texts, nil
}
