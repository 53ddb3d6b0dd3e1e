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

package manifest

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	cidpkg "github.com/chapterdb/todd/cid"
	"github.com/chapterdb/todd/layout"
	"github.com/chapterdb/todd/spec"
)

// ErrIncompleteDataset is returned by Generate in Default mode when fewer
// than NumChapters() chapter directories exist (spec.md §4.7 non-goal).
var ErrIncompleteDataset = errors.New("manifest: dataset looks incomplete")

// Generate walks l.DataDir(), validating and hashing every Chapter file, and
// returns the assembled Manifest (not yet written to disk — see Write).
// allowSparse should be true for Sample-mode layouts, where an
// intentionally sparse dataset is expected.
func Generate(l *layout.Layout, s spec.Spec, allowSparse bool) (*Manifest, error) {
	ext := "." + s.Codec().Ext()
	fs := l.Fs()

	var entries []Entry
	var latestVolumeId uint64
	haveLatest := false
	var latestVolumeInterfaceId string

	chaptersPresent := 0
	for _, chapterId := range s.AllChapterIds() {
		dir := l.ChapterDir(chapterId)
		dirEntries, err := afero.ReadDir(fs, dir)
		if err != nil {
			continue
		}
		if len(dirEntries) == 0 {
			continue
		}
		chaptersPresent++

		suffix := "_" + chapterId.InterfaceId() + ext
		seen := roaring.New()
		for _, fileEntry := range dirEntries {
			name := fileEntry.Name()
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			volIdStr := strings.TrimSuffix(name, suffix)
			volumeId, err := s.VolumeIdFromInterfaceId(volIdStr)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: parsing volume id from %q", name)
			}

			path := dir + "/" + name
			raw, err := afero.ReadFile(fs, path)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: reading %s", path)
			}
			if _, err := s.Codec().Deserialize(raw); err != nil {
				return nil, errors.Wrapf(err, "manifest: validating %s", path)
			}
			sum, err := cidpkg.Of(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "manifest: hashing %s", path)
			}

			pos := volumeId.NthPosition()
			if seen.Contains(uint32(pos)) {
				return nil, errors.Errorf("manifest: duplicate volume position %d under %s", pos, dir)
			}
			seen.Add(uint32(pos))

			entries = append(entries, Entry{
				VolumeInterfaceId:  volumeId.InterfaceId(),
				ChapterInterfaceId: chapterId.InterfaceId(),
				CIDv0:              sum,
			})

			if !haveLatest || pos > latestVolumeId {
				latestVolumeId, haveLatest, latestVolumeInterfaceId = pos, true, volumeId.InterfaceId()
			}
		}
	}

	if !allowSparse && chaptersPresent < s.NumChapters() {
		return nil, errors.Wrapf(ErrIncompleteDataset, "%d of %d chapter directories present", chaptersPresent, s.NumChapters())
	}

	return New(s, latestVolumeInterfaceId, entries), nil
}

// Write serializes m and writes it to l.ManifestFile(), overwriting any
// existing file (spec.md §4.7 step 6: "Write JSON ... Overwrites."). It takes
// no lock itself; the engine calls it inside l.LockManifest.
func Write(l *layout.Layout, m *Manifest) error {
	b, err := Marshal(m)
	if err != nil {
		return err
	}
	path := l.ManifestFile()
	if err := afero.WriteFile(l.Fs(), path, b, 0o644); err != nil {
		return errors.Wrapf(err, "manifest: writing %s", path)
	}
	return nil
}

// Read reads and decodes the manifest at l.ManifestFile().
func Read(l *layout.Layout, runningVersion spec.Version) (*Manifest, error) {
	b, err := afero.ReadFile(l.Fs(), l.ManifestFile())
	if err != nil {
		return nil, errors.Wrapf(err, "manifest: reading %s", l.ManifestFile())
	}
	return Unmarshal(b, runningVersion)
}
