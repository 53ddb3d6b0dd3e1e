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

// Package manifest generates and reads the JSON manifest every Chapter
// file's CID is pinned to (spec.md §4.7, §6). Entries are sorted
// (VolumeInterfaceId, ChapterInterfaceId) so two runs over identical data
// produce byte-identical JSON.
package manifest

import (
	"sort"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/chapterdb/todd/spec"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrVersionMismatch is raised on read when the manifest's major spec
// version differs from the running library's.
var ErrVersionMismatch = errors.New("manifest: major spec version mismatch")

// Entry is one ManifestEntry (spec.md §4.7 step 3).
type Entry struct {
	VolumeInterfaceId  string `json:"volume_interface_id"`
	ChapterInterfaceId string `json:"chapter_interface_id"`
	CIDv0              string `json:"cid_v0"`
}

// Manifest is the full on-disk JSON shape (spec.md §6).
type Manifest struct {
	SpecVersion            string  `json:"spec_version"`
	Schemas                string  `json:"schemas"`
	DatabaseInterfaceId    string  `json:"database_interface_id"`
	LatestVolumeIdentifier string  `json:"latest_volume_identifier"`
	ChapterCIDs            []Entry `json:"chapter_cids"`
}

// specVersionString renders a spec.Version as "major.minor.patch".
func specVersionString(v spec.Version) string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// majorVersion parses the leading "<major>." component of a spec_version
// string. Returns -1 if it cannot be parsed, which always fails the
// VersionMismatch check rather than silently accepting malformed input.
func majorVersion(s string) int {
	major, _, ok := strings.Cut(s, ".")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(major)
	if err != nil {
		return -1
	}
	return n
}

// New builds a Manifest from already-computed entries. Entries are sorted
// in place.
func New(s spec.Spec, latestVolumeIdentifier string, entries []Entry) *Manifest {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].VolumeInterfaceId != entries[j].VolumeInterfaceId {
			return entries[i].VolumeInterfaceId < entries[j].VolumeInterfaceId
		}
		return entries[i].ChapterInterfaceId < entries[j].ChapterInterfaceId
	})
	return &Manifest{
		SpecVersion:            specVersionString(s.SpecVersion()),
		Schemas:                s.SchemasResource(),
		DatabaseInterfaceId:    s.DatabaseInterfaceId(),
		LatestVolumeIdentifier: latestVolumeIdentifier,
		ChapterCIDs:            entries,
	}
}

// Marshal pretty-prints m to JSON (spec.md §4.7 step 6: "Write JSON
// (pretty-printed)").
func Marshal(m *Manifest) ([]byte, error) {
	b, err := jsonAPI.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "manifest: marshaling")
	}
	return b, nil
}

// Unmarshal decodes manifest JSON and checks its major spec version against
// runningVersion — mismatch fails with ErrVersionMismatch (spec.md §4.7:
// "Minor/patch differences are allowed").
func Unmarshal(b []byte, runningVersion spec.Version) (*Manifest, error) {
	var m Manifest
	if err := jsonAPI.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "manifest: unmarshaling")
	}
	if majorVersion(m.SpecVersion) != runningVersion.Major {
		return nil, errors.Wrapf(ErrVersionMismatch, "manifest spec_version %q vs running major %d", m.SpecVersion, runningVersion.Major)
	}
	return &m, nil
}

// EntriesByChapter groups a Manifest's entries by ChapterInterfaceId, the
// shape the auditor consumes (spec.md §4.8 step 1).
func EntriesByChapter(m *Manifest) map[string][]Entry {
	grouped := make(map[string][]Entry)
	for _, e := range m.ChapterCIDs {
		grouped[e.ChapterInterfaceId] = append(grouped[e.ChapterInterfaceId], e)
	}
	return grouped
}
