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
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"

	"github.com/chapterdb/todd/spec"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	m := New(fakeSpec{}, "mappings_starting_003_000_000", []Entry{
		{VolumeInterfaceId: "mappings_starting_003_000_000", ChapterInterfaceId: "addresses_0x01", CIDv0: "Qmabc"},
	})

	b, err := Marshal(m)
	require.NoError(t, err)

	got, err := Unmarshal(b, spec.Version{Major: 0, Minor: 1, Patch: 0})
	require.NoError(t, err)
	require.Equal(t, m.DatabaseInterfaceId, got.DatabaseInterfaceId)
	if diff := deep.Equal(m.ChapterCIDs, got.ChapterCIDs); diff != nil {
		t.Fatalf("entry round-trip mismatch: %v", diff)
	}
}

func TestUnmarshalMajorVersionMismatch(t *testing.T) {
	m := New(fakeSpec{}, "v", nil)
	b, err := Marshal(m)
	require.NoError(t, err)

	_, err = Unmarshal(b, spec.Version{Major: 9, Minor: 0, Patch: 0})
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestUnmarshalMinorPatchMismatchAllowed(t *testing.T) {
	m := New(fakeSpec{}, "v", nil)
	b, err := Marshal(m)
	require.NoError(t, err)

	_, err = Unmarshal(b, spec.Version{Major: 0, Minor: 99, Patch: 99})
	require.NoError(t, err)
}

func TestNewSortsEntries(t *testing.T) {
	m := New(fakeSpec{}, "v", []Entry{
		{VolumeInterfaceId: "b", ChapterInterfaceId: "z"},
		{VolumeInterfaceId: "a", ChapterInterfaceId: "y"},
		{VolumeInterfaceId: "a", ChapterInterfaceId: "x"},
	})
	require.Equal(t, "a", m.ChapterCIDs[0].VolumeInterfaceId)
	require.Equal(t, "x", m.ChapterCIDs[0].ChapterInterfaceId)
	require.Equal(t, "a", m.ChapterCIDs[1].VolumeInterfaceId)
	require.Equal(t, "y", m.ChapterCIDs[1].ChapterInterfaceId)
	require.Equal(t, "b", m.ChapterCIDs[2].VolumeInterfaceId)
}

type fakeSpec struct{ spec.Spec }

func (fakeSpec) SpecVersion() spec.Version      { return spec.Version{Major: 0, Minor: 1, Patch: 0} }
func (fakeSpec) SchemasResource() string        { return "https://example.test/schemas/x.json" }
func (fakeSpec) DatabaseInterfaceId() string    { return "addresses" }
