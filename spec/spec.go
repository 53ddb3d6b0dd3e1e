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

// Package spec defines the polymorphic seam every engine operation goes
// through: the Spec interface. New databases are expected (spec.md §9), so
// this is a capability interface the engine receives by value rather than a
// closed sum type of the three shipped specs — the same pattern erigon's
// turbo/snapshotsync uses for its own blockReader interface.
package spec

import (
	"context"

	"github.com/chapterdb/todd/codec"
	"github.com/chapterdb/todd/model"
)

// Version is a spec's (major, minor, patch) triple, compared against a
// manifest's recorded version on read; only a major mismatch is fatal
// (spec.md §4.7).
type Version struct {
	Major, Minor, Patch int
}

// Spec instantiates the engine for one concrete database.
type Spec interface {
	// DatabaseInterfaceId is the database identifier string recorded in
	// the manifest header, e.g. "addresses", "nametags", "signatures".
	DatabaseInterfaceId() string
	// SpecVersion is this spec's (major, minor, patch) triple.
	SpecVersion() Version
	// SchemasResource is the URL recorded in the manifest header.
	SchemasResource() string
	// Describe is a one-line human-readable summary used in log lines.
	Describe() string

	// NumChapters is NUM_CHAPTERS, the fixed chapter count.
	NumChapters() int
	// AllChapterIds returns NthId(0..NumChapters-1).
	AllChapterIds() []model.ChapterId
	// AllVolumeIds enumerates every complete Volume derivable from the raw
	// source directory, via the spec's Extractor.
	AllVolumeIds(ctx context.Context, rawSourceDir string) ([]model.VolumeId, error)

	// RawKeyAsRecordKey normalizes user input (strips "0x", hex-decodes,
	// length-checks) into this spec's RecordKey type.
	RawKeyAsRecordKey(raw string) (model.RecordKey, error)
	// ChapterIdFromInterfaceId parses this spec's on-disk ChapterId
	// spelling, e.g. "addresses_0xab".
	ChapterIdFromInterfaceId(s string) (model.ChapterId, error)
	// VolumeIdFromInterfaceId parses this spec's on-disk VolumeId spelling,
	// e.g. "mappings_starting_014_400_000". Used by layout.LatestVolumeOnDisk
	// to recover the highest sealed Volume from chapter-directory file names.
	VolumeIdFromInterfaceId(s string) (model.VolumeId, error)
	// RecordKeyToChapterId is a pure function of a fixed prefix of the key.
	RecordKeyToChapterId(k model.RecordKey) model.ChapterId
	// KeyMatchesQuery reports whether a Chapter-resident key matches a
	// (possibly truncated, for prefix-typed keys) user query key.
	KeyMatchesQuery(candidate model.RecordKey, query model.RecordKey) bool

	// Extractor is this spec's raw-source-to-Chapter strategy.
	Extractor() Extractor
	// SampleObtainer knows how to fetch or locate bundled sample raw data.
	SampleObtainer() SampleObtainer
	// Codec serializes/deserializes this spec's Chapter type.
	Codec() *codec.Codec
}

// Extractor is a per-spec, stateless strategy producing one Chapter from raw
// source for (ChapterId, VolumeId). Pure: the same raw input always yields
// byte-identical Chapters (spec.md §4.5), which is what makes
// repair_from_raw meaningful.
type Extractor interface {
	// ChapterFromRaw reads the subset of raw files relevant to volumeId,
	// collects every record whose key maps to chapterId, sorts them by
	// key, and returns the Chapter. ok is false if no records matched —
	// the engine then omits the file entirely, which is normal for sparse
	// cells.
	ChapterFromRaw(ctx context.Context, chapterId model.ChapterId, volumeId model.VolumeId, rawSourceDir string) (ch model.Chapter, ok bool, err error)

	// LatestPossibleVolume returns the highest Volume that can be sealed
	// from the raw source as it stands — incomplete volumes are never
	// returned (spec.md §4.5's load-bearing guarantee). Returns
	// ErrInsufficientData if there isn't even one complete Volume yet.
	LatestPossibleVolume(ctx context.Context, rawSourceDir string) (model.VolumeId, error)
}

// SampleObtainer knows how to produce a usable raw-source directory for the
// "get sample data" operation, either by copying a bundled sample or by
// pulling from a remote source.
type SampleObtainer interface {
	// BundledSamplePath returns the path to a bundled raw sample directory
	// within the running program, or ok=false if none is bundled.
	BundledSamplePath() (path string, ok bool)
	// FetchRemoteSample pulls sample raw data into destDir from whatever
	// remote source this spec knows about.
	FetchRemoteSample(ctx context.Context, destDir string) error
}
