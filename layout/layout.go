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

// Package layout resolves a Spec and a Mode into concrete on-disk paths.
// Filesystem access throughout the engine goes through the afero.Fs carried
// here, so tests run against an in-memory filesystem without touching disk —
// the same collaborator-injection habit erigon's turbo/snapshotsync applies
// to its blockReader.
package layout

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/chapterdb/todd/model"
	"github.com/chapterdb/todd/spec"
)

// Mode selects which rooted variant of the layout to resolve (spec.md §4.4).
type Mode int

const (
	// Sample uses the platform per-user data directory, under a "samples"
	// subdirectory.
	Sample Mode = iota
	// Default uses the platform per-user data directory directly.
	Default
	// Custom uses caller-supplied roots, falling back to the platform
	// directory for whichever root is left empty.
	Custom
)

// PlatformDirs resolves the OS-appropriate per-user data directory —
// spec.md §1's "platform directory resolver", explicitly out of the core's
// scope. A minimal os.UserConfigDir-based default is provided so the engine
// is usable standalone; callers are expected to supply their own for
// production use.
type PlatformDirs interface {
	UserDataDir() (string, error)
}

// Layout is the resolved set of concrete paths for one Spec. Immutable
// after Resolve (spec.md §5: "no cross-thread mutability of Spec or
// Layout").
type Layout struct {
	fs   afero.Fs
	spec spec.Spec
	base string // directory holding the manifest file
	raw  string // root under which rawSource lives
	proc string // root under which dataDir lives
}

// Resolve builds a Layout for s under mode. customRaw/customProcessed are
// only consulted when mode is Custom; either may be left empty, in which
// case dirs.UserDataDir() fills the gap.
func Resolve(fs afero.Fs, s spec.Spec, mode Mode, dirs PlatformDirs, customRaw, customProcessed string) (*Layout, error) {
	switch mode {
	case Sample:
		base, err := dirs.UserDataDir()
		if err != nil {
			return nil, errors.Wrap(ErrUnresolvablePlatformDir, err.Error())
		}
		root := filepath.Join(base, "samples")
		return &Layout{fs: fs, spec: s, base: root, raw: root, proc: root}, nil
	case Default:
		base, err := dirs.UserDataDir()
		if err != nil {
			return nil, errors.Wrap(ErrUnresolvablePlatformDir, err.Error())
		}
		return &Layout{fs: fs, spec: s, base: base, raw: base, proc: base}, nil
	case Custom:
		raw, proc := customRaw, customProcessed
		if raw == "" || proc == "" {
			base, err := dirs.UserDataDir()
			if err != nil {
				if raw == "" {
					return nil, errors.Wrap(ErrMissingRawSource, err.Error())
				}
				return nil, errors.Wrap(ErrUnresolvablePlatformDir, err.Error())
			}
			if raw == "" {
				raw = base
			}
			if proc == "" {
				proc = base
			}
		}
		return &Layout{fs: fs, spec: s, base: proc, raw: raw, proc: proc}, nil
	default:
		return nil, errors.Errorf("layout: unknown mode %d", mode)
	}
}

// Fs returns the filesystem this Layout was resolved against.
func (l *Layout) Fs() afero.Fs { return l.fs }

// ManifestFile is baseDir/"<spec.interfaceId>_manifest.json".
func (l *Layout) ManifestFile() string {
	return filepath.Join(l.base, l.spec.DatabaseInterfaceId()+"_manifest.json")
}

// DataDir is processedRoot/"<spec.interfaceId>".
func (l *Layout) DataDir() string {
	return filepath.Join(l.proc, l.spec.DatabaseInterfaceId())
}

// ChapterDir is dataDir/chapterId.interfaceId.
func (l *Layout) ChapterDir(chapterId model.ChapterId) string {
	return filepath.Join(l.DataDir(), chapterId.InterfaceId())
}

// RawSource is rawRoot/"raw_source_<spec.interfaceId>".
func (l *Layout) RawSource() string {
	return filepath.Join(l.raw, "raw_source_"+l.spec.DatabaseInterfaceId())
}

// ChapterFileName is the canonical on-disk file name for a Chapter at
// (chapterId, volumeId): "<volumeInterfaceId>_<chapterInterfaceId>.<ext>".
func (l *Layout) ChapterFileName(chapterId model.ChapterId, volumeId model.VolumeId) string {
	return volumeId.InterfaceId() + "_" + chapterId.InterfaceId() + "." + l.spec.Codec().Ext()
}

// ChapterFilePath is ChapterDir(chapterId)/ChapterFileName(chapterId, volumeId).
func (l *Layout) ChapterFilePath(chapterId model.ChapterId, volumeId model.VolumeId) string {
	return filepath.Join(l.ChapterDir(chapterId), l.ChapterFileName(chapterId, volumeId))
}

// LatestVolumeOnDisk is the extend operation's optimistic shortcut
// (spec.md §4.4): pick one Chapter directory, enumerate its files, parse
// "<vol>_<chap>.ext" and return the VolumeId with the largest nthPosition.
// ok is false if no chapter directory holds any recognizable file. The
// auditor, not this helper, is authoritative about completeness.
func (l *Layout) LatestVolumeOnDisk(ctx context.Context) (model.VolumeId, bool, error) {
	ext := "." + l.spec.Codec().Ext()
	for _, chapterId := range l.spec.AllChapterIds() {
		dir := l.ChapterDir(chapterId)
		entries, err := afero.ReadDir(l.fs, dir)
		if err != nil {
			continue // chapter directory absent or unreadable; try the next
		}
		suffix := "_" + chapterId.InterfaceId() + ext
		var best model.VolumeId
		found := false
		for _, entry := range entries {
			name := entry.Name()
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			volIdStr := strings.TrimSuffix(name, suffix)
			volId, err := l.spec.VolumeIdFromInterfaceId(volIdStr)
			if err != nil {
				continue
			}
			if !found || volId.NthPosition() > best.NthPosition() {
				best, found = volId, true
			}
		}
		if found {
			return best, true, nil
		}
	}
	return model.VolumeId{}, false, nil
}
