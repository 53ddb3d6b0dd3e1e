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
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// defaultLockRetryInterval is how often TryLockContext re-polls the lock
// file before ctx is done.
const defaultLockRetryInterval = 50 * time.Millisecond

// LockManifest takes an advisory file lock alongside the manifest file for
// the duration of fn. This documents, rather than perfectly enforces
// (spec.md §5: "callers who violate that contract get last-writer-wins"),
// the single-writer contract on generate_manifest. The lock file itself
// (ManifestFile()+".lock") is never committed to the data directory's
// recognized file set. A Layout over any filesystem other than the real OS
// one runs fn without a lock, since the lock file lives on disk.
func (l *Layout) LockManifest(ctx context.Context, fn func() error) error {
	if _, onDisk := l.fs.(*afero.OsFs); !onDisk {
		return fn()
	}
	lk := flock.New(l.ManifestFile() + ".lock")
	locked, err := lk.TryLockContext(ctx, defaultLockRetryInterval)
	if err != nil {
		return errors.Wrap(err, "layout: acquiring manifest lock")
	}
	if !locked {
		return errors.New("layout: manifest already locked by another writer")
	}
	defer lk.Unlock()
	return fn()
}
