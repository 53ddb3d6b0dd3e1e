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
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// OSPlatformDirs is the minimal os.UserConfigDir-based PlatformDirs that
// makes the engine usable standalone. Production embedders are expected to
// supply their own (e.g. one backed by a vendored platform-dirs library),
// per spec.md §1's scoping of this concern out of the core.
type OSPlatformDirs struct {
	// AppName names the subdirectory under the OS config root, e.g.
	// "chapterdb". Defaults to "chapterdb" if empty.
	AppName string
}

var _ PlatformDirs = OSPlatformDirs{}

func (d OSPlatformDirs) UserDataDir() (string, error) {
	appName := d.AppName
	if appName == "" {
		appName = "chapterdb"
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "layout: resolving OS config directory")
	}
	return filepath.Join(dir, appName), nil
}
