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

import "github.com/pkg/errors"

// ErrUnresolvablePlatformDir is raised when Sample/Default mode needs an
// OS per-user data directory and PlatformDirs cannot supply one.
var ErrUnresolvablePlatformDir = errors.New("layout: cannot resolve platform data directory")

// ErrMissingRawSource is raised when a Custom layout omits the raw root and
// no default can be derived.
var ErrMissingRawSource = errors.New("layout: raw source root not provided")
