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

import "context"

// RawSource is the source adapter for nametags raw data: one file per
// record, filename is the key (spec.md §6). The extractor only needs the raw
// source to hand back every key in ascending order (that ordering IS the
// global insertion order the count-based Volume axis is built from) and the
// value for any given key; FsRawSource in this package is the implementation
// that reads those files.
type RawSource interface {
	// SortedKeys returns every Address present in the raw source, already
	// ascending — the zero-based position of a key in this slice is its
	// global insertion index.
	SortedKeys(ctx context.Context, rawSourceDir string) ([]Address, error)
	// Record reads the NameTags value for one key.
	Record(ctx context.Context, rawSourceDir string, key Address) (NameTags, error)
}
