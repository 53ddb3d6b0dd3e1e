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

import "context"

// RawSource is the opaque source adapter for signatures raw data: one file
// per selector, filename is the key (spec.md §6). As with nametags, sorted
// key order defines the global insertion index the count-based Volume axis
// is built from.
type RawSource interface {
	SortedKeys(ctx context.Context, rawSourceDir string) ([]Selector, error)
	Record(ctx context.Context, rawSourceDir string, key Selector) (Texts, error)
}
