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

package spec

import "github.com/pkg/errors"

// ErrInvalidKey is raised by RawKeyAsRecordKey normalization; fatal to the
// caller (spec.md §7).
var ErrInvalidKey = errors.New("invalid key")

// ErrInsufficientData is raised by Extractor.LatestPossibleVolume when the
// raw source doesn't yet contain one complete Volume. The engine treats it
// as a no-op for extend, but surfaces it for an initial build.
var ErrInsufficientData = errors.New("insufficient data for a complete volume")

// ErrRawSourceMissing is raised by Extractor.ChapterFromRaw when the raw
// source directory required for a Volume isn't present on disk.
var ErrRawSourceMissing = errors.New("raw source missing")

// ErrOutOfWindow is raised when a raw record's global position does not lie
// within the requested Volume's window — a defensive check carried over
// from original_source/src/extraction/address_appearance_index.rs's
// debug_assert, promoted to a real error here since Go has no debug_assert.
var ErrOutOfWindow = errors.New("record position outside volume window")
