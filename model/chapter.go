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

package model

// Chapter is the atomic distributable unit: every Record whose key maps to
// ChapterId(), restricted to VolumeId()'s window, in canonical sorted order.
// Concrete specs implement this over their own Record/Value shapes; the
// engine, manifest and auditor packages only ever see it through this
// interface.
type Chapter interface {
	ChapterId() ChapterId
	VolumeId() VolumeId
	Records() []Record
}

// FileName returns the canonical on-disk file name for a Chapter, given the
// codec's file extension (without the leading dot), e.g.
// "mappings_starting_014_400_000_addresses_0xab.ssz_snappy".
func FileName(ch Chapter, ext string) string {
	return ch.VolumeId().InterfaceId() + "_" + ch.ChapterId().InterfaceId() + "." + ext
}
