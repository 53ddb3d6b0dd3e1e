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

// RecordKey is a fixed-width byte string drawn from the user's query domain
// (an address, a 4-byte selector). Concrete specs supply their own
// implementation; this package only needs the byte view to sort and compare.
type RecordKey interface {
	// Bytes returns the key's canonical byte representation. Callers must
	// not mutate the returned slice.
	Bytes() []byte
}

// RecordValue is a spec-defined value: a list of transaction appearances, a
// list of names and tags, a list of signature texts. It carries no shared
// contract beyond being serializable by its spec's Codec.
type RecordValue interface{}

// Record pairs a key with its value. Records are compared and ordered by Key
// alone; RecordKeyLess is the single comparator every package in this module
// uses so that "sorted by key" means the same thing everywhere.
type Record struct {
	Key   RecordKey
	Value RecordValue
}

// RecordKeyLess reports whether a sorts before b under the canonical,
// lexicographic-by-bytes Chapter ordering (spec.md §3, Chapter invariants).
func RecordKeyLess(a, b RecordKey) bool {
	ab, bb := a.Bytes(), b.Bytes()
	n := len(ab)
	if len(bb) < n {
		n = len(bb)
	}
	for i := 0; i < n; i++ {
		if ab[i] != bb[i] {
			return ab[i] < bb[i]
		}
	}
	return len(ab) < len(bb)
}
