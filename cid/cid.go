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

// Package cid computes the content identifier the Manifest pins every
// Chapter file to: CIDv0, a 34-byte sha2-256 multihash, base58btc-encoded.
// No alternative hash is accepted — changing it invalidates every manifest
// ever produced (spec.md §4.3), so this package intentionally exposes no
// knobs.
package cid

import (
	"github.com/ipfs/go-cid"
	mh "github.com/multiformats/go-multihash"
	"github.com/pkg/errors"
)

// Of returns the CIDv0 string for b, e.g. "Qm...".
func Of(b []byte) (string, error) {
	sum, err := mh.Sum(b, mh.SHA2_256, -1)
	if err != nil {
		return "", errors.Wrap(err, "cid: hashing")
	}
	return cid.NewCidV0(sum).String(), nil
}

// MustOf is Of, panicking on error. sha2-256 hashing over an in-memory byte
// slice cannot fail in practice; this exists for call sites where threading
// the error through is pure noise.
func MustOf(b []byte) string {
	s, err := Of(b)
	if err != nil {
		panic(err)
	}
	return s
}

// Valid reports whether s parses as a CIDv0 string.
func Valid(s string) bool {
	c, err := cid.Decode(s)
	if err != nil {
		return false
	}
	return c.Version() == 0
}
