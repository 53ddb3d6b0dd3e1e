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

// Package numfmt formats and parses the 9-digit, underscore-grouped numbers
// used throughout interface ids (e.g. "014_400_000"). Grounded on the
// ParseUint64/HexOrDecimal64 style in erigon-lib/common/math/integer.go:
// small, dependency-free numeric helpers rather than a general formatting
// library, since the layout is a fixed, spec-mandated width.
package numfmt

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadNineDigits is returned when a string isn't a well-formed 9-digit,
// underscore-grouped number.
var ErrBadNineDigits = errors.New("not a 9-digit underscored number")

// NineDigitsUnderscored renders n as a zero-padded 9-digit number with an
// underscore inserted every 3 digits from the right, e.g. 14_400_000 ->
// "014_400_000".
func NineDigitsUnderscored(n uint64) string {
	padded := strconv.FormatUint(n, 10)
	if len(padded) < 9 {
		padded = strings.Repeat("0", 9-len(padded)) + padded
	}
	var b strings.Builder
	b.Grow(len(padded) + len(padded)/3)
	for i, r := range padded {
		if i != 0 && (len(padded)-i)%3 == 0 {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseNineDigitsUnderscored is the inverse of NineDigitsUnderscored. It
// tolerates any digit-grouping as long as the underscores appear only
// between digits (it just strips them), since the spec fixes the width but
// a defensive reader should not choke on re-grouped input.
func ParseNineDigitsUnderscored(s string) (uint64, error) {
	if s == "" {
		return 0, errors.Wrap(ErrBadNineDigits, "empty")
	}
	stripped := strings.ReplaceAll(s, "_", "")
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return 0, errors.Wrapf(ErrBadNineDigits, "%q has non-digit %q", s, r)
		}
	}
	n, err := strconv.ParseUint(stripped, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNineDigits, "%q: %v", s, err)
	}
	return n, nil
}
