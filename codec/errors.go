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

package codec

import "fmt"

// Reason classifies why a Codec operation failed, per spec.md §7.
type Reason int

const (
	TruncatedInput Reason = iota
	TypeMismatch
	VersionMismatch
	CompressionError
)

func (r Reason) String() string {
	switch r {
	case TruncatedInput:
		return "TruncatedInput"
	case TypeMismatch:
		return "TypeMismatch"
	case VersionMismatch:
		return "VersionMismatch"
	case CompressionError:
		return "CompressionError"
	default:
		return "Unknown"
	}
}

// Error is CodecError from spec.md §7: serialize/deserialize never fails
// with a bare error, always one of these four reasons.
type Error struct {
	Reason Reason
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("codec: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("codec: %s", e.Reason)
}

func (e *Error) Unwrap() error { return e.Cause }

func wrap(reason Reason, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Reason: reason, Cause: cause}
}
