// Copyright (c) 2024 The Falcon Contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package translate is the core translation engine: classify → synthesize
// memory write procedures → emit. Every error that leaves this package is
// an internal-translation error (spec §7); none are recovered locally.
package translate

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the closed taxonomy of internal-translation error kinds (spec §7).
type Kind int

const (
	KindUnsupportedModuleShape Kind = iota
	KindIllegalStatement
	KindInvariantViolated
	KindMalformedPrimitive
	KindShiftWidthMismatch
	KindIllegalReset
	KindUnsupportedExpression
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedModuleShape:
		return "unsupported-module-shape"
	case KindIllegalStatement:
		return "illegal-statement"
	case KindInvariantViolated:
		return "invariant-violated"
	case KindMalformedPrimitive:
		return "malformed-primitive"
	case KindShiftWidthMismatch:
		return "shift-width-mismatch"
	case KindIllegalReset:
		return "illegal-reset"
	case KindUnsupportedExpression:
		return "unsupported-expression"
	default:
		return "<unknown-error-kind>"
	}
}

// Error is one internal-translation failure: a taxonomy kind, the name of
// the offending statement or expression (best-effort, for diagnostics),
// and a cause wrapped with github.com/pkg/errors, which records a stack
// trace on the cause (reachable via Unwrap). Error has no Format method of
// its own, so formatting an *Error with %+v prints only its message.
type Error struct {
	Kind    Kind
	Subject string
	cause   error
}

func newErr(kind Kind, subject, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Subject: subject,
		cause:   errors.Wrapf(fmt.Errorf(format, args...), "%s", kind),
	}
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Subject, e.cause.Error())
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target has the same Kind, so callers can write
// errors.Is(err, translate.KindOnly(translate.KindIllegalReset)) style
// checks against a sentinel built with KindOnly.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// KindOnly builds a sentinel *Error carrying only a Kind, for use with
// errors.Is in tests and call sites that only care about the taxonomy.
func KindOnly(kind Kind) *Error { return &Error{Kind: kind} }

// ErrorList accumulates every violation the classifier's single tree walk
// discovers, rather than aborting at the first one, so a caller fixing
// their IR sees every problem in one pass (SPEC_FULL.md §4.6, grounded on
// the mtail codegen ErrorList pattern). It implements error.
type ErrorList struct {
	Errors []*Error
}

func (l *ErrorList) Add(err *Error) { l.Errors = append(l.Errors, err) }

func (l *ErrorList) Empty() bool { return len(l.Errors) == 0 }

func (l *ErrorList) Error() string {
	parts := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// AsError returns l as an error if it holds any entries, else nil — the
// usual "collected errors, might be empty" return idiom.
func (l *ErrorList) AsError() error {
	if l.Empty() {
		return nil
	}
	return l
}
