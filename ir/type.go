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

// Package ir is the algebraic representation of the source hardware IR:
// widths and types, expressions, statements and the side-channel
// annotations that accompany a circuit.
package ir

import "fmt"

// Kind distinguishes the handful of ground types a register, wire, node or
// port can carry.
type Kind int

const (
	KindUnsigned Kind = iota
	KindSigned
	KindClock
)

func (k Kind) String() string {
	switch k {
	case KindUnsigned:
		return "unsigned"
	case KindSigned:
		return "signed"
	case KindClock:
		return "clock"
	default:
		return "<unknown-kind>"
	}
}

// Width is a positive bit count. An unsigned width of 1 is boolean-coerced
// at the target level (see Type.IsBoolean).
type Width uint

// Type is either an unsigned or signed bit-vector of some width, or the
// clock sentinel, which is never serialized.
type Type struct {
	Kind  Kind
	Width Width
}

// Unsigned builds an unsigned bit-vector type of the given width.
func Unsigned(w Width) *Type { return &Type{Kind: KindUnsigned, Width: w} }

// Signed builds a signed bit-vector type of the given width.
func Signed(w Width) *Type { return &Type{Kind: KindSigned, Width: w} }

// Clock is the sentinel clock type. It carries no width and must never
// reach the serializer.
var Clock = &Type{Kind: KindClock}

func (t *Type) IsClock() bool    { return t.Kind == KindClock }
func (t *Type) IsSigned() bool   { return t.Kind == KindSigned }
func (t *Type) IsUnsigned() bool { return t.Kind == KindUnsigned }

// IsBoolean reports whether this type is the 1-bit-is-boolean case (spec
// §4.2). Only unsigned width 1 coerces to boolean; a signed width-1 type
// still renders as bv1, since signedness lives in the operator rather than
// the target type and §4.2 carries no width-1 exception for Signed.
func (t *Type) IsBoolean() bool { return t.Kind == KindUnsigned && t.Width == 1 }

// String renders the Go-side debug form, not the target syntax; see
// translate.serializeType for the bv<N>/boolean target rendering.
func (t *Type) String() string {
	switch t.Kind {
	case KindUnsigned:
		return fmt.Sprintf("u%d", t.Width)
	case KindSigned:
		return fmt.Sprintf("s%d", t.Width)
	case KindClock:
		return "clock"
	default:
		return "<bad-type>"
	}
}

// Eq reports structural type equality.
func (t *Type) Eq(o *Type) bool {
	return t.Kind == o.Kind && t.Width == o.Width
}
