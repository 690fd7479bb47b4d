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
package ir

import "fmt"

// Expr is the closed family of expression variants: Ref, SubField, Lit,
// Mux and Prim. Implemented as a marker interface with an exhaustive type
// switch at each consumer, rather than virtual dispatch, since the family
// never grows outside this file.
type Expr interface {
	fmt.Stringer
	exprType() *Type
}

// Ref is a bare reference to a declared name (register, node, wire, port).
type Ref struct {
	Name string
	Type *Type
}

func (r *Ref) exprType() *Type { return r.Type }
func (r *Ref) String() string  { return r.Name }

// SubField is access to a named field of a parent reference — e.g. a
// memory port's "addr" field. The serializer renders it as a single
// flattened name; see flattenName.
type SubField struct {
	Parent *Ref
	Field  string
	Type   *Type
}

func (s *SubField) exprType() *Type { return s.Type }
func (s *SubField) String() string  { return flattenName(s.Parent.Name, s.Field) }

// FlatName returns the canonical flattened name for this sub-field access.
func (s *SubField) FlatName() string { return flattenName(s.Parent.Name, s.Field) }

// flattenName is the single canonical function used to lower a parent+field
// pair to a flat name, in both lhs and rhs positions and in synthesized
// wire names (spec §9 "name-flattening of field references").
func flattenName(parent, field string) string {
	return parent + "_" + field
}

// FlattenName exports flattenName for callers outside this package that
// need to synthesize the same canonical wire names (the classifier).
func FlattenName(parent, field string) string { return flattenName(parent, field) }

// Lit is a literal bit-vector constant.
type Lit struct {
	Value uint64
	Type  *Type
}

func (l *Lit) exprType() *Type { return l.Type }
func (l *Lit) String() string  { return fmt.Sprintf("%d:%v", l.Value, l.Type) }

// Mux is a multiplexer: cond ? tval : fval.
type Mux struct {
	Cond, TVal, FVal Expr
	Type             *Type
}

func (m *Mux) exprType() *Type { return m.Type }
func (m *Mux) String() string  { return fmt.Sprintf("mux(%v, %v, %v)", m.Cond, m.TVal, m.FVal) }

// Op is a primitive operator tag. Which of Args/Consts are populated, and
// how many, is dictated by the cardinality table in spec §4.3.
type Op int

const (
	OpNeg Op = iota
	OpAsUnsigned
	OpAsSigned
	OpNot

	OpAdd
	OpAddWrap
	OpSub
	OpSubWrap
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpEq
	OpNotEq
	OpMul
	OpAnd
	OpOr
	OpXor
	OpBitSelect
	OpShl
	OpDynShl
	OpShr
	OpDynShr
	OpCat
	OpPad
	OpTail

	OpBitSlice
)

func (op Op) String() string {
	switch op {
	case OpNeg:
		return "Neg"
	case OpAsUnsigned:
		return "AsUnsigned"
	case OpAsSigned:
		return "AsSigned"
	case OpNot:
		return "Not"
	case OpAdd:
		return "Add"
	case OpAddWrap:
		return "AddWrap"
	case OpSub:
		return "Sub"
	case OpSubWrap:
		return "SubWrap"
	case OpLess:
		return "Less"
	case OpLessEq:
		return "LessEq"
	case OpGreater:
		return "Greater"
	case OpGreaterEq:
		return "GreaterEq"
	case OpEq:
		return "Eq"
	case OpNotEq:
		return "NotEq"
	case OpMul:
		return "Mul"
	case OpAnd:
		return "And"
	case OpOr:
		return "Or"
	case OpXor:
		return "Xor"
	case OpBitSelect:
		return "BitSelect"
	case OpShl:
		return "Shl"
	case OpDynShl:
		return "DynShl"
	case OpShr:
		return "Shr"
	case OpDynShr:
		return "DynShr"
	case OpCat:
		return "Cat"
	case OpPad:
		return "Pad"
	case OpTail:
		return "Tail"
	case OpBitSlice:
		return "BitSlice"
	default:
		return "<unknown-op>"
	}
}

// Prim is a primitive operator applied to an ordered list of operand
// expressions and an ordered list of integer constants, producing a
// result of the given type. translate.serializePrim selects the rendering
// by Op and rejects any len(Args)/len(Consts) combination that Op does not
// accept; see spec §4.3's cardinality table.
type Prim struct {
	Op     Op
	Args   []Expr
	Consts []int64
	Type   *Type
}

func (p *Prim) exprType() *Type { return p.Type }
func (p *Prim) String() string {
	return fmt.Sprintf("%v(%v, %v):%v", p.Op, p.Args, p.Consts, p.Type)
}

// TypeOf returns the static type carried by any Expr variant.
func TypeOf(e Expr) *Type { return e.exprType() }
