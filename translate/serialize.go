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
package translate

import (
	"fmt"

	"firuclid/ir"
	"firuclid/utils"
)

// serializeType renders a type to target syntax (spec §4.2): unsigned
// width 1 is boolean-coerced, unsigned/signed width >1 is bv<w>. Clock
// must never reach here — its presence anywhere downstream of the
// classifier is a classifier bug, not a user-facing error.
func serializeType(t *ir.Type) string {
	switch {
	case t.IsClock():
		utils.Fatal("serializeType: clock type reached the serializer, this is a classifier bug")
		return ""
	case t.IsBoolean():
		return "boolean"
	default:
		return fmt.Sprintf("bv%d", t.Width)
	}
}

// serializer renders expressions to target syntax under a primed-reference
// mode, exactly as described in spec §4.3. The primed flag is threaded by
// value through every method, never held as struct state (spec §9), which
// is why serializer itself carries no fields beyond a scratch buffer per
// call — mirroring the teacher's Assembler.operand/suffix style of one
// method per node shape, string-built via fmt.Sprintf.
type serializer struct{}

// Serialize renders e in the given primed mode. A bare reference renders
// as name when primed is false, name' when primed is true (spec §4.3).
func (s *serializer) Serialize(e ir.Expr, primed bool) (string, error) {
	switch v := e.(type) {
	case *ir.Ref:
		return primeName(v.Name, primed), nil
	case *ir.SubField:
		return primeName(v.FlatName(), primed), nil
	case *ir.Lit:
		return s.serializeLit(v), nil
	case *ir.Mux:
		return s.serializeMux(v, primed)
	case *ir.Prim:
		return s.serializePrim(v, primed)
	default:
		return "", newErr(KindUnsupportedExpression, "", "unsupported expression shape %T", e)
	}
}

func primeName(name string, primed bool) string {
	if primed {
		return name + "'"
	}
	return name
}

func (s *serializer) serializeLit(l *ir.Lit) string {
	if l.Type.IsBoolean() {
		if l.Value == 1 {
			return "true"
		}
		return "false"
	}
	return fmt.Sprintf("%dbv%d", l.Value, l.Type.Width)
}

func (s *serializer) serializeMux(m *ir.Mux, primed bool) (string, error) {
	c, err := s.Serialize(m.Cond, primed)
	if err != nil {
		return "", err
	}
	t, err := s.Serialize(m.TVal, primed)
	if err != nil {
		return "", err
	}
	f, err := s.Serialize(m.FVal, primed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("if (%s) then (%s) else (%s)", c, t, f), nil
}

func arityErr(p *ir.Prim) error {
	return newErr(KindMalformedPrimitive, "", "operator %v has unsupported arity: %d operand(s), %d constant(s)",
		p.Op, len(p.Args), len(p.Consts))
}

func (s *serializer) serializePrim(p *ir.Prim, primed bool) (string, error) {
	switch p.Op {
	case ir.OpNeg, ir.OpAsUnsigned, ir.OpAsSigned, ir.OpNot:
		return s.serializeUnary(p, primed)
	case ir.OpAdd, ir.OpAddWrap, ir.OpSub, ir.OpSubWrap,
		ir.OpLess, ir.OpLessEq, ir.OpGreater, ir.OpGreaterEq, ir.OpEq, ir.OpNotEq,
		ir.OpMul, ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpCat:
		return s.serializeBinary(p, primed)
	case ir.OpBitSelect:
		return s.serializeBitSelect(p, primed)
	case ir.OpShl, ir.OpDynShl, ir.OpShr, ir.OpDynShr:
		return s.serializeShift(p, primed)
	case ir.OpPad:
		return s.serializePad(p, primed)
	case ir.OpTail:
		return s.serializeTail(p, primed)
	case ir.OpBitSlice:
		return s.serializeBitSlice(p, primed)
	default:
		return "", newErr(KindMalformedPrimitive, "", "unknown primitive operator %v", p.Op)
	}
}

// foldedOperand returns the i'th logical operand of p, drawing from Args
// when present and falling back to treating Consts[i-len(Args)] as an
// inline literal of type p.Type. This supports the (0 operands, 1 const)
// and (0 operands, 2 consts) shapes in spec §4.3's cardinality table,
// where upstream constant folding has left a primitive with no expression
// operands at all.
func foldedOperand(p *ir.Prim, i int) ir.Expr {
	if i < len(p.Args) {
		return p.Args[i]
	}
	k := p.Consts[i-len(p.Args)]
	return &ir.Lit{Value: uint64(k), Type: p.Type}
}

func (s *serializer) serializeUnary(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args)+len(p.Consts) != 1 || len(p.Consts) > 1 {
		return "", arityErr(p)
	}
	x, err := s.Serialize(foldedOperand(p, 0), primed)
	if err != nil {
		return "", err
	}
	switch p.Op {
	case ir.OpNeg:
		return "-" + x, nil
	case ir.OpAsUnsigned, ir.OpAsSigned:
		return x, nil
	case ir.OpNot:
		if p.Type.IsBoolean() {
			return "!" + x, nil
		}
		return "~" + x, nil
	default:
		return "", arityErr(p)
	}
}

func (s *serializer) serializeBinary(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args)+len(p.Consts) != 2 || len(p.Consts) > 2 {
		return "", arityErr(p)
	}
	a, err := s.Serialize(foldedOperand(p, 0), primed)
	if err != nil {
		return "", err
	}
	b, err := s.Serialize(foldedOperand(p, 1), primed)
	if err != nil {
		return "", err
	}
	switch p.Op {
	case ir.OpAdd:
		ext := "bv_zero_extend"
		if p.Type.IsSigned() {
			ext = "bv_sign_extend"
		}
		return fmt.Sprintf("%s(1, %s) + %s(1, %s)", ext, a, ext, b), nil
	case ir.OpSub:
		ext := "bv_zero_extend"
		if p.Type.IsSigned() {
			ext = "bv_sign_extend"
		}
		return fmt.Sprintf("%s(1, %s) - %s(1, %s)", ext, a, ext, b), nil
	case ir.OpAddWrap:
		return fmt.Sprintf("%s + %s", a, b), nil
	case ir.OpSubWrap:
		return fmt.Sprintf("%s - %s", a, b), nil
	case ir.OpLess:
		return fmt.Sprintf("%s < %s", a, b), nil
	case ir.OpLessEq:
		return fmt.Sprintf("%s <= %s", a, b), nil
	case ir.OpGreater:
		return fmt.Sprintf("%s > %s", a, b), nil
	case ir.OpGreaterEq:
		return fmt.Sprintf("%s >= %s", a, b), nil
	case ir.OpEq:
		return fmt.Sprintf("%s == %s", a, b), nil
	case ir.OpNotEq:
		return fmt.Sprintf("%s != %s", a, b), nil
	case ir.OpMul:
		return fmt.Sprintf("%s * %s", a, b), nil
	case ir.OpAnd:
		if p.Type.IsBoolean() {
			return fmt.Sprintf("%s && %s", a, b), nil
		}
		return fmt.Sprintf("%s & %s", a, b), nil
	case ir.OpOr:
		if p.Type.IsBoolean() {
			return fmt.Sprintf("%s || %s", a, b), nil
		}
		return fmt.Sprintf("%s | %s", a, b), nil
	case ir.OpXor:
		return fmt.Sprintf("%s ^ %s", a, b), nil
	case ir.OpCat:
		return fmt.Sprintf("%s ++ %s", a, b), nil
	default:
		return "", arityErr(p)
	}
}

func (s *serializer) serializeBitSelect(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args) != 1 || len(p.Consts) != 1 {
		return "", arityErr(p)
	}
	a, err := s.Serialize(p.Args[0], primed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s[%d]", a, p.Consts[0]), nil
}

// reconcileShamt renders the shift-amount operand reconciled to the width
// of the value being shifted, per spec §4.3. For a static shift the
// constant is rendered directly at W(a), so it always matches; for a
// dynamic shift the operand's own width may need zero-extension, or may
// be outright too wide, in which case translation fails.
func (s *serializer) reconcileShamt(a ir.Expr, shamt ir.Expr, shamtIsConst bool, primed bool) (string, error) {
	aw := ir.TypeOf(a).Width
	if shamtIsConst {
		return s.serializeLit(shamt.(*ir.Lit)), nil
	}
	sw := ir.TypeOf(shamt).Width
	rendered, err := s.Serialize(shamt, primed)
	if err != nil {
		return "", err
	}
	switch {
	case aw == sw:
		return rendered, nil
	case aw > sw:
		return fmt.Sprintf("bv_zero_extend(%d, %s)", aw-sw, rendered), nil
	default:
		return "", newErr(KindShiftWidthMismatch, "", "shift amount is %d bits wide, wider than the %d-bit shifted operand", sw, aw)
	}
}

func (s *serializer) serializeShift(p *ir.Prim, primed bool) (string, error) {
	var a, shamtExpr ir.Expr
	var shamtIsConst bool

	switch p.Op {
	case ir.OpShl, ir.OpShr:
		if len(p.Args) != 1 || len(p.Consts) != 1 {
			return "", arityErr(p)
		}
		a = p.Args[0]
		shamtExpr = &ir.Lit{Value: uint64(p.Consts[0]), Type: ir.Unsigned(ir.TypeOf(a).Width)}
		shamtIsConst = true
	case ir.OpDynShl, ir.OpDynShr:
		if len(p.Args) != 2 || len(p.Consts) != 0 {
			return "", arityErr(p)
		}
		a = p.Args[0]
		shamtExpr = p.Args[1]
		shamtIsConst = false
	default:
		return "", arityErr(p)
	}

	aStr, err := s.Serialize(a, primed)
	if err != nil {
		return "", err
	}
	shamtStr, err := s.reconcileShamt(a, shamtExpr, shamtIsConst, primed)
	if err != nil {
		return "", err
	}

	fn := shiftFuncName(p.Op, ir.TypeOf(a))
	return fmt.Sprintf("%s(%s, %s)", fn, shamtStr, aStr), nil
}

func shiftFuncName(op ir.Op, operandType *ir.Type) string {
	switch op {
	case ir.OpShl, ir.OpDynShl:
		return "bv_left_shift"
	case ir.OpShr, ir.OpDynShr:
		if operandType.IsSigned() {
			return "bv_a_right_shift"
		}
		return "bv_l_right_shift"
	default:
		utils.ShouldNotReachHere()
		return ""
	}
}

func (s *serializer) serializePad(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args) != 1 || len(p.Consts) != 1 {
		return "", arityErr(p)
	}
	a := p.Args[0]
	aw := ir.TypeOf(a).Width
	target := ir.Width(p.Consts[0])
	aStr, err := s.Serialize(a, primed)
	if err != nil {
		return "", err
	}
	if int64(target) <= int64(aw) {
		return aStr, nil
	}
	extra := target - aw
	if ir.TypeOf(a).IsSigned() {
		return fmt.Sprintf("bv_sign_extend(%d, %s)", extra, aStr), nil
	}
	return fmt.Sprintf("bv_zero_extend(%d, %s)", extra, aStr), nil
}

func (s *serializer) serializeTail(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args) != 1 || len(p.Consts) != 1 {
		return "", arityErr(p)
	}
	a := p.Args[0]
	aw := ir.TypeOf(a).Width
	k := ir.Width(p.Consts[0])
	aStr, err := s.Serialize(a, primed)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s[%d:0]", aStr, aw-k), nil
}

func (s *serializer) serializeBitSlice(p *ir.Prim, primed bool) (string, error) {
	if len(p.Args) != 1 || len(p.Consts) != 2 {
		return "", arityErr(p)
	}
	aStr, err := s.Serialize(p.Args[0], primed)
	if err != nil {
		return "", err
	}
	hi, lo := p.Consts[0], p.Consts[1]
	return fmt.Sprintf("%s[%d:%d]", aStr, hi, lo), nil
}
