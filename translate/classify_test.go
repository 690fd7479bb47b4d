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
	"testing"

	"firuclid/ir"
)

func clockRef() ir.Expr { return &ir.Ref{Name: "clk", Type: ir.Clock} }

func mustClassify(t *testing.T, m *ir.Module) *Classification {
	t.Helper()
	cls, errs := Classify(m)
	if !errs.Empty() {
		t.Fatalf("unexpected classification errors: %v", errs)
	}
	return cls
}

func firstKind(t *testing.T, errs *ErrorList) Kind {
	t.Helper()
	if errs.Empty() {
		t.Fatalf("expected classification to fail, it succeeded")
	}
	return errs.Errors[0].Kind
}

// S8 — two registers with distinct clock expressions fail with
// unsupported-module-shape.
func TestClassifyRejectsMultipleClocks(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: &ir.Ref{Name: "clk1", Type: ir.Clock}},
			&ir.Register{Name: "y", Type: ir.Unsigned(8), Clock: &ir.Ref{Name: "clk2", Type: ir.Clock}},
		},
	}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindUnsupportedModuleShape {
		t.Fatalf("kind = %v, want KindUnsupportedModuleShape", got)
	}
}

// S9 — a register whose reset is a nonzero literal fails with
// illegal-reset.
func TestClassifyRejectsNonzeroLiteralReset(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Lit{Value: 3, Type: ir.Unsigned(8)}},
		},
	}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindIllegalReset {
		t.Fatalf("kind = %v, want KindIllegalReset", got)
	}
}

func TestClassifyAcceptsAbsentOrZeroReset(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: clockRef()},
			&ir.Register{Name: "y", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Lit{Value: 0, Type: ir.Unsigned(8)}},
		},
	}
	cls := mustClassify(t, m)
	if len(cls.Registers.InOrder()) != 2 {
		t.Fatalf("expected 2 registers, got %d", len(cls.Registers.InOrder()))
	}
}

// A reset naming a simple reference is legal only while that reference is
// never used anywhere else in the module.
func TestClassifyRejectsNonTrivialResetReference(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Node{Name: "rst_node", Value: &ir.Ref{Name: "rst", Type: ir.Unsigned(1)}},
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Ref{Name: "rst", Type: ir.Unsigned(1)}},
		},
	}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindUnsupportedModuleShape {
		t.Fatalf("kind = %v, want KindUnsupportedModuleShape", got)
	}
}

// Two registers legitimately sharing one always-zero reset signal must not
// be rejected: the reset name is never used outside a reset slot, which is
// the actual triviality condition, regardless of how many registers share it.
func TestClassifyAcceptsSharedResetAcrossRegisters(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Ref{Name: "rst", Type: ir.Unsigned(1)}},
			&ir.Register{Name: "y", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Ref{Name: "rst", Type: ir.Unsigned(1)}},
		},
		Ports: []*ir.Port{{Name: "rst", Type: ir.Unsigned(1), Dir: ir.DirInput}},
	}
	cls := mustClassify(t, m)
	if len(cls.Registers.InOrder()) != 2 {
		t.Fatalf("expected 2 registers, got %d", len(cls.Registers.InOrder()))
	}
	if !cls.ResetNames().Contains("rst") {
		t.Fatalf("expected rst to be recorded as a reset-only name")
	}
}

func TestClassifyAcceptsTrivialResetReference(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Register{Name: "x", Type: ir.Unsigned(8), Clock: clockRef(), Reset: &ir.Ref{Name: "rst", Type: ir.Unsigned(1)}},
		},
		Ports: []*ir.Port{{Name: "rst", Type: ir.Unsigned(1), Dir: ir.DirInput}},
	}
	cls := mustClassify(t, m)
	if !cls.ResetNames().Contains("rst") {
		t.Fatalf("expected rst to be recorded as a reset-only name")
	}
}

// S7 — a memory declared with a non-empty readwriter list fails
// classification with invariant-violated.
func TestClassifyRejectsReadwriters(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Memory{Name: "mem", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1, ReadLatency: 0, Readwriters: []string{"rw"}},
		},
	}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindInvariantViolated {
		t.Fatalf("kind = %v, want KindInvariantViolated", got)
	}
}

func TestClassifyRejectsBadMemoryLatencies(t *testing.T) {
	m := &ir.Module{
		Name: "m",
		Body: []ir.Stmt{
			&ir.Memory{Name: "mem", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 2, ReadLatency: 0},
		},
	}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindInvariantViolated {
		t.Fatalf("kind = %v, want KindInvariantViolated", got)
	}
}

func TestClassifySynthesizesMemoryWires(t *testing.T) {
	mem := &ir.Memory{
		Name:         "mem",
		DataType:     ir.Unsigned(8),
		Depth:        16,
		WriteLatency: 1,
		ReadLatency:  0,
		Readers: []*ir.ReaderPort{
			{Name: "r", Addr: &ir.Ref{Name: "r_addr", Type: ir.Unsigned(4)}, En: &ir.Ref{Name: "r_en", Type: ir.Unsigned(1)}},
		},
		Writers: []*ir.WriterPort{
			{Name: "w",
				Addr: &ir.Ref{Name: "w_addr", Type: ir.Unsigned(4)},
				En:   &ir.Ref{Name: "w_en", Type: ir.Unsigned(1)},
				Data: &ir.Ref{Name: "w_data", Type: ir.Unsigned(8)},
				Mask: &ir.Ref{Name: "w_mask", Type: ir.Unsigned(1)},
			},
		},
	}
	m := &ir.Module{Name: "m", Body: []ir.Stmt{mem}}
	cls := mustClassify(t, m)

	names := map[string]bool{}
	for _, w := range cls.Wires {
		names[w.Name] = true
	}
	for _, want := range []string{"havoc_mem", "r_data", "r_addr", "r_en", "w_data", "w_addr", "w_en", "w_mask"} {
		if !names[want] {
			t.Errorf("expected synthesized wire %q, not found in %v", want, names)
		}
	}
}

// A Connect whose lhs is a memory-port field and whose rhs type is clock is
// a clock hook: it is recorded and dropped from every classified collection.
func TestClassifyDropsMemoryPortClockHook(t *testing.T) {
	mem := &ir.Memory{Name: "mem", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1, ReadLatency: 0}
	conn := &ir.Connect{
		Lhs: ir.Lhs{Kind: ir.LhsMemoryPortField, MemField: &ir.SubField{Parent: &ir.Ref{Name: "mem"}, Field: "clk"}},
		Rhs: clockRef(),
	}
	m := &ir.Module{Name: "m", Body: []ir.Stmt{mem, conn}}
	cls := mustClassify(t, m)
	if len(cls.PortOrMemFieldAssigns) != 0 {
		t.Fatalf("expected the clock-hook connect to be dropped, got %d port/memfield assigns", len(cls.PortOrMemFieldAssigns))
	}
	if len(cls.ClockExprs()) != 1 {
		t.Fatalf("expected exactly one recorded clock expression, got %d", len(cls.ClockExprs()))
	}
}

func TestClassifyRejectsIllegalLhsKind(t *testing.T) {
	conn := &ir.Connect{Lhs: ir.Lhs{Kind: ir.LhsOther}, Rhs: &ir.Lit{Value: 0, Type: ir.Unsigned(1)}}
	m := &ir.Module{Name: "m", Body: []ir.Stmt{conn}}
	_, errs := Classify(m)
	if got := firstKind(t, errs); got != KindIllegalStatement {
		t.Fatalf("kind = %v, want KindIllegalStatement", got)
	}
}
