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
	"firuclid/ir"
	"firuclid/utils"
)

// WireDecl is a synthesized wire, carrying memory-port signals that have no
// declaration of their own in the source IR (spec §3, "synthesized wire
// names").
type WireDecl struct {
	Name string
	Type *ir.Type
}

// registerDecls is a name-keyed mapping that preserves insertion order
// (spec §9, "collections with insertion-order semantics"), pairing a
// lookup map with a backing slice the way the teacher's Infer type pairs a
// scope map with an ordered Stack.
type registerDecls struct {
	order []string
	byName map[string]*ir.Register
}

func newRegisterDecls() *registerDecls {
	return &registerDecls{byName: make(map[string]*ir.Register)}
}

func (r *registerDecls) add(reg *ir.Register) {
	if _, ok := r.byName[reg.Name]; !ok {
		r.order = append(r.order, reg.Name)
	}
	r.byName[reg.Name] = reg
}

func (r *registerDecls) has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

func (r *registerDecls) get(name string) *ir.Register { return r.byName[name] }

// InOrder returns registers in declaration (insertion) order.
func (r *registerDecls) InOrder() []*ir.Register {
	out := make([]*ir.Register, len(r.order))
	for i, n := range r.order {
		out[i] = r.byName[n]
	}
	return out
}

// Classification is the frozen result of one classifier walk over a
// module body (spec §4.1): six role-partitioned collections, plus the
// bookkeeping the post-walk checks need.
type Classification struct {
	Nodes                 []*ir.Node
	Registers             *registerDecls
	Memories              []*ir.Memory
	Wires                 []WireDecl
	RegisterAssigns       []*ir.Connect
	PortOrMemFieldAssigns []*ir.Connect

	clockExprs map[string]ir.Expr  // distinct clock expressions seen, keyed by rendered form
	resetNames *utils.Set[string] // names referenced only in a register's reset slot
	refCounts  map[string]int      // reference count per name from every *non-reset-slot* position walked
}

func newClassification() *Classification {
	return &Classification{
		Registers:  newRegisterDecls(),
		clockExprs: make(map[string]ir.Expr),
		resetNames: utils.NewSet[string](),
		refCounts:  make(map[string]int),
	}
}

// Classify performs the single tree walk over a module body described in
// spec §4.1, partitioning statements into role-specific collections and
// synthesizing the auxiliary wires that carry memory-port signals. Every
// violation found is accumulated into the returned ErrorList rather than
// aborting at the first one (SPEC_FULL.md §4.6); a non-empty list means
// classification failed and the Classification itself must not be used.
func Classify(m *ir.Module) (*Classification, *ErrorList) {
	c := newClassification()
	errs := &ErrorList{}

	for _, stmt := range m.Body {
		c.classifyStmt(stmt, errs)
	}

	c.checkPostWalk(errs)

	return c, errs
}

func (c *Classification) classifyStmt(stmt ir.Stmt, errs *ErrorList) {
	switch s := stmt.(type) {
	case *ir.Node:
		c.Nodes = append(c.Nodes, s)
		c.countRefs(s.Value)

	case *ir.Register:
		c.countRefs(s.Clock)
		c.recordClock(s.Clock)
		c.classifyReset(s, errs)
		c.Registers.add(s)

	case *ir.Memory:
		c.classifyMemory(s, errs)

	case *ir.Connect:
		c.classifyConnect(s, errs)

	case *ir.IllegalStmt:
		errs.Add(newErr(KindIllegalStatement, "", "%s", s.Reason))

	default:
		errs.Add(newErr(KindIllegalStatement, "", "unrecognized statement shape %T", stmt))
	}
}

func (c *Classification) recordClock(e ir.Expr) {
	if e == nil {
		return
	}
	c.clockExprs[e.String()] = e
}

// classifyReset validates the reset shape per spec §7: it is legal if
// absent, a literal zero (trivially fine), or a simple reference (whose
// triviality — that it is never used anywhere else — is checked once the
// whole module has been walked, in checkPostWalk). Anything else (a
// nonzero literal, a Mux, a Prim) is illegal-reset immediately.
//
// A reset reference is deliberately NOT counted into refCounts here: two
// registers legitimately sharing one always-zero reset signal must not
// trip each other's triviality check, so only uses of the name outside
// any reset slot are tracked (spec §7's triviality condition is about
// non-reset use, not total use count).
func (c *Classification) classifyReset(reg *ir.Register, errs *ErrorList) {
	switch r := reg.Reset.(type) {
	case nil:
		return
	case *ir.Lit:
		if r.Value != 0 {
			errs.Add(newErr(KindIllegalReset, reg.Name, "register reset must be absent or a literal zero, got %d", r.Value))
		}
	case *ir.Ref:
		c.resetNames.Add(r.Name)
	default:
		errs.Add(newErr(KindIllegalReset, reg.Name, "register reset is neither absent/zero nor a simple reference, got %T", reg.Reset))
	}
}

func (c *Classification) classifyMemory(mem *ir.Memory, errs *ErrorList) {
	ok := true
	if mem.WriteLatency != 1 {
		errs.Add(newErr(KindInvariantViolated, mem.Name, "memory write latency must be 1, got %d", mem.WriteLatency))
		ok = false
	}
	if mem.ReadLatency != 0 {
		errs.Add(newErr(KindInvariantViolated, mem.Name, "memory read latency must be 0, got %d", mem.ReadLatency))
		ok = false
	}
	if len(mem.Readwriters) != 0 {
		errs.Add(newErr(KindInvariantViolated, mem.Name, "memory must have zero readwriters, got %d", len(mem.Readwriters)))
		ok = false
	}
	if mem.DataType == nil || mem.DataType.Kind == ir.KindClock {
		errs.Add(newErr(KindInvariantViolated, mem.Name, "memory data type must be a ground bit-vector type"))
		ok = false
	}
	if !ok {
		return
	}

	c.Memories = append(c.Memories, mem)
	c.synthesizeMemoryWires(mem)

	for _, r := range mem.Readers {
		c.countRefs(r.Addr)
		c.countRefs(r.En)
	}
	for _, w := range mem.Writers {
		c.countRefs(w.Addr)
		c.countRefs(w.En)
		c.countRefs(w.Data)
		c.countRefs(w.Mask)
	}
}

// synthesizeMemoryWires builds havoc_<m> plus the per-port flattened
// data/addr/en(/mask) wires spec §3 requires, using ir.FlattenName so the
// same canonical name is produced here as in the serializer (spec §9).
func (c *Classification) synthesizeMemoryWires(mem *ir.Memory) {
	addrT := ir.Unsigned(mem.AddrWidth())
	boolT := ir.Unsigned(1)

	c.Wires = append(c.Wires, WireDecl{Name: "havoc_" + mem.Name, Type: mem.DataType})

	for _, r := range mem.Readers {
		c.Wires = append(c.Wires,
			WireDecl{Name: ir.FlattenName(r.Name, "data"), Type: mem.DataType},
			WireDecl{Name: ir.FlattenName(r.Name, "addr"), Type: addrT},
			WireDecl{Name: ir.FlattenName(r.Name, "en"), Type: boolT},
		)
	}
	for _, w := range mem.Writers {
		c.Wires = append(c.Wires,
			WireDecl{Name: ir.FlattenName(w.Name, "data"), Type: mem.DataType},
			WireDecl{Name: ir.FlattenName(w.Name, "addr"), Type: addrT},
			WireDecl{Name: ir.FlattenName(w.Name, "en"), Type: boolT},
			WireDecl{Name: ir.FlattenName(w.Name, "mask"), Type: boolT},
		)
	}
}

func (c *Classification) classifyConnect(conn *ir.Connect, errs *ErrorList) {
	switch conn.Lhs.Kind {
	case ir.LhsRegister:
		c.RegisterAssigns = append(c.RegisterAssigns, conn)
		c.countRefs(conn.Rhs)

	case ir.LhsOutputPort:
		c.PortOrMemFieldAssigns = append(c.PortOrMemFieldAssigns, conn)
		c.countRefs(conn.Rhs)

	case ir.LhsMemoryPortField:
		if conn.Rhs != nil && ir.TypeOf(conn.Rhs).IsClock() {
			// Clock hook: record and drop (spec §9 "clock detection for
			// memory ports").
			c.recordClock(conn.Rhs)
			return
		}
		c.PortOrMemFieldAssigns = append(c.PortOrMemFieldAssigns, conn)
		c.countRefs(conn.Rhs)

	default:
		errs.Add(newErr(KindIllegalStatement, conn.Lhs.String(), "connect lhs must be a register, output port, or memory port field"))
	}
}

// countRefs tallies every Ref name reached from e, recursively. Used both
// to drive the "is this reset name used elsewhere" check and, incidentally,
// as a record of every name this module actually reads.
func (c *Classification) countRefs(e ir.Expr) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ir.Ref:
		c.refCounts[v.Name]++
	case *ir.SubField:
		c.refCounts[v.FlatName()]++
	case *ir.Lit:
		// no references
	case *ir.Mux:
		c.countRefs(v.Cond)
		c.countRefs(v.TVal)
		c.countRefs(v.FVal)
	case *ir.Prim:
		for _, a := range v.Args {
			c.countRefs(a)
		}
	}
}

// checkPostWalk enforces the module-wide invariants that can only be
// checked once every statement has been seen: at most one clock, and no
// reset name used non-trivially (spec §4.1 "post-walk checks"). refCounts
// only tallies uses outside any reset slot, so any count above zero here
// means the name leaked into ordinary use — sharing the same reset name
// across multiple registers' reset slots is always fine on its own.
func (c *Classification) checkPostWalk(errs *ErrorList) {
	if len(c.clockExprs) > 1 {
		errs.Add(newErr(KindUnsupportedModuleShape, "", "module uses %d distinct clock expressions, at most 1 is supported", len(c.clockExprs)))
	}
	c.resetNames.ForEach(func(name string) {
		if c.refCounts[name] > 0 {
			errs.Add(newErr(KindUnsupportedModuleShape, name, "reset signal %q is used non-trivially outside its register's reset slot", name))
		}
	})
}

// ResetNames returns the set of names referenced only in a register reset
// position — these must be excluded from the emitted port declarations
// (spec §4.5 step 2), alongside clock-typed ports.
func (c *Classification) ResetNames() *utils.Set[string] { return c.resetNames }

// ClockExprs returns the distinct clock expressions observed; well-formed
// input has exactly zero or one.
func (c *Classification) ClockExprs() []ir.Expr {
	out := make([]ir.Expr, 0, len(c.clockExprs))
	for _, e := range c.clockExprs {
		out = append(out, e)
	}
	return out
}
