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

// Stmt is the closed family of statement variants the classifier walks:
// Node, Register, Memory, Connect. Wire and Instance statements are
// accepted by the parser grammar upstream but are illegal input to this
// translator (spec §4.1) — they have no Go type of their own and are
// carried as an IllegalStmt, which the classifier reports as
// illegal-statement.
type Stmt interface {
	fmt.Stringer
	stmtKind() string
}

// Node is a named combinational value.
type Node struct {
	Name  string
	Value Expr
}

func (n *Node) stmtKind() string { return "node" }
func (n *Node) String() string   { return fmt.Sprintf("node %s = %v", n.Name, n.Value) }

// Register declares a clocked storage cell. Reset must be nil (absent), a
// literal zero of the register's type, or a simple *Ref whose name is used
// nowhere outside a reset slot (checked after the whole module is walked);
// any other shape is an illegal-reset error during classification.
type Register struct {
	Name  string
	Type  *Type
	Clock Expr
	Reset Expr // nil, a *Lit with Value == 0, or a reset-only *Ref
}

func (r *Register) stmtKind() string { return "register" }
func (r *Register) String() string   { return fmt.Sprintf("reg %s : %v", r.Name, r.Type) }

// ReaderPort is a memory read port: it has addr/en/data fields.
type ReaderPort struct {
	Name string
	Addr Expr
	En   Expr
}

// WriterPort is a memory write port: it has addr/en/data/mask fields.
type WriterPort struct {
	Name string
	Addr Expr
	En   Expr
	Data Expr
	Mask Expr
}

// Memory declares a random-access memory. Per spec §3 invariants, every
// memory accepted by this translator has WriteLatency == 1, ReadLatency ==
// 0, no readwriters, and a ground DataType.
type Memory struct {
	Name         string
	DataType     *Type
	Depth        uint64
	WriteLatency uint
	ReadLatency  uint
	Readers      []*ReaderPort
	Writers      []*WriterPort
	Readwriters  []string // names only; any non-empty list is itself a violation
}

func (m *Memory) stmtKind() string { return "memory" }
func (m *Memory) String() string {
	return fmt.Sprintf("mem %s depth=%d data=%v", m.Name, m.Depth, m.DataType)
}

// AddrWidth returns the address width required for this memory's depth:
// max(1, ceil(log2(depth))), per spec §4.5 step 4.
func (m *Memory) AddrWidth() Width {
	if m.Depth <= 1 {
		return 1
	}
	w := Width(0)
	n := m.Depth - 1
	for n > 0 {
		w++
		n >>= 1
	}
	if w == 0 {
		w = 1
	}
	return w
}

// LhsKind classifies what shape a Connect's left-hand side has.
type LhsKind int

const (
	LhsRegister LhsKind = iota
	LhsOutputPort
	LhsMemoryPortField
	LhsOther // illegal
)

// Lhs is the left-hand side of a Connect, carrying enough shape
// information for the classifier to route it by its Kind alone, without
// embedding a pointer back into the module's declarations (keeping Connect
// cheap to build and to decode from the wire format).
type Lhs struct {
	Kind LhsKind
	// Name is the register or output-port name, set when Kind is
	// LhsRegister or LhsOutputPort.
	Name string
	// MemField is set when Kind == LhsMemoryPortField: the port and field,
	// whose flattened name is the synthesized wire it drives (e.g. port "w",
	// field "addr" -> "w_addr").
	MemField *SubField
}

func (l *Lhs) String() string {
	switch l.Kind {
	case LhsRegister, LhsOutputPort:
		return l.Name
	case LhsMemoryPortField:
		return l.MemField.String()
	default:
		return "<illegal-lhs>"
	}
}

// Connect assigns an expression to a register, an output port, or a
// memory-port field.
type Connect struct {
	Lhs Lhs
	Rhs Expr
}

func (c *Connect) stmtKind() string { return "connect" }
func (c *Connect) String() string   { return fmt.Sprintf("%v <= %v", c.Lhs.String(), c.Rhs) }

// IllegalStmt represents a statement shape this translator never accepts
// as valid input (a raw Wire definition, a module Instance, or any other
// Connect lhs kind) — present so the classifier can report
// illegal-statement with a concrete offending value rather than merely
// refusing to type-switch.
type IllegalStmt struct {
	Reason string
}

func (s *IllegalStmt) stmtKind() string { return "illegal" }
func (s *IllegalStmt) String() string   { return fmt.Sprintf("illegal-statement: %s", s.Reason) }
