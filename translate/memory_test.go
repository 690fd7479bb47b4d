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
	"strings"
	"testing"

	"firuclid/ir"
)

func writerPort(name string) *ir.WriterPort {
	return &ir.WriterPort{
		Name: name,
		Addr: &ir.Ref{Name: name + "_addr", Type: ir.Unsigned(4)},
		En:   &ir.Ref{Name: name + "_en", Type: ir.Unsigned(1)},
		Data: &ir.Ref{Name: name + "_data", Type: ir.Unsigned(8)},
		Mask: &ir.Ref{Name: name + "_mask", Type: ir.Unsigned(1)},
	}
}

// S2 — a single write-port memory gets one commit clause and zero
// collision-arbitration clauses.
func TestSynthesizeWriteMemSinglePort(t *testing.T) {
	mem := &ir.Memory{Name: "mem", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1, Writers: []*ir.WriterPort{writerPort("w")}}
	text, err := synthesizeWriteMemProcedure(mem)
	if err != nil {
		t.Fatalf("synthesizeWriteMemProcedure: %v", err)
	}
	if !strings.Contains(text, "if (w_en && w_mask) { mem[w_addr] := w_data; }") {
		t.Fatalf("missing commit clause, got:\n%s", text)
	}
	if strings.Contains(text, "havoc havoc_mem") {
		t.Fatalf("single-writer memory should have no collision clause, got:\n%s", text)
	}
	if !strings.HasPrefix(text, "procedure write_mem_mem() modifies mem, havoc_mem;\n{\n") {
		t.Fatalf("unexpected procedure header, got:\n%s", text)
	}
}

// S3 — a two write-port memory gets two commit clauses (declaration order)
// plus exactly one pairwise collision-arbitration clause.
func TestSynthesizeWriteMemTwoPortsCollision(t *testing.T) {
	mem := &ir.Memory{Name: "mem", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1,
		Writers: []*ir.WriterPort{writerPort("a"), writerPort("b")},
	}
	text, err := synthesizeWriteMemProcedure(mem)
	if err != nil {
		t.Fatalf("synthesizeWriteMemProcedure: %v", err)
	}
	if !strings.Contains(text, "if (a_en && a_mask) { mem[a_addr] := a_data; }") {
		t.Fatalf("missing a's commit clause, got:\n%s", text)
	}
	if !strings.Contains(text, "if (b_en && b_mask) { mem[b_addr] := b_data; }") {
		t.Fatalf("missing b's commit clause, got:\n%s", text)
	}
	// declaration order: a's commit clause must precede b's
	if strings.Index(text, "a_addr] := a_data") > strings.Index(text, "b_addr] := b_data") {
		t.Fatalf("commit clauses out of declaration order, got:\n%s", text)
	}
	want := "if (a_en && b_en && a_mask && b_mask && a_addr == b_addr) { havoc havoc_mem; mem[a_addr] := havoc_mem; }"
	if !strings.Contains(text, want) {
		t.Fatalf("missing collision clause %q, got:\n%s", want, text)
	}
	if strings.Count(text, "havoc havoc_mem") != 1 {
		t.Fatalf("expected exactly one collision clause for 2 writers (C(2,2)=1), got:\n%s", text)
	}
}

func TestSynthesizeWriteMemThreePortsHasThreeCollisions(t *testing.T) {
	mem := &ir.Memory{Name: "m", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1,
		Writers: []*ir.WriterPort{writerPort("a"), writerPort("b"), writerPort("c")},
	}
	text, err := synthesizeWriteMemProcedure(mem)
	if err != nil {
		t.Fatalf("synthesizeWriteMemProcedure: %v", err)
	}
	if got := strings.Count(text, "havoc havoc_m;"); got != 3 {
		t.Fatalf("expected C(3,2)=3 collision clauses, got %d in:\n%s", got, text)
	}
}

func TestSynthesizeWriteMemProceduresOrderAndNaming(t *testing.T) {
	mems := []*ir.Memory{
		{Name: "first", DataType: ir.Unsigned(8), Depth: 4, WriteLatency: 1, Writers: []*ir.WriterPort{writerPort("w")}},
		{Name: "second", DataType: ir.Unsigned(8), Depth: 4, WriteLatency: 1, Writers: []*ir.WriterPort{writerPort("w")}},
	}
	procs, err := synthesizeWriteMemProcedures(mems)
	if err != nil {
		t.Fatalf("synthesizeWriteMemProcedures: %v", err)
	}
	if len(procs) != 2 {
		t.Fatalf("expected 2 procedures, got %d", len(procs))
	}
	if procs[0].MemoryName != "first" || procs[0].ProcName != "write_mem_first" {
		t.Errorf("unexpected first procedure: %+v", procs[0])
	}
	if procs[1].MemoryName != "second" || procs[1].ProcName != "write_mem_second" {
		t.Errorf("unexpected second procedure: %+v", procs[1])
	}
}

func TestSynthesizeWriteMemNoWritersHasEmptyBody(t *testing.T) {
	mem := &ir.Memory{Name: "ro", DataType: ir.Unsigned(8), Depth: 16, WriteLatency: 1}
	text, err := synthesizeWriteMemProcedure(mem)
	if err != nil {
		t.Fatalf("synthesizeWriteMemProcedure: %v", err)
	}
	if !strings.Contains(text, "procedure write_mem_ro() modifies ro, havoc_ro;\n{\n}\n") {
		t.Fatalf("expected an empty-body procedure for a writer-less memory, got:\n%s", text)
	}
}
