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
	"strings"

	"firuclid/ir"
	"firuclid/utils"
)

// writeMemProcedure is the rendered text of one memory's write-arbitration
// procedure, plus the name the emitter calls in the next block (spec §4.4).
type writeMemProcedure struct {
	MemoryName string
	ProcName   string
	Text       string
}

// synthesizeWriteMemProcedures builds one write_mem_<m> procedure per
// memory, in the declaration order the classifier recorded them in.
// Mirrors the teacher's lower_x86.go style: one function per lowering
// concern, called in a fixed sequence from Translate before emission.
func synthesizeWriteMemProcedures(mems []*ir.Memory) ([]writeMemProcedure, error) {
	out := make([]writeMemProcedure, 0, len(mems))
	for _, m := range mems {
		text, err := synthesizeWriteMemProcedure(m)
		if err != nil {
			return nil, err
		}
		out = append(out, writeMemProcedure{
			MemoryName: m.Name,
			ProcName:   "write_mem_" + m.Name,
			Text:       text,
		})
	}
	return out, nil
}

// synthesizeWriteMemProcedure renders write_mem_<m> per spec §4.4: a
// per-port commit loop in declaration order, followed by a pairwise
// collision-arbitration clause for every unordered pair of write ports,
// lexicographic in the original port list (i.e. C(n,2) clauses).
func synthesizeWriteMemProcedure(m *ir.Memory) (string, error) {
	utils.Assert(m.WriteLatency == 1 && m.ReadLatency == 0 && len(m.Readwriters) == 0,
		"synthesizeWriteMemProcedure: memory %q has shape (writeLatency=%d, readLatency=%d, readwriters=%d) that Classify should already have rejected",
		m.Name, m.WriteLatency, m.ReadLatency, len(m.Readwriters))

	var body strings.Builder

	for _, w := range m.Writers {
		en := flatPortField(w.Name, "en")
		mask := flatPortField(w.Name, "mask")
		addr := flatPortField(w.Name, "addr")
		data := flatPortField(w.Name, "data")
		fmt.Fprintf(&body, "    if (%s && %s) { %s[%s] := %s; }\n", en, mask, m.Name, addr, data)
	}

	for i := 0; i < len(m.Writers); i++ {
		for j := i + 1; j < len(m.Writers); j++ {
			wi, wj := m.Writers[i], m.Writers[j]
			enI, enJ := flatPortField(wi.Name, "en"), flatPortField(wj.Name, "en")
			maskI, maskJ := flatPortField(wi.Name, "mask"), flatPortField(wj.Name, "mask")
			addrI, addrJ := flatPortField(wi.Name, "addr"), flatPortField(wj.Name, "addr")
			fmt.Fprintf(&body, "    if (%s && %s && %s && %s && %s == %s) { havoc havoc_%s; %s[%s] := havoc_%s; }\n",
				enI, enJ, maskI, maskJ, addrI, addrJ, m.Name, m.Name, addrI, m.Name)
		}
	}

	procName := "write_mem_" + m.Name
	var proc strings.Builder
	fmt.Fprintf(&proc, "procedure %s() modifies %s, havoc_%s;\n{\n%s}\n", procName, m.Name, m.Name, body.String())
	return proc.String(), nil
}

func flatPortField(portName, field string) string {
	return ir.FlattenName(portName, field)
}
