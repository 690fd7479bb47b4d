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

import "firuclid/ir"

// Translate is the single public entry point of the translation engine: it
// classifies circuit.Module, synthesizes memory write procedures, emits the
// transition-system module text, and — when the circuit carries an
// EmitCircuit annotation — appends an EmittedCircuit annotation carrying
// that text back onto circuit.Annotations (spec §6). The rendered text is
// always returned, independent of whether EmitCircuit was present, since a
// single-module CLI invocation has no other consumer waiting on the
// annotation round trip.
func Translate(circuit *ir.Circuit) (string, error) {
	cls, errs := Classify(circuit.Module)
	if !errs.Empty() {
		return "", errs.AsError()
	}

	procs, err := synthesizeWriteMemProcedures(cls.Memories)
	if err != nil {
		return "", err
	}

	sink := collectAnnotations(circuit.Annotations)

	em := newEmitter(circuit.Module, cls, sink, procs)
	text, err := em.Emit()
	if err != nil {
		return "", err
	}

	if sink.EmitRequested {
		circuit.Annotations = append(circuit.Annotations, &ir.EmittedCircuit{Text: text})
	}

	return text, nil
}
