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

// Annotation is the closed family of side-channel annotation kinds
// consumed or produced by the translator (spec §6): BMC, Assumption,
// Property, EmitCircuit (input), and EmittedCircuit (output).
type Annotation interface {
	fmt.Stringer
	annotationKind() string
}

// BMC requests that a control block unrolling the transition relation
// Steps times be appended to the emitted module. At most one is expected
// per circuit; absence means no control block is emitted.
type BMC struct {
	Steps uint
}

func (a *BMC) annotationKind() string { return "bmc" }
func (a *BMC) String() string         { return fmt.Sprintf("BMC(%d)", a.Steps) }

// Assumption names a reference whose value becomes an `assume` in the
// emitted module.
type Assumption struct {
	Ref string
}

func (a *Assumption) annotationKind() string { return "assumption" }
func (a *Assumption) String() string         { return fmt.Sprintf("Assumption(%s)", a.Ref) }

// Property names a reference whose value becomes an `invariant` in the
// emitted module.
type Property struct {
	Ref string
}

func (a *Property) annotationKind() string { return "property" }
func (a *Property) String() string         { return fmt.Sprintf("Property(%s)", a.Ref) }

// EmitCircuit triggers emission of the module text.
type EmitCircuit struct{}

func (a *EmitCircuit) annotationKind() string { return "emit-circuit" }
func (a *EmitCircuit) String() string         { return "EmitCircuit" }

// EmittedCircuit carries the rendered module text, appended to the
// circuit's annotation list once translation succeeds.
type EmittedCircuit struct {
	Text string
}

func (a *EmittedCircuit) annotationKind() string { return "emitted-circuit" }
func (a *EmittedCircuit) String() string      { return "EmittedCircuit(...)" }
