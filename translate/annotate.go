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

// annotationSink filters a circuit's side-channel annotation list into the
// shapes the emitter consumes (spec §6): at most one BMC step count, every
// assumption/property reference, and whether emission was requested at all.
type annotationSink struct {
	BMCSteps      *uint
	Assumptions   []string
	Properties    []string
	EmitRequested bool
}

func collectAnnotations(annotations []ir.Annotation) *annotationSink {
	sink := &annotationSink{}
	for _, a := range annotations {
		switch v := a.(type) {
		case *ir.BMC:
			steps := v.Steps
			sink.BMCSteps = &steps
		case *ir.Assumption:
			sink.Assumptions = append(sink.Assumptions, v.Ref)
		case *ir.Property:
			sink.Properties = append(sink.Properties, v.Ref)
		case *ir.EmitCircuit:
			sink.EmitRequested = true
		}
	}
	return sink
}
