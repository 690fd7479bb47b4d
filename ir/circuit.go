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

// Direction is a port's signal direction.
type Direction int

const (
	DirInput Direction = iota
	DirOutput
)

func (d Direction) String() string {
	if d == DirInput {
		return "input"
	}
	return "output"
}

// Port is a module boundary signal.
type Port struct {
	Name string
	Type *Type
	Dir  Direction
}

// Module is a single flat, ground-typed, single-clock, reset-less module
// body — the only module kind this translator accepts (spec §1, §3).
type Module struct {
	Name  string
	Ports []*Port
	Body  []Stmt
}

// Circuit is the root value handed to the translator: one ordinary module
// plus the side-channel annotations that accompany it (spec §6).
type Circuit struct {
	Module      *Module
	Annotations []Annotation
}
