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

// JSON encode/decode for the tagged Expr/Stmt/Annotation families. This is
// the only place in the ir package that knows about a concrete wire
// syntax; package translate never imports encoding/json (SPEC_FULL.md §6)
// — only cmd/firuclid decodes a Circuit, via DecodeCircuit below.

import (
	"encoding/json"

	"github.com/pkg/errors"

	"firuclid/utils"
)

func (t *Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  string `json:"kind"`
		Width Width  `json:"width,omitempty"`
	}{Kind: t.Kind.String(), Width: t.Width})
}

func (t *Type) UnmarshalJSON(data []byte) error {
	var w struct {
		Kind  string `json:"kind"`
		Width Width  `json:"width"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(err, "decoding type")
	}
	switch w.Kind {
	case "unsigned":
		t.Kind, t.Width = KindUnsigned, w.Width
	case "signed":
		t.Kind, t.Width = KindSigned, w.Width
	case "clock":
		t.Kind, t.Width = KindClock, 0
	default:
		return errors.Errorf("unknown type kind %q", w.Kind)
	}
	return nil
}

// wireExpr is the envelope used to decode any Expr variant.
type wireExpr struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name,omitempty"`
	Parent json.RawMessage `json:"parent,omitempty"`
	Field  string          `json:"field,omitempty"`
	Value  uint64          `json:"value,omitempty"`
	Cond   json.RawMessage `json:"cond,omitempty"`
	TVal   json.RawMessage `json:"tval,omitempty"`
	FVal   json.RawMessage `json:"fval,omitempty"`
	Op     string          `json:"op,omitempty"`
	Args   []json.RawMessage `json:"args,omitempty"`
	Consts []int64         `json:"consts,omitempty"`
	Type   *Type           `json:"type,omitempty"`
}

// DecodeExpr decodes one Expr value from its JSON envelope.
func DecodeExpr(data []byte) (Expr, error) {
	var w wireExpr
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding expr")
	}
	switch w.Kind {
	case "ref":
		return &Ref{Name: w.Name, Type: w.Type}, nil
	case "subfield":
		parent, err := DecodeExpr(w.Parent)
		if err != nil {
			return nil, err
		}
		p, ok := parent.(*Ref)
		if !ok {
			return nil, errors.Errorf("subfield parent must be a ref, got %T", parent)
		}
		return &SubField{Parent: p, Field: w.Field, Type: w.Type}, nil
	case "lit":
		return &Lit{Value: w.Value, Type: w.Type}, nil
	case "mux":
		cond, err := DecodeExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		tval, err := DecodeExpr(w.TVal)
		if err != nil {
			return nil, err
		}
		fval, err := DecodeExpr(w.FVal)
		if err != nil {
			return nil, err
		}
		return &Mux{Cond: cond, TVal: tval, FVal: fval, Type: w.Type}, nil
	case "prim":
		op, ok := opFromString(w.Op)
		if !ok {
			return nil, errors.Errorf("unknown primitive operator %q", w.Op)
		}
		args := make([]Expr, len(w.Args))
		for i, raw := range w.Args {
			arg, err := DecodeExpr(raw)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &Prim{Op: op, Args: args, Consts: w.Consts, Type: w.Type}, nil
	default:
		return nil, errors.Errorf("unknown expr kind %q", w.Kind)
	}
}

func opFromString(s string) (Op, bool) {
	for op := OpNeg; op <= OpBitSlice; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// wireLhs decodes a Connect's left-hand side.
type wireLhs struct {
	Kind   string          `json:"kind"`
	Name   string          `json:"name,omitempty"`
	Parent json.RawMessage `json:"parent,omitempty"`
	Field  string          `json:"field,omitempty"`
	Type   *Type           `json:"type,omitempty"`
}

func decodeLhs(w wireLhs) (Lhs, error) {
	switch w.Kind {
	case "register":
		return Lhs{Kind: LhsRegister, Name: w.Name}, nil
	case "port":
		return Lhs{Kind: LhsOutputPort, Name: w.Name}, nil
	case "memfield":
		parent, err := DecodeExpr(w.Parent)
		if err != nil {
			return Lhs{}, err
		}
		p, ok := parent.(*Ref)
		if !ok {
			return Lhs{}, errors.Errorf("memfield parent must be a ref, got %T", parent)
		}
		return Lhs{Kind: LhsMemoryPortField, MemField: &SubField{Parent: p, Field: w.Field, Type: w.Type}}, nil
	default:
		return Lhs{Kind: LhsOther}, nil
	}
}

type wireStmt struct {
	Kind         string            `json:"kind"`
	Name         string            `json:"name,omitempty"`
	Value        json.RawMessage   `json:"value,omitempty"`
	Type         *Type             `json:"type,omitempty"`
	Clock        json.RawMessage   `json:"clock,omitempty"`
	Reset        json.RawMessage   `json:"reset,omitempty"`
	DataType     *Type             `json:"dataType,omitempty"`
	Depth        uint64            `json:"depth,omitempty"`
	WriteLatency uint              `json:"writeLatency,omitempty"`
	ReadLatency  uint              `json:"readLatency,omitempty"`
	Readers      []wireReaderPort  `json:"readers,omitempty"`
	Writers      []wireWriterPort  `json:"writers,omitempty"`
	Readwriters  []string          `json:"readwriters,omitempty"`
	Lhs          *wireLhs          `json:"lhs,omitempty"`
	Rhs          json.RawMessage   `json:"rhs,omitempty"`
	Reason       string            `json:"reason,omitempty"`
}

type wireReaderPort struct {
	Name string          `json:"name"`
	Addr json.RawMessage `json:"addr"`
	En   json.RawMessage `json:"en"`
}

type wireWriterPort struct {
	Name string          `json:"name"`
	Addr json.RawMessage `json:"addr"`
	En   json.RawMessage `json:"en"`
	Data json.RawMessage `json:"data"`
	Mask json.RawMessage `json:"mask"`
}

// DecodeStmt decodes one Stmt value from its JSON envelope.
func DecodeStmt(data []byte) (Stmt, error) {
	var w wireStmt
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding stmt")
	}
	switch w.Kind {
	case "node":
		val, err := DecodeExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &Node{Name: w.Name, Value: val}, nil
	case "register":
		clk, err := DecodeExpr(w.Clock)
		if err != nil {
			return nil, err
		}
		var reset Expr
		if len(w.Reset) > 0 && string(w.Reset) != "null" {
			reset, err = DecodeExpr(w.Reset)
			if err != nil {
				return nil, err
			}
		}
		return &Register{Name: w.Name, Type: w.Type, Clock: clk, Reset: reset}, nil
	case "memory":
		readers := make([]*ReaderPort, len(w.Readers))
		for i, r := range w.Readers {
			addr, err := DecodeExpr(r.Addr)
			if err != nil {
				return nil, err
			}
			en, err := DecodeExpr(r.En)
			if err != nil {
				return nil, err
			}
			readers[i] = &ReaderPort{Name: r.Name, Addr: addr, En: en}
		}
		writers := make([]*WriterPort, len(w.Writers))
		for i, wr := range w.Writers {
			addr, err := DecodeExpr(wr.Addr)
			if err != nil {
				return nil, err
			}
			en, err := DecodeExpr(wr.En)
			if err != nil {
				return nil, err
			}
			data, err := DecodeExpr(wr.Data)
			if err != nil {
				return nil, err
			}
			mask, err := DecodeExpr(wr.Mask)
			if err != nil {
				return nil, err
			}
			writers[i] = &WriterPort{Name: wr.Name, Addr: addr, En: en, Data: data, Mask: mask}
		}
		return &Memory{
			Name:         w.Name,
			DataType:     w.DataType,
			Depth:        w.Depth,
			WriteLatency: w.WriteLatency,
			ReadLatency:  w.ReadLatency,
			Readers:      readers,
			Writers:      writers,
			Readwriters:  w.Readwriters,
		}, nil
	case "connect":
		if w.Lhs == nil {
			return nil, errors.New("connect missing lhs")
		}
		lhs, err := decodeLhs(*w.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := DecodeExpr(w.Rhs)
		if err != nil {
			return nil, err
		}
		return &Connect{Lhs: lhs, Rhs: rhs}, nil
	case "illegal":
		return &IllegalStmt{Reason: w.Reason}, nil
	default:
		return nil, errors.Errorf("unknown stmt kind %q", w.Kind)
	}
}

type wirePort struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
	Dir  string `json:"dir"`
}

type wireModule struct {
	Name  string            `json:"name"`
	Ports []wirePort        `json:"ports"`
	Body  []json.RawMessage `json:"body"`
}

type wireAnnotation struct {
	Kind  string `json:"kind"`
	Steps uint   `json:"steps,omitempty"`
	Ref   string `json:"ref,omitempty"`
	Text  string `json:"text,omitempty"`
}

func decodeAnnotation(w wireAnnotation) (Annotation, error) {
	switch w.Kind {
	case "bmc":
		return &BMC{Steps: w.Steps}, nil
	case "assumption":
		return &Assumption{Ref: w.Ref}, nil
	case "property":
		return &Property{Ref: w.Ref}, nil
	case "emit-circuit":
		return &EmitCircuit{}, nil
	case "emitted-circuit":
		return &EmittedCircuit{Text: w.Text}, nil
	default:
		return nil, errors.Errorf("unknown annotation kind %q", w.Kind)
	}
}

func encodeAnnotation(a Annotation) wireAnnotation {
	switch v := a.(type) {
	case *BMC:
		return wireAnnotation{Kind: "bmc", Steps: v.Steps}
	case *Assumption:
		return wireAnnotation{Kind: "assumption", Ref: v.Ref}
	case *Property:
		return wireAnnotation{Kind: "property", Ref: v.Ref}
	case *EmitCircuit:
		return wireAnnotation{Kind: "emit-circuit"}
	case *EmittedCircuit:
		return wireAnnotation{Kind: "emitted-circuit", Text: v.Text}
	default:
		utils.Fatal("unreachable: unknown annotation type %T", a)
		return wireAnnotation{}
	}
}

type wireCircuit struct {
	Module      wireModule       `json:"module"`
	Annotations []wireAnnotation `json:"annotations"`
}

// DecodeCircuit decodes a full Circuit (module + annotations) from JSON.
func DecodeCircuit(data []byte) (*Circuit, error) {
	var w wireCircuit
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "decoding circuit")
	}
	ports := make([]*Port, len(w.Module.Ports))
	for i, p := range w.Module.Ports {
		if !utils.Any(p.Dir, "input", "output") {
			return nil, errors.Errorf("unknown port direction %q", p.Dir)
		}
		dir := DirInput
		if p.Dir == "output" {
			dir = DirOutput
		}
		ports[i] = &Port{Name: p.Name, Type: p.Type, Dir: dir}
	}
	body := make([]Stmt, len(w.Module.Body))
	for i, raw := range w.Module.Body {
		stmt, err := DecodeStmt(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding body statement %d", i)
		}
		body[i] = stmt
	}
	annotations := make([]Annotation, len(w.Annotations))
	for i, raw := range w.Annotations {
		a, err := decodeAnnotation(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding annotation %d", i)
		}
		annotations[i] = a
	}
	return &Circuit{
		Module:      &Module{Name: w.Module.Name, Ports: ports, Body: body},
		Annotations: annotations,
	}, nil
}

// EncodeCircuit renders a circuit's module header and annotation list back
// to JSON. It intentionally does not re-serialize the module body: the
// only round trip this translator needs is re-emitting the annotation list
// with an EmittedCircuit appended (spec §6), not a full IR export.
func EncodeCircuit(c *Circuit) ([]byte, error) {
	w := wireCircuit{
		Module: wireModule{Name: c.Module.Name},
	}
	for _, p := range c.Module.Ports {
		dir := "input"
		if p.Dir == DirOutput {
			dir = "output"
		}
		w.Module.Ports = append(w.Module.Ports, wirePort{Name: p.Name, Type: p.Type, Dir: dir})
	}
	for _, a := range c.Annotations {
		w.Annotations = append(w.Annotations, encodeAnnotation(a))
	}
	return json.MarshalIndent(w, "", "  ")
}
