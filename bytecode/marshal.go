package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/andyPPL/nashorn/op"
)

// cborEncMode is configured for canonical encoding so that marshaling the
// same unit always yields the same bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Serialization types

type constantDef struct {
	Type  op.Type `cbor:"type"`
	Value any     `cbor:"value"`
}

type routineDef struct {
	ID           string    `cbor:"id"`
	Name         string    `cbor:"name"`
	ParamNames   []string  `cbor:"param_names,omitempty"`
	ParamTypes   []op.Type `cbor:"param_types,omitempty"`
	ReturnType   op.Type   `cbor:"return_type"`
	VarArg       bool      `cbor:"vararg,omitempty"`
	Synthetic    bool      `cbor:"synthetic,omitempty"`
	Instructions []op.Code `cbor:"instructions"`
	MaxStack     int       `cbor:"max_stack"`
	LocalSlots   int       `cbor:"local_slots"`
}

type unitDef struct {
	ID         string        `cbor:"id"`
	Name       string        `cbor:"name"`
	SourceName string        `cbor:"source_name,omitempty"`
	Strict     bool          `cbor:"strict,omitempty"`
	Constants  []constantDef `cbor:"constants"`
	Routines   []routineDef  `cbor:"routines"`
}

// Marshal converts a Unit into its canonical binary representation.
func Marshal(u *Unit) ([]byte, error) {
	def := unitDef{
		ID:         u.id,
		Name:       u.name,
		SourceName: u.sourceName,
		Strict:     u.strict,
		Constants:  make([]constantDef, len(u.constants)),
		Routines:   make([]routineDef, len(u.routines)),
	}
	for i, c := range u.constants {
		def.Constants[i] = constantDef{Type: c.Type, Value: c.Value}
	}
	for i, r := range u.routines {
		def.Routines[i] = routineDef{
			ID:           r.id,
			Name:         r.name,
			ParamNames:   r.paramNames,
			ParamTypes:   r.paramTypes,
			ReturnType:   r.returnType,
			VarArg:       r.varArg,
			Synthetic:    r.synthetic,
			Instructions: r.instructions,
			MaxStack:     r.maxStack,
			LocalSlots:   r.localSlots,
		}
	}
	return cborEncMode.Marshal(&def)
}

// Unmarshal converts a binary representation into a Unit.
func Unmarshal(data []byte) (*Unit, error) {
	var def unitDef
	if err := cbor.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal unit: %w", err)
	}
	constants := make([]Constant, len(def.Constants))
	for i, c := range def.Constants {
		value, err := normalizeConstant(c.Type, c.Value)
		if err != nil {
			return nil, fmt.Errorf("bytecode: constant %d: %w", i, err)
		}
		constants[i] = Constant{Type: c.Type, Value: value}
	}
	routines := make([]*Routine, len(def.Routines))
	for i, r := range def.Routines {
		routines[i] = NewRoutine(RoutineParams{
			ID:           r.ID,
			Name:         r.Name,
			ParamNames:   r.ParamNames,
			ParamTypes:   r.ParamTypes,
			ReturnType:   r.ReturnType,
			VarArg:       r.VarArg,
			Synthetic:    r.Synthetic,
			Instructions: r.Instructions,
			MaxStack:     r.MaxStack,
			LocalSlots:   r.LocalSlots,
		})
	}
	return NewUnit(UnitParams{
		ID:         def.ID,
		Name:       def.Name,
		SourceName: def.SourceName,
		Strict:     def.Strict,
		Constants:  constants,
		Routines:   routines,
	}), nil
}

// normalizeConstant maps a decoded CBOR value back to the Go representation
// the constant pool produces. CBOR decodes integers into uint64 or int64
// and homogeneous arrays into []interface{}, so the declared constant type
// drives the conversion.
func normalizeConstant(t op.Type, v any) (any, error) {
	switch t {
	case op.Int:
		return toInt64(v)
	case op.Number:
		return toFloat64(v)
	case op.Bool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", v)
		}
		return b, nil
	case op.String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil
	case op.IntArray:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		out := make([]int64, len(items))
		for i, item := range items {
			n, err := toInt64(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case op.NumberArray:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		out := make([]float64, len(items))
		for i, item := range items {
			f, err := toFloat64(item)
			if err != nil {
				return nil, err
			}
			out[i] = f
		}
		return out, nil
	case op.StringArray:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", v)
		}
		out := make([]string, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string element, got %T", item)
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported constant type %s", t)
	}
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}
