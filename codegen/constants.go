package codegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/errz"
	"github.com/andyPPL/nashorn/op"
)

// maxConstants is the largest constant table an instruction operand can
// address.
const maxConstants = 1 << 16

// ConstantPool interns the constants of one unit and tracks which accessor
// routines the emitted code will need to retrieve them at run time.
// Interning the same value twice yields the same index.
type ConstantPool struct {
	constants []bytecode.Constant
	index     map[string]uint16
	requested map[op.Type]bool
}

// NewConstantPool creates an empty constant pool.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{
		index:     map[string]uint16{},
		requested: map[op.Type]bool{},
	}
}

// Intern adds a constant to the pool, or finds its existing entry, and
// returns its index and operand type. Supported values are string, int64,
// float64, bool and the homogeneous slices []int64, []float64 and
// []string. Anything else is an unsupported input, not a pool bug.
func (p *ConstantPool) Intern(value any) (uint16, op.Type, error) {
	t, err := constantType(value)
	if err != nil {
		return 0, op.Unknown, err
	}
	key := constantKey(t, value)
	if idx, ok := p.index[key]; ok {
		return idx, t, nil
	}
	if len(p.constants) >= maxConstants {
		return 0, op.Unknown, errz.Unsupportedf("", "constant table exceeds %d entries", maxConstants)
	}
	idx := uint16(len(p.constants))
	p.constants = append(p.constants, bytecode.Constant{Type: t, Value: value})
	p.index[key] = idx
	return idx, t, nil
}

// Len returns the number of interned constants.
func (p *ConstantPool) Len() int {
	return len(p.constants)
}

// Constants returns a copy of the pool entries in interning order.
func (p *ConstantPool) Constants() []bytecode.Constant {
	out := make([]bytecode.Constant, len(p.constants))
	copy(out, p.constants)
	return out
}

// RequestAccessor records that the emitted code retrieves constants of the
// given reference type through an accessor routine. The accessor itself is
// synthesized when the unit is ended; requesting the same type repeatedly
// records it once.
func (p *ConstantPool) RequestAccessor(t op.Type) error {
	if _, ok := accessorNames[t]; !ok {
		return errz.Unsupportedf("", "no constant accessor for type %s", t)
	}
	p.requested[t] = true
	return nil
}

// Requested returns the accessor types requested so far, ordered by type
// code so synthesis is deterministic.
func (p *ConstantPool) Requested() []op.Type {
	out := make([]op.Type, 0, len(p.requested))
	for t := range p.requested {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var accessorNames = map[op.Type]string{
	op.String:      "$getString",
	op.Object:      "$getObject",
	op.IntArray:    "$getIntArray",
	op.NumberArray: "$getNumberArray",
	op.StringArray: "$getStringArray",
	op.ObjectArray: "$getObjectArray",
}

// AccessorName returns the routine name of the constant accessor for the
// given type. It panics for types that have no accessor; gate calls with
// RequestAccessor.
func AccessorName(t op.Type) string {
	name, ok := accessorNames[t]
	if !ok {
		panic(fmt.Sprintf("internal error: no constant accessor for type %s", t))
	}
	return name
}

// constantKey builds the dedup key for an interned value. String values
// and string slice elements are quoted so that element boundaries stay
// unambiguous; numeric elements contain no separator characters.
func constantKey(t op.Type, value any) string {
	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteByte(':')
	switch v := value.(type) {
	case string:
		sb.WriteString(strconv.Quote(v))
	case []string:
		for i, s := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(s))
		}
	case []int64:
		for i, n := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(n, 10))
		}
	case []float64:
		for i, f := range v {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
	default:
		fmt.Fprintf(&sb, "%v", v)
	}
	return sb.String()
}

func constantType(value any) (op.Type, error) {
	switch value.(type) {
	case string:
		return op.String, nil
	case int64:
		return op.Int, nil
	case float64:
		return op.Number, nil
	case bool:
		return op.Bool, nil
	case []int64:
		return op.IntArray, nil
	case []float64:
		return op.NumberArray, nil
	case []string:
		return op.StringArray, nil
	default:
		return op.Unknown, errz.Unsupportedf("", "cannot pool constant of type %T", value)
	}
}
