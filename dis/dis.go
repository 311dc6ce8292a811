// Package dis supports analysis of emitted units by disassembling them.
// This works with the opcodes defined in the `op` package and uses the
// InstructionIter type from the `bytecode` package.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/op"
)

// Instruction represents a single instruction and its operands.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []op.Code
	Annotation string
}

// Disassemble returns a parsed representation of one routine. The unit
// provides the context for constant and call annotations.
func Disassemble(u *bytecode.Unit, r *bytecode.Routine) ([]Instruction, error) {
	var instructions []Instruction
	var offset int
	iter := bytecode.NewInstructionIter(r)
	for {
		val, ok := iter.Next()
		if !ok {
			if offset != r.InstructionCount() {
				return nil, fmt.Errorf("truncated instruction at offset %d", offset)
			}
			break
		}
		info := op.GetInfo(val[0])
		var annotation string
		switch val[0] {
		case op.LoadLocal, op.StoreLocal:
			annotation = fmt.Sprintf("%s %s", op.Type(val[1]), localName(r, int(val[2])))
		case op.LoadConst:
			var err error
			annotation, err = constantAnnotation(u, int(val[1]))
			if err != nil {
				return nil, err
			}
		case op.CallRoutine:
			annotation = routineAnnotation(u, int(val[1]))
		case op.Cast, op.IndexLoad, op.Add, op.Sub, op.Mul, op.Div, op.Return:
			annotation = op.Type(val[1]).String()
		}
		instructions = append(instructions, Instruction{
			Offset:     offset,
			Name:       info.Name,
			Opcode:     val[0],
			Operands:   val[1:],
			Annotation: annotation,
		})
		offset += len(val)
	}
	return instructions, nil
}

// Print writes a string representation of the whole unit to the given
// writer, one section per routine.
func Print(u *bytecode.Unit, writer io.Writer) error {
	heading := color.New(color.Bold)
	opName := color.New(color.FgCyan)
	note := color.New(color.FgYellow)
	for i := 0; i < u.RoutineCount(); i++ {
		r := u.RoutineAt(i)
		if i > 0 {
			fmt.Fprintln(writer)
		}
		heading.Fprintf(writer, "%s\n", r.String())
		fmt.Fprintf(writer, "  id=%s locals=%d maxstack=%d\n", r.ID(), r.LocalSlots(), r.MaxStack())
		instructions, err := Disassemble(u, r)
		if err != nil {
			return fmt.Errorf("routine %q: %w", r.Name(), err)
		}
		for _, instr := range instructions {
			fmt.Fprintf(writer, "  %4d  ", instr.Offset)
			opName.Fprintf(writer, "%-16s", instr.Name)
			fmt.Fprintf(writer, " %-10s", formatOperands(instr.Operands))
			if instr.Annotation != "" {
				note.Fprintf(writer, " ; %s", instr.Annotation)
			}
			fmt.Fprintln(writer)
		}
	}
	return nil
}

func formatOperands(ops []op.Code) string {
	var sb strings.Builder
	for i, o := range ops {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", o))
	}
	return sb.String()
}

// localName maps a slot back to a parameter name when the slot holds a
// parameter, and falls back to a numbered local otherwise.
func localName(r *bytecode.Routine, slot int) string {
	at := 0
	for i := 0; i < r.ParamCount(); i++ {
		if at == slot {
			return r.ParamName(i)
		}
		at += r.ParamType(i).Width()
	}
	return fmt.Sprintf("local_%d", slot)
}

func constantAnnotation(u *bytecode.Unit, index int) (string, error) {
	if index >= u.ConstantCount() {
		return "", fmt.Errorf("constant index out of range: %d", index)
	}
	c := u.ConstantAt(index)
	if s, ok := c.Value.(string); ok {
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return fmt.Sprintf("%s %q", c.Type, s), nil
	}
	return fmt.Sprintf("%s %v", c.Type, c.Value), nil
}

func routineAnnotation(u *bytecode.Unit, index int) string {
	if index >= u.RoutineCount() {
		return fmt.Sprintf("routine_%d", index)
	}
	return u.RoutineAt(index).Name()
}
