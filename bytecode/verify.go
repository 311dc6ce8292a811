package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/andyPPL/nashorn/op"
)

// Verify performs structural validation of a unit, typically after
// Unmarshal and before handing the unit to a loader. It checks that every
// instruction stream decodes cleanly and that all operand indices resolve
// within the unit. All problems found are returned together.
func Verify(u *Unit) error {
	var result *multierror.Error
	for i := 0; i < u.RoutineCount(); i++ {
		r := u.RoutineAt(i)
		if err := verifyRoutine(u, r); err != nil {
			result = multierror.Append(result, fmt.Errorf("routine %q: %w", r.Name(), err))
		}
	}
	return result.ErrorOrNil()
}

func verifyRoutine(u *Unit, r *Routine) error {
	if len(r.paramNames) != len(r.paramTypes) {
		return fmt.Errorf("parameter name/type count mismatch: %d vs %d",
			len(r.paramNames), len(r.paramTypes))
	}
	pos := 0
	for pos < len(r.instructions) {
		opcode := r.instructions[pos]
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return fmt.Errorf("unknown opcode %d at offset %d", opcode, pos)
		}
		if pos+1+info.OperandCount > len(r.instructions) {
			return fmt.Errorf("truncated %s at offset %d", info.Name, pos)
		}
		operands := r.instructions[pos+1 : pos+1+info.OperandCount]
		switch opcode {
		case op.LoadConst:
			if int(operands[0]) >= u.ConstantCount() {
				return fmt.Errorf("constant index %d out of range at offset %d", operands[0], pos)
			}
		case op.CallRoutine:
			if int(operands[0]) >= u.RoutineCount() {
				return fmt.Errorf("routine index %d out of range at offset %d", operands[0], pos)
			}
		case op.LoadLocal, op.StoreLocal:
			t := op.Type(operands[0])
			if !t.IsValid() {
				return fmt.Errorf("invalid local type code %d at offset %d", operands[0], pos)
			}
			// Wide values occupy two consecutive slots.
			if int(operands[1])+t.Width() > r.localSlots {
				return fmt.Errorf("local slot %d out of range at offset %d", operands[1], pos)
			}
		}
		pos += 1 + info.OperandCount
	}
	return nil
}
