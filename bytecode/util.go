package bytecode

import "github.com/andyPPL/nashorn/op"

// copyStrings returns a copy of the given string slice.
func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// copyTypes returns a copy of the given type slice.
func copyTypes(src []op.Type) []op.Type {
	if src == nil {
		return nil
	}
	dst := make([]op.Type, len(src))
	copy(dst, src)
	return dst
}

// copyInstructions returns a copy of the given instruction slice.
func copyInstructions(src []op.Code) []op.Code {
	if src == nil {
		return nil
	}
	dst := make([]op.Code, len(src))
	copy(dst, src)
	return dst
}

// copyConstants returns a copy of the given constant slice.
func copyConstants(src []Constant) []Constant {
	if src == nil {
		return nil
	}
	dst := make([]Constant, len(src))
	copy(dst, src)
	return dst
}

// copyRoutines returns a copy of the given routine slice. The routines
// themselves are already immutable.
func copyRoutines(src []*Routine) []*Routine {
	if src == nil {
		return nil
	}
	dst := make([]*Routine, len(src))
	copy(dst, src)
	return dst
}
