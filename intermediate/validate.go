package intermediate

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrUndefinedLabel     = errors.New("jump to undefined label")
	ErrDuplicateLabel     = errors.New("label defined more than once")
	ErrInvalidInstruction = errors.New("invalid instruction")
)

// Validate checks structural completeness: every label referenced by a jump has
// exactly one LABEL instruction, and every instruction carries the fields its op needs.
func Validate(instructions []Instruction) error {
	defined := make(map[string]int, 8)

	for i, inst := range instructions {
		if err := checkFields(inst); err != nil {
			return fmt.Errorf("%w at instruction %d", err, i)
		}

		if inst.Op != OpLabel {
			continue
		}

		if first, ok := defined[inst.Label]; ok {
			return fmt.Errorf("%w: %s at instructions %d and %d", ErrDuplicateLabel, inst.Label, first, i)
		}

		defined[inst.Label] = i
	}

	for i, inst := range instructions {
		if !inst.IsJump() {
			continue
		}

		if _, ok := defined[inst.Label]; !ok {
			return fmt.Errorf("%w: %s at instruction %d", ErrUndefinedLabel, inst.Label, i)
		}
	}

	return nil
}

func checkFields(inst Instruction) error {
	var ok bool

	switch inst.Op {
	case OpAssign:
		ok = inst.Dest != "" && !inst.Arg1.IsZero()
	case OpPrint:
		ok = !inst.Arg1.IsZero()
	case OpBinary:
		ok = inst.Dest != "" && inst.Operator != "" && !inst.Arg1.IsZero() && !inst.Arg2.IsZero()
	case OpUnary:
		ok = inst.Dest != "" && (inst.Operator == "-" || inst.Operator == "not") && !inst.Arg1.IsZero()
	case OpGoto, OpLabel:
		ok = inst.Label != ""
	case OpIfFalseGoto:
		ok = inst.Label != "" && !inst.Arg1.IsZero()
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidInstruction, inst.Op)
	}

	if !ok {
		return fmt.Errorf("%w: missing operand for %s", ErrInvalidInstruction, inst.Op)
	}

	return nil
}
