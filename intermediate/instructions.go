package intermediate

import (
	"fmt"
	"strings"
)

// OperandKind tags what an operand refers to. The IR is untyped: every operand is opaque text.
type OperandKind int

const (
	// OperandLiteral is a literal copied verbatim from the source (number, true, false).
	OperandLiteral OperandKind = iota
	// OperandName is a user variable name.
	OperandName
	// OperandTemp is a compiler-generated temporary.
	OperandTemp
)

// String returns a human-readable representation of the OperandKind
func (k OperandKind) String() string {
	switch k {
	case OperandLiteral:
		return "literal"
	case OperandName:
		return "name"
	case OperandTemp:
		return "temp"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OperandKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *OperandKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "literal":
		*k = OperandLiteral
	case "name":
		*k = OperandName
	case "temp":
		*k = OperandTemp
	default:
		return fmt.Errorf("%w: operand kind %q", ErrInvalidInstruction, string(text))
	}

	return nil
}

// Operand is a place: a literal, a variable name, or a temporary name.
type Operand struct {
	Kind OperandKind `json:"kind" yaml:"kind"`
	Text string      `json:"text" yaml:"text"`
}

// Literal creates a literal operand.
func Literal(text string) Operand {
	return Operand{Kind: OperandLiteral, Text: text}
}

// Name creates a variable operand.
func Name(text string) Operand {
	return Operand{Kind: OperandName, Text: text}
}

// Temp creates a temporary operand.
func Temp(text string) Operand {
	return Operand{Kind: OperandTemp, Text: text}
}

// IsZero reports whether the operand is unset.
func (o Operand) IsZero() bool {
	return o.Text == ""
}

func (o Operand) String() string {
	return o.Text
}

// Op is the instruction operation type.
type Op string

// OpAssign and related constants define the instruction set of the three-address code.
const (
	// OpAssign copies Arg1 into Dest.
	OpAssign Op = "ASSIGN" // dest = arg1
	// OpPrint outputs Arg1.
	OpPrint Op = "PRINT" // print(arg1)
	// OpBinary applies Operator to Arg1 and Arg2 and stores the result in Dest.
	OpBinary Op = "BINARY" // dest = arg1 op arg2
	// OpUnary applies Operator ("-" or "not") to Arg1 and stores the result in Dest.
	OpUnary Op = "UNARY" // dest = op arg1
	// OpGoto jumps to Label unconditionally.
	OpGoto Op = "GOTO" // goto label
	// OpIfFalseGoto jumps to Label when Arg1 is false.
	OpIfFalseGoto Op = "IF_FALSE_GOTO" // if_false arg1 goto label
	// OpLabel marks a jump target.
	OpLabel Op = "LABEL" // label:
)

// Instruction represents a single three-address instruction
type Instruction struct {
	Op       Op      `json:"op" yaml:"op"`
	Dest     string  `json:"dest,omitempty" yaml:"dest,omitempty"`         // For ASSIGN, BINARY, UNARY
	Operator string  `json:"operator,omitempty" yaml:"operator,omitempty"` // For BINARY, UNARY
	Arg1     Operand `json:"arg1,omitzero" yaml:"arg1,omitempty"`          // value, left operand, operand or condition
	Arg2     Operand `json:"arg2,omitzero" yaml:"arg2,omitempty"`          // For BINARY
	Label    string  `json:"label,omitempty" yaml:"label,omitempty"`       // For GOTO, IF_FALSE_GOTO, LABEL
	Pos      string  `json:"pos,omitempty" yaml:"pos,omitempty"`           // Position "line:column" of the source construct
}

// Assign creates "dest = value".
func Assign(dest string, value Operand) Instruction {
	return Instruction{Op: OpAssign, Dest: dest, Arg1: value}
}

// Print creates "print(value)".
func Print(value Operand) Instruction {
	return Instruction{Op: OpPrint, Arg1: value}
}

// BinaryOp creates "dest = left op right".
func BinaryOp(dest string, op string, left, right Operand) Instruction {
	return Instruction{Op: OpBinary, Dest: dest, Operator: op, Arg1: left, Arg2: right}
}

// UnaryOp creates "dest = -operand" or "dest = not operand".
func UnaryOp(dest string, op string, operand Operand) Instruction {
	return Instruction{Op: OpUnary, Dest: dest, Operator: op, Arg1: operand}
}

// Goto creates "goto label".
func Goto(label string) Instruction {
	return Instruction{Op: OpGoto, Label: label}
}

// IfFalseGoto creates "if_false condition goto label".
func IfFalseGoto(condition Operand, label string) Instruction {
	return Instruction{Op: OpIfFalseGoto, Arg1: condition, Label: label}
}

// LabelAt creates "label:".
func LabelAt(label string) Instruction {
	return Instruction{Op: OpLabel, Label: label}
}

// At returns a copy of the instruction carrying a source position.
func (i Instruction) At(pos string) Instruction {
	i.Pos = pos
	return i
}

// IsJump reports whether the instruction references a label as a jump target.
func (i Instruction) IsJump() bool {
	return i.Op == OpGoto || i.Op == OpIfFalseGoto
}

// String renders the instruction in its textual form.
func (i Instruction) String() string {
	switch i.Op {
	case OpAssign:
		return i.Dest + " = " + i.Arg1.Text
	case OpPrint:
		return "print(" + i.Arg1.Text + ")"
	case OpBinary:
		return i.Dest + " = " + i.Arg1.Text + " " + i.Operator + " " + i.Arg2.Text
	case OpUnary:
		if i.Operator == "not" {
			return i.Dest + " = not " + i.Arg1.Text
		}

		return i.Dest + " = " + i.Operator + i.Arg1.Text
	case OpGoto:
		return "goto " + i.Label
	case OpIfFalseGoto:
		return "if_false " + i.Arg1.Text + " goto " + i.Label
	case OpLabel:
		return i.Label + ":"
	default:
		return "<invalid " + strings.ToLower(string(i.Op)) + ">"
	}
}

// Render renders every instruction, one line each.
func Render(instructions []Instruction) []string {
	lines := make([]string, len(instructions))
	for i, inst := range instructions {
		lines[i] = inst.String()
	}

	return lines
}
