package intermediate

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestInstructionString(t *testing.T) {
	tests := []struct {
		name     string
		inst     Instruction
		expected string
	}{
		{"assign", Assign("x", Literal("10")), "x = 10"},
		{"assign from temp", Assign("x", Temp("t2")), "x = t2"},
		{"print", Print(Name("x")), "print(x)"},
		{"binary", BinaryOp("t1", "*", Literal("2"), Literal("3")), "t1 = 2 * 3"},
		{"relational", BinaryOp("t1", "<=", Name("a"), Name("b")), "t1 = a <= b"},
		{"logical", BinaryOp("t1", "or", Literal("true"), Name("x")), "t1 = true or x"},
		{"negate", UnaryOp("t1", "-", Name("y")), "t1 = -y"},
		{"not", UnaryOp("t1", "not", Name("y")), "t1 = not y"},
		{"goto", Goto("L1"), "goto L1"},
		{"if false", IfFalseGoto(Temp("t1"), "L2"), "if_false t1 goto L2"},
		{"label", LabelAt("L1"), "L1:"},
		{"unknown op", Instruction{Op: "NOP"}, "<invalid nop>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inst.String())
		})
	}
}

func TestInstructionAt(t *testing.T) {
	base := Goto("L1")
	positioned := base.At("3:5")

	assert.Equal(t, "3:5", positioned.Pos)
	assert.Equal(t, "", base.Pos)
	assert.True(t, positioned.IsJump())
	assert.False(t, LabelAt("L1").IsJump())
}

func TestRender(t *testing.T) {
	lines := Render([]Instruction{
		BinaryOp("t1", "<", Name("x"), Literal("10")),
		IfFalseGoto(Temp("t1"), "L2"),
	})

	assert.Equal(t, []string{"t1 = x < 10", "if_false t1 goto L2"}, lines)
	assert.Equal(t, 0, len(Render(nil)))
}

func TestOperandKindText(t *testing.T) {
	for _, kind := range []OperandKind{OperandLiteral, OperandName, OperandTemp} {
		text, err := kind.MarshalText()
		assert.NoError(t, err)

		var decoded OperandKind
		assert.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, kind, decoded)
	}

	var kind OperandKind
	assert.IsError(t, kind.UnmarshalText([]byte("register")), ErrInvalidInstruction)
	assert.Equal(t, "unknown", OperandKind(42).String())
}
