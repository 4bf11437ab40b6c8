package intermediate

import (
	"slices"
	"strconv"
)

// Name prefixes of generated temporaries and labels.
const (
	TempPrefix  = "t"
	LabelPrefix = "L"
)

// Emitter owns the growing instruction sequence and the temporary/label counters
// of a single compilation. It is not safe for concurrent use; every compilation
// creates its own.
type Emitter struct {
	instructions []Instruction
	tempCount    int
	labelCount   int
	reserved     map[string]struct{}
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithReserved registers user identifiers that generated names must not collide with.
// A counter value whose name is reserved is skipped.
func WithReserved(names ...string) EmitterOption {
	return func(e *Emitter) {
		for _, name := range names {
			e.reserved[name] = struct{}{}
		}
	}
}

// NewEmitter creates an Emitter with both counters at zero.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{
		instructions: make([]Instruction, 0, 64),
		reserved:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewTemp allocates a fresh temporary: t1, t2, ...
func (e *Emitter) NewTemp() Operand {
	for {
		e.tempCount++

		name := TempPrefix + strconv.Itoa(e.tempCount)
		if !e.isReserved(name) {
			return Temp(name)
		}
	}
}

// NewLabel allocates a fresh label: L1, L2, ...
func (e *Emitter) NewLabel() string {
	for {
		e.labelCount++

		name := LabelPrefix + strconv.Itoa(e.labelCount)
		if !e.isReserved(name) {
			return name
		}
	}
}

func (e *Emitter) isReserved(name string) bool {
	_, ok := e.reserved[name]
	return ok
}

// Append adds an instruction to the end of the sequence. Call order is program order.
func (e *Emitter) Append(inst Instruction) {
	e.instructions = append(e.instructions, inst)
}

// EmitAssign appends "dest = value".
func (e *Emitter) EmitAssign(dest string, value Operand, pos string) {
	e.Append(Assign(dest, value).At(pos))
}

// EmitPrint appends "print(value)".
func (e *Emitter) EmitPrint(value Operand, pos string) {
	e.Append(Print(value).At(pos))
}

// EmitBinary allocates a temporary, appends "temp = left op right" and returns the temporary.
func (e *Emitter) EmitBinary(op string, left, right Operand, pos string) Operand {
	temp := e.NewTemp()
	e.Append(BinaryOp(temp.Text, op, left, right).At(pos))

	return temp
}

// EmitUnary allocates a temporary, appends "temp = op operand" and returns the temporary.
func (e *Emitter) EmitUnary(op string, operand Operand, pos string) Operand {
	temp := e.NewTemp()
	e.Append(UnaryOp(temp.Text, op, operand).At(pos))

	return temp
}

// EmitGoto appends "goto label".
func (e *Emitter) EmitGoto(label string, pos string) {
	e.Append(Goto(label).At(pos))
}

// EmitIfFalse appends "if_false condition goto label".
func (e *Emitter) EmitIfFalse(condition Operand, label string, pos string) {
	e.Append(IfFalseGoto(condition, label).At(pos))
}

// EmitLabel appends "label:".
func (e *Emitter) EmitLabel(label string, pos string) {
	e.Append(LabelAt(label).At(pos))
}

// Len returns the number of instructions emitted so far.
func (e *Emitter) Len() int {
	return len(e.instructions)
}

// Finish returns the accumulated sequence. The result is a copy, so later
// appends to the emitter never show through to the caller and vice versa.
func (e *Emitter) Finish() []Instruction {
	return slices.Clone(e.instructions)
}
