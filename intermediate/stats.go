package intermediate

// Summary holds instruction statistics of a compiled program.
type Summary struct {
	Total  int        `json:"total" yaml:"total"`
	Ops    map[Op]int `json:"ops" yaml:"ops"`
	Temps  int        `json:"temps" yaml:"temps"`
	Labels int        `json:"labels" yaml:"labels"`
	Jumps  int        `json:"jumps" yaml:"jumps"`
}

// Stats counts instructions per op, distinct temporaries, labels and jumps.
func Stats(instructions []Instruction) Summary {
	summary := Summary{
		Total: len(instructions),
		Ops:   make(map[Op]int),
	}

	temps := make(map[string]struct{})

	for _, inst := range instructions {
		summary.Ops[inst.Op]++

		switch {
		case inst.Op == OpLabel:
			summary.Labels++
		case inst.IsJump():
			summary.Jumps++
		}

		for _, arg := range []Operand{inst.Arg1, inst.Arg2} {
			if arg.Kind == OperandTemp && !arg.IsZero() {
				temps[arg.Text] = struct{}{}
			}
		}

		if inst.Op == OpBinary || inst.Op == OpUnary {
			temps[inst.Dest] = struct{}{}
		}
	}

	summary.Temps = len(temps)

	return summary
}
