package inspect

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/tacc/intermediate"
)

var opOrder = []intermediate.Op{
	intermediate.OpAssign,
	intermediate.OpBinary,
	intermediate.OpUnary,
	intermediate.OpPrint,
	intermediate.OpLabel,
	intermediate.OpGoto,
	intermediate.OpIfFalseGoto,
}

// WriteText writes a human-readable report. Empty sections are omitted.
func WriteText(w io.Writer, res InspectResult) error {
	caser := cases.Title(language.English)

	var b strings.Builder

	fmt.Fprintf(&b, "Tokens: %d\n", res.Tokens)

	if len(res.Variables) > 0 {
		b.WriteString("\nVariables:\n")

		for _, v := range res.Variables {
			declared := ""
			if v.Declared {
				declared = " (let)"
			}

			fmt.Fprintf(&b, "  %-12s %s  assigned %d, read %d%s\n", v.Name, v.FirstSeen, v.Assignments, v.Reads, declared)
		}
	}

	if len(res.Literals) > 0 {
		b.WriteString("\nLiterals:\n")

		for _, l := range res.Literals {
			if l.Text == l.Normalized {
				fmt.Fprintf(&b, "  %-12s %s\n", l.Text, l.Position)
			} else {
				fmt.Fprintf(&b, "  %-12s %s  = %s\n", l.Text, l.Position, l.Normalized)
			}
		}
	}

	if s := res.Instructions; s != nil {
		fmt.Fprintf(&b, "\nInstructions: %d (temps %d, labels %d, jumps %d)\n", s.Total, s.Temps, s.Labels, s.Jumps)

		for _, op := range opOrder {
			if count := s.Ops[op]; count > 0 {
				name := caser.String(strings.ReplaceAll(string(op), "_", " "))
				fmt.Fprintf(&b, "  %-14s %d\n", name, count)
			}
		}
	}

	if len(res.Diagnostics) > 0 {
		b.WriteString("\nDiagnostics:\n")

		for _, d := range res.Diagnostics {
			fmt.Fprintf(&b, "  %s\n", d.Message())
		}
	}

	if len(res.Notes) > 0 {
		b.WriteString("\nNotes:\n")

		for _, n := range res.Notes {
			fmt.Fprintf(&b, "  %s\n", n)
		}
	}

	_, err := io.WriteString(w, b.String())

	return err
}
