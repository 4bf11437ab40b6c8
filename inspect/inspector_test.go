package inspect

import (
	"errors"
	"strings"
	"testing"

	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/tokenizer"
	"github.com/shibukawa/tacc/translator"
)

const loopProgram = "let x = 1e3;\nwhile (x > 0) { x = x - 1.50; }\nprint(y);"

func TestInspect_Loop(t *testing.T) {
	got, err := Inspect(strings.NewReader(loopProgram), InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if got.Tokens != 24 {
		t.Fatalf("tokens = %d, want %d", got.Tokens, 24)
	}

	if len(got.Variables) != 2 {
		t.Fatalf("variables len = %d, want %d", len(got.Variables), 2)
	}

	x := got.Variables[0]
	if x.Name != "x" || !x.Declared || x.FirstSeen != "1:5" || x.Assignments != 2 || x.Reads != 2 {
		t.Fatalf("variables[0] = %+v, want x declared at 1:5 with 2 assignments and 2 reads", x)
	}

	y := got.Variables[1]
	if y.Name != "y" || y.Declared || y.Assignments != 0 || y.Reads != 1 {
		t.Fatalf("variables[1] = %+v, want y read once and never assigned", y)
	}

	wantLiterals := []NumberLiteral{
		{Text: "1e3", Normalized: "1000", Position: "1:9"},
		{Text: "0", Normalized: "0", Position: "2:12"},
		{Text: "1.50", Normalized: "1.5", Position: "2:25"},
	}
	if len(got.Literals) != len(wantLiterals) {
		t.Fatalf("literals = %+v, want %+v", got.Literals, wantLiterals)
	}

	for i, want := range wantLiterals {
		if got.Literals[i] != want {
			t.Fatalf("literals[%d] = %+v, want %+v", i, got.Literals[i], want)
		}
	}

	if got.Instructions == nil {
		t.Fatalf("instructions summary missing")
	}

	s := got.Instructions
	if s.Total != 9 || s.Temps != 2 || s.Labels != 2 || s.Jumps != 2 {
		t.Fatalf("summary = %+v, want 9 instructions, 2 temps, 2 labels, 2 jumps", *s)
	}

	if s.Ops[intermediate.OpAssign] != 2 || s.Ops[intermediate.OpBinary] != 2 || s.Ops[intermediate.OpPrint] != 1 {
		t.Fatalf("ops = %v", s.Ops)
	}

	if len(got.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %+v, want none", got.Diagnostics)
	}

	if len(got.Notes) != 1 || got.Notes[0] != "variable y is read but never assigned" {
		t.Fatalf("notes = %q", got.Notes)
	}
}

func TestInspect_Delimiters(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []Diagnostic
	}{
		{
			name:   "balanced",
			source: "if (a) { print((a)); }",
		},
		{
			name:   "stray closing brace",
			source: "}",
			want:   []Diagnostic{{Kind: "unmatched", Delimiter: "}", Position: "1:1"}},
		},
		{
			name:   "unclosed paren",
			source: "print((1);",
			want:   []Diagnostic{{Kind: "unclosed", Delimiter: "(", Position: "1:6"}},
		},
		{
			name:   "crossed delimiters",
			source: "{ ) }",
			want:   []Diagnostic{{Kind: "unmatched", Delimiter: ")", Position: "1:3"}},
		},
		{
			name:   "unclosed block on second line",
			source: "while (x) {\n  x = 0;",
			want:   []Diagnostic{{Kind: "unclosed", Delimiter: "{", Position: "1:11"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inspect(strings.NewReader(tt.source), InspectOptions{})
			if err != nil {
				t.Fatalf("Inspect returned error: %v", err)
			}

			if len(got.Diagnostics) != len(tt.want) {
				t.Fatalf("diagnostics = %+v, want %+v", got.Diagnostics, tt.want)
			}

			for i, want := range tt.want {
				if got.Diagnostics[i] != want {
					t.Fatalf("diagnostics[%d] = %+v, want %+v", i, got.Diagnostics[i], want)
				}
			}
		})
	}
}

func TestInspect_TranslationErrorBecomesNote(t *testing.T) {
	got, err := Inspect(strings.NewReader("let x = ;"), InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if got.Instructions != nil {
		t.Fatalf("instructions = %+v, want nil", *got.Instructions)
	}

	if len(got.Notes) == 0 || !strings.HasPrefix(got.Notes[0], "not translated: syntax error: expected factor") {
		t.Fatalf("notes = %q", got.Notes)
	}
}

func TestInspect_StrictReturnsTranslationError(t *testing.T) {
	_, err := Inspect(strings.NewReader("let x = ;"), InspectOptions{Strict: true})

	var parseErr *translator.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *translator.ParseError", err)
	}
}

func TestInspect_MaxDepth(t *testing.T) {
	_, err := Inspect(strings.NewReader("print((((1))));"), InspectOptions{Strict: true, MaxDepth: 2})
	if !errors.Is(err, translator.ErrNestingTooDeep) {
		t.Fatalf("err = %v, want ErrNestingTooDeep", err)
	}
}

func TestInspect_LexErrorIsAlwaysReturned(t *testing.T) {
	_, err := Inspect(strings.NewReader("let x = @;"), InspectOptions{})

	var lexErr *tokenizer.LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("err = %v, want *tokenizer.LexError", err)
	}

	if lexErr.Char != '@' {
		t.Fatalf("char = %q, want '@'", lexErr.Char)
	}
}

func TestFindingsCSV(t *testing.T) {
	res, err := Inspect(strings.NewReader(loopProgram), InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	out, err := FindingsCSV(res, true)
	if err != nil {
		t.Fatalf("FindingsCSV returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if lines[0] != "kind,name,detail,position" {
		t.Fatalf("header = %q", lines[0])
	}

	want := []string{
		"variable,x,assignments=2 reads=2 declared=true,1:5",
		"literal,1e3,1000,1:9",
		"note,,variable y is read but never assigned,",
	}
	for _, w := range want {
		if !strings.Contains(string(out), w+"\n") {
			t.Fatalf("csv missing row %q:\n%s", w, out)
		}
	}

	out, err = FindingsCSV(InspectResult{}, false)
	if err != nil || len(out) != 0 {
		t.Fatalf("empty result = %q, %v; want no rows", out, err)
	}
}

func TestWriteText(t *testing.T) {
	res, err := Inspect(strings.NewReader(loopProgram+"\n}"), InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	var b strings.Builder
	if err := WriteText(&b, res); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}

	got := b.String()

	for _, want := range []string{
		"Tokens: 25\n",
		"\nVariables:\n",
		"1e3",
		"= 1000",
		"\nDiagnostics:\n  unmatched '}' found at 4:1\n",
		"\nNotes:\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}

	// The stray brace ends translation without failing it
	if !strings.Contains(got, "\nInstructions: 9 (temps 2, labels 2, jumps 2)\n") {
		t.Fatalf("report missing instruction summary:\n%s", got)
	}
}

func TestWriteTextOpNames(t *testing.T) {
	res, err := Inspect(strings.NewReader("while (x) { x = -x; }"), InspectOptions{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	var b strings.Builder
	if err := WriteText(&b, res); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}

	for _, want := range []string{"If False Goto", "Unary", "Goto", "Label"} {
		if !strings.Contains(b.String(), want) {
			t.Fatalf("report missing %q:\n%s", want, b.String())
		}
	}
}
