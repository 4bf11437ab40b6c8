package markdownparser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

const fence = "```"

func TestParseBasic(t *testing.T) {
	input := `---
author: "compiler team"
tags: [arithmetic]
---

# Operator precedence

Multiplication binds tighter than addition.

## Source

` + fence + `tac
let x = 1 + 2 * 3;
print(x);
` + fence + `

## Expected

` + fence + `
t1 = 2 * 3
t2 = 1 + t1
x = t2
print(x)
` + fence + `
`

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)

	assert.Equal(t, "Operator precedence", doc.Title)
	assert.Equal(t, "compiler team", doc.Metadata["author"])
	assert.Equal(t, "let x = 1 + 2 * 3;\nprint(x);", doc.Source)
	assert.Equal(t, 13, doc.SourceStartLine)
	assert.Equal(t, []string{"t1 = 2 * 3", "t2 = 1 + t1", "x = t2", "print(x)"}, doc.Expected)
	assert.Zero(t, doc.ExpectedError)
	assert.True(t, doc.HasExpectation())
}

func TestParseWithoutFrontMatter(t *testing.T) {
	input := "# Loop\n\n## Source\n\n" + fence + "\nwhile (x) { x = x - 1; }\n" + fence + "\n"

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)

	assert.Equal(t, "Loop", doc.Title)
	assert.Equal(t, "while (x) { x = x - 1; }", doc.Source)
	assert.Equal(t, 6, doc.SourceStartLine)
	assert.Zero(t, doc.Expected)
	assert.False(t, doc.HasExpectation())
}

func TestParseExpectedError(t *testing.T) {
	tests := []struct {
		name     string
		block    string
		expected *ExpectedError
		wantErr  error
	}{
		{
			name:     "kind only",
			block:    "lex",
			expected: &ExpectedError{Kind: ErrorKindLex},
		},
		{
			name:     "kind and message",
			block:    "Parse\nexpected factor",
			expected: &ExpectedError{Kind: ErrorKindParse, Message: "expected factor"},
		},
		{
			name:    "unknown kind",
			block:   "semantic",
			wantErr: ErrInvalidExpectedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "## Source\n\n" + fence + "\nlet x = ;\n" + fence + "\n\n## Expected Error\n\n" + fence + "\n" + tt.block + "\n" + fence + "\n"

			doc, err := Parse(strings.NewReader(input))
			if tt.wantErr != nil {
				assert.IsError(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, doc.ExpectedError)
		})
	}
}

func TestParseEmptyExpectedBlock(t *testing.T) {
	input := "## Source\n\n" + fence + "\n\n" + fence + "\n\n## Expected\n\n" + fence + "\n" + fence + "\n"

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, "", doc.Source)
	assert.NotZero(t, doc.Expected)
	assert.Equal(t, 0, len(doc.Expected))
}

func TestParseFrontMatterDelimitersWithTrailingBlanks(t *testing.T) {
	input := "--- \nauthor: team\n---\t\n## Source\n\n" + fence + "tac\nprint(1);\n" + fence + "\n"

	doc, err := Parse(strings.NewReader(input))
	assert.NoError(t, err)

	assert.Equal[any](t, "team", doc.Metadata["author"])
	assert.Equal(t, "print(1);", doc.Source)
	assert.Equal(t, 7, doc.SourceStartLine)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "missing source section",
			input:   "# Title\n\n## Expected\n\n" + fence + "\nx = 1\n" + fence + "\n",
			wantErr: ErrMissingSourceSection,
		},
		{
			name:    "source section without code block",
			input:   "## Source\n\nJust prose.\n",
			wantErr: ErrMissingSourceSection,
		},
		{
			name:    "unterminated front matter",
			input:   "---\ntitle: broken\n",
			wantErr: ErrInvalidFrontMatter,
		},
		{
			name:    "invalid front matter yaml",
			input:   "---\ntitle: [unclosed\n---\n## Source\n\n" + fence + "\nx = 1;\n" + fence + "\n",
			wantErr: ErrInvalidFrontMatter,
		},
		{
			name: "both expectations",
			input: "## Source\n\n" + fence + "\nx = 1;\n" + fence + "\n\n## Expected\n\n" + fence + "\nx = 1\n" + fence +
				"\n\n## Expected Error\n\n" + fence + "\nparse\n" + fence + "\n",
			wantErr: ErrConflictingExpectation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.IsError(t, err, tt.wantErr)
		})
	}
}

func TestParseWithCustomSections(t *testing.T) {
	input := "# Doc\n\n## Program\n\n" + fence + "\nprint(1);\n" + fence + "\n\n## Output\n\n" + fence + "\nprint(1)\n" + fence + "\n"

	doc, err := ParseWithOptions(strings.NewReader(input), Options{
		SourceSections:   []string{"Code", "Program"},
		ExpectedSections: []string{"output"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "print(1);", doc.Source)
	assert.Equal(t, []string{"print(1)"}, doc.Expected)
}
