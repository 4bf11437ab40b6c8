package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/tacc/tokenizer"
)

func TestSourceFormatter_Format(t *testing.T) {
	formatter := NewSourceFormatter()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Statements on one line",
			input:    `let x=1+2*3;print(x);`,
			expected: "let x = 1 + 2 * 3;\nprint(x);\n",
		},
		{
			name:  "If with else",
			input: `if(a<b){print(a);}else{print(b);}`,
			expected: `if (a < b) {
    print(a);
} else {
    print(b);
}
`,
		},
		{
			name:  "While with not and unary minus",
			input: `while(not(x==1)and y){x=-x;}`,
			expected: `while (not (x == 1) and y) {
    x = -x;
}
`,
		},
		{
			name:  "Nested blocks",
			input: `while(x){if(x){x=x-1;}}`,
			expected: `while (x) {
    if (x) {
        x = x - 1;
    }
}
`,
		},
		{
			name:     "Binary and unary minus together",
			input:    `print(-(1)- -2);`,
			expected: "print(-(1) - -2);\n",
		},
		{
			name:     "Statement split across lines",
			input:    "let x =\n  1 +\n  2;",
			expected: "let x = 1 + 2;\n",
		},
		{
			name:     "Blank lines collapse to one",
			input:    "let a = 1;\n\n\n\nlet b = 2;",
			expected: "let a = 1;\n\nlet b = 2;\n",
		},
		{
			name:     "No blank lines inside block edges",
			input:    "if (a) {\n\n  x = 1;\n\n}",
			expected: "if (a) {\n    x = 1;\n}\n",
		},
		{
			name:     "Empty block",
			input:    "while (true) {}",
			expected: "while (true) {\n}\n",
		},
		{
			name:     "Empty input",
			input:    "  \n\t",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := formatter.Format(tt.input)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result)

			again, err := formatter.Format(result)
			assert.NoError(t, err)
			assert.Equal(t, result, again, "formatting must be idempotent")
		})
	}
}

func TestSourceFormatter_UnbalancedBraces(t *testing.T) {
	formatter := NewSourceFormatter()

	result, err := formatter.Format("} print(1);")
	assert.NoError(t, err)
	assert.Equal(t, "}\nprint(1);\n", result)
}

func TestSourceFormatter_LexError(t *testing.T) {
	formatter := NewSourceFormatter()

	_, err := formatter.Format("let x = 1 @ 2;")
	assert.IsError(t, err, tokenizer.ErrUnexpectedCharacter)
	assert.Contains(t, err.Error(), "failed to tokenize source")
}

func BenchmarkSourceFormatter_Format(t *testing.B) {
	formatter := NewSourceFormatter()
	source := `let n=10;let a=0;let b=1;while(n>0){let t=a+b;a=b;b=t;n=n-1;if(a>100 and not(b<0)){print(a);}else{print(-b);}}`

	for t.Loop() {
		_, _ = formatter.Format(source)
	}
}
