package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	sourceBlockStartRe = regexp.MustCompile("^(\\s*)```tac\\s*$")
	codeBlockEndRe     = regexp.MustCompile("^(\\s*)```\\s*$")
)

// MarkdownFormatter formats tac code blocks within Markdown files
type MarkdownFormatter struct {
	sourceFormatter *SourceFormatter
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{
		sourceFormatter: NewSourceFormatter(),
	}
}

// Format formats every ```tac code block within a Markdown document.
// A block that does not tokenize is left as written.
func (f *MarkdownFormatter) Format(markdown string) (string, error) {
	var (
		result       strings.Builder
		inBlock      bool
		blockContent strings.Builder
		blockIndent  string
	)

	scanner := bufio.NewScanner(strings.NewReader(markdown))

	for scanner.Scan() {
		line := scanner.Text()

		if !inBlock {
			if match := sourceBlockStartRe.FindStringSubmatch(line); match != nil {
				inBlock = true
				blockIndent = match[1]
				blockContent.Reset()
			}

			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		if codeBlockEndRe.MatchString(line) {
			inBlock = false

			formatted, err := f.sourceFormatter.Format(blockContent.String())
			if err != nil {
				formatted = blockContent.String()
			}

			if strings.TrimSpace(formatted) != "" {
				for _, sourceLine := range strings.Split(strings.TrimRight(formatted, "\n"), "\n") {
					if strings.TrimSpace(sourceLine) != "" {
						result.WriteString(blockIndent)
						result.WriteString(sourceLine)
					}

					result.WriteString("\n")
				}
			}

			result.WriteString(line)
			result.WriteString("\n")

			continue
		}

		blockContent.WriteString(strings.TrimPrefix(line, blockIndent))
		blockContent.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	if inBlock {
		// Unterminated block: emit what was collected unchanged.
		result.WriteString(blockContent.String())
	}

	return result.String(), nil
}

// FormatFromReader formats tac code blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := f.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	_, err = io.WriteString(writer, formatted)

	return err
}

// IsMarkdownFile checks if a file is a Markdown file based on its extension
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}
