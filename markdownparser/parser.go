package markdownparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter     = errors.New("invalid front matter")
	ErrMissingSourceSection   = errors.New("missing source section")
	ErrConflictingExpectation = errors.New("document declares both expected output and expected error")
	ErrInvalidExpectedError   = errors.New("invalid expected error")
)

// Error kinds accepted in an expected error block.
const (
	ErrorKindLex   = "lex"
	ErrorKindParse = "parse"
	ErrorKindDepth = "depth"
)

// Document is a markdown program document: a source listing, optionally with the
// three-address code it must compile to, or the error it must fail with.
type Document struct {
	Metadata        map[string]any
	Title           string
	Source          string
	SourceStartLine int      // Line number where the source code block starts
	Expected        []string // nil when the document has no expected section
	ExpectedError   *ExpectedError
}

// HasExpectation reports whether the document states an expected result.
func (d *Document) HasExpectation() bool {
	return d.Expected != nil || d.ExpectedError != nil
}

// ExpectedError describes the compile error a document must produce.
type ExpectedError struct {
	Kind    string // lex, parse or depth
	Message string // optional substring of the error message
}

// Section represents a markdown section with AST nodes
type Section struct {
	Heading     ast.Node   // The heading node
	HeadingText string     // Extracted heading text
	StartLine   int        // Line number where section starts
	Content     []ast.Node // All nodes between this heading and the next
}

// Options selects the section headings (case-insensitive) that hold each part.
type Options struct {
	SourceSections        []string
	ExpectedSections      []string
	ExpectedErrorSections []string
}

// DefaultOptions returns the headings "Source", "Expected" and "Expected Error".
func DefaultOptions() Options {
	return Options{
		SourceSections:        []string{"Source"},
		ExpectedSections:      []string{"Expected"},
		ExpectedErrorSections: []string{"Expected Error"},
	}
}

// Parse parses a markdown program document with the default section headings.
func Parse(reader io.Reader) (*Document, error) {
	return ParseWithOptions(reader, DefaultOptions())
}

// ParseWithOptions parses a markdown program document.
func ParseWithOptions(reader io.Reader, opts Options) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	frontMatter, body, fmLines, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	source := []byte(body)

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)

	doc := md.Parser().Parse(text.NewReader(source))

	title, sections := extractSectionsFromAST(doc, source)

	document := &Document{
		Metadata: frontMatter,
		Title:    title,
	}

	if title == "" {
		if t, ok := frontMatter["title"].(string); ok {
			document.Title = t
		}
	}

	sourceSection, ok := findSection(sections, opts.SourceSections)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingSourceSection, strings.Join(opts.SourceSections, " or "))
	}

	code, startLine, ok := extractFirstCodeBlock(sourceSection.Content, source)
	if !ok {
		return nil, fmt.Errorf("%w: section %q has no code block", ErrMissingSourceSection, sourceSection.HeadingText)
	}

	document.Source = code

	document.SourceStartLine = startLine
	if fmLines > 0 {
		// The body starts on the closing delimiter line
		document.SourceStartLine += fmLines - 1
	}

	if section, ok := findSection(sections, opts.ExpectedSections); ok {
		expected, _, _ := extractFirstCodeBlock(section.Content, source)
		document.Expected = splitLines(expected)
	}

	if section, ok := findSection(sections, opts.ExpectedErrorSections); ok {
		block, _, _ := extractFirstCodeBlock(section.Content, source)

		expectedErr, err := parseExpectedError(block)
		if err != nil {
			return nil, err
		}

		document.ExpectedError = expectedErr
	}

	if document.Expected != nil && document.ExpectedError != nil {
		return nil, ErrConflictingExpectation
	}

	return document, nil
}

// extractSectionsFromAST extracts sections from markdown AST. The first level-1
// heading is the title; every other heading opens a section.
func extractSectionsFromAST(doc ast.Node, content []byte) (string, map[string]Section) {
	sections := make(map[string]Section)

	var (
		title          string
		currentSection *Section
		currentNodes   []ast.Node
	)

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok {
			if currentSection != nil {
				currentNodes = append(currentNodes, node)
			}

			continue
		}

		// Save previous section if exists
		if currentSection != nil {
			currentSection.Content = currentNodes
			sections[strings.ToLower(currentSection.HeadingText)] = *currentSection
		}

		headingText := extractTextFromHeadingNode(heading, content)

		if heading.Level == 1 && title == "" {
			title = headingText
			currentSection = nil
			currentNodes = nil

			continue
		}

		currentSection = &Section{
			Heading:     heading,
			HeadingText: headingText,
			StartLine:   nodeLine(heading, content),
		}
		currentNodes = make([]ast.Node, 0)
	}

	if currentSection != nil {
		currentSection.Content = currentNodes
		sections[strings.ToLower(currentSection.HeadingText)] = *currentSection
	}

	return title, sections
}

func findSection(sections map[string]Section, names []string) (Section, bool) {
	for _, name := range names {
		if section, ok := sections[strings.ToLower(strings.TrimSpace(name))]; ok {
			return section, true
		}
	}

	return Section{}, false
}

func extractTextFromHeadingNode(heading ast.Node, content []byte) string {
	var result strings.Builder

	// Walk through heading children to extract text
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(segment.Value(content))
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// nodeLine returns the 1-based line of the first line of a block node.
func nodeLine(node ast.Node, content []byte) int {
	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}

	return bytes.Count(content[:lines.At(0).Start], []byte("\n")) + 1
}

// extractFirstCodeBlock returns the first fenced or indented code block of a section
// with the line its content starts on.
func extractFirstCodeBlock(nodes []ast.Node, content []byte) (string, int, bool) {
	for _, node := range nodes {
		switch node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			return extractCodeBlockContent(node, content), nodeLine(node, content), true
		}
	}

	return "", 0, false
}

func extractCodeBlockContent(codeBlock ast.Node, content []byte) string {
	var result strings.Builder

	lines := codeBlock.Lines()
	for i := range lines.Len() {
		line := lines.At(i)
		result.Write(line.Value(content))
	}

	return strings.TrimRight(result.String(), "\n")
}

// splitLines splits a code block into trimmed, non-empty lines. An empty block yields
// an empty, non-nil slice: the program is expected to compile to nothing.
func splitLines(block string) []string {
	lines := make([]string, 0, strings.Count(block, "\n")+1)

	for line := range strings.SplitSeq(block, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}

// parseExpectedError reads "kind" on the first line and an optional message on the next.
func parseExpectedError(block string) (*ExpectedError, error) {
	lines := splitLines(block)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty block", ErrInvalidExpectedError)
	}

	kind := strings.ToLower(lines[0])
	switch kind {
	case ErrorKindLex, ErrorKindParse, ErrorKindDepth:
	default:
		return nil, fmt.Errorf("%w: unknown kind %q (expected lex, parse or depth)", ErrInvalidExpectedError, lines[0])
	}

	expected := &ExpectedError{Kind: kind}
	if len(lines) > 1 {
		expected.Message = strings.Join(lines[1:], " ")
	}

	return expected, nil
}
