package testrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/markdownparser"
)

// Sentinel errors
var (
	ErrOutputMismatch    = errors.New("compiled output does not match expected")
	ErrUnexpectedSuccess = errors.New("compilation succeeded but an error was expected")
	ErrWrongErrorKind    = errors.New("compilation failed with a different error kind")
	ErrMessageMismatch   = errors.New("error message does not contain expected text")
)

// TestRunner compiles markdown program documents and compares the result with
// the expectations they declare.
type TestRunner struct {
	root           string
	verbose        bool
	runPattern     *regexp.Regexp
	options        markdownparser.Options
	compileOptions tacc.CompileOptions
	out            io.Writer
}

// TestResult represents the result of a single document
type TestResult struct {
	Name     string
	Path     string
	Success  bool
	Skipped  bool // Document declares no expectation
	Duration time.Duration
	Diff     string
	Error    error
}

// TestSummary represents the overall test execution summary
type TestSummary struct {
	Total         int
	Passed        int
	Failed        int
	Skipped       int
	TotalDuration time.Duration
	Results       []TestResult
}

// NewTestRunner creates a new test runner for documents under root
func NewTestRunner(root string) *TestRunner {
	return &TestRunner{
		root:    root,
		options: markdownparser.DefaultOptions(),
		out:     os.Stdout,
	}
}

// SetVerbose enables or disables verbose output
func (tr *TestRunner) SetVerbose(verbose bool) {
	tr.verbose = verbose
}

// SetOutput redirects progress and summary output
func (tr *TestRunner) SetOutput(w io.Writer) {
	tr.out = w
}

// SetMarkdownOptions selects the section headings read from documents
func (tr *TestRunner) SetMarkdownOptions(options markdownparser.Options) {
	tr.options = options
}

// SetCompileOptions sets the options every document is compiled with
func (tr *TestRunner) SetCompileOptions(options tacc.CompileOptions) {
	tr.compileOptions = options
}

// SetRunPattern sets the document name filter pattern
func (tr *TestRunner) SetRunPattern(pattern string) error {
	if pattern == "" {
		tr.runPattern = nil
		return nil
	}

	regex, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid run pattern: %w", err)
	}

	tr.runPattern = regex

	return nil
}

// RunAllTests runs every markdown document under the root
func (tr *TestRunner) RunAllTests(ctx context.Context) (*TestSummary, error) {
	files, err := collectFiles(tr.root, ".md")
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	summary := &TestSummary{
		Results: make([]TestResult, 0, len(files)),
	}

	startTime := time.Now()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := tr.testName(path)
		if tr.runPattern != nil && !tr.runPattern.MatchString(name) {
			continue
		}

		if tr.verbose {
			fmt.Fprintf(tr.out, "=== RUN   %s\n", name)
		}

		result := tr.RunFile(path)
		result.Name = name
		summary.Results = append(summary.Results, result)
		summary.Total++

		switch {
		case result.Skipped:
			summary.Skipped++

			if tr.verbose {
				fmt.Fprintf(tr.out, "--- SKIP: %s (no expectation)\n", name)
			}
		case result.Success:
			summary.Passed++

			if tr.verbose {
				fmt.Fprintf(tr.out, "--- PASS: %s (%.3fs)\n", name, result.Duration.Seconds())
			}
		default:
			summary.Failed++

			if tr.verbose {
				fmt.Fprintf(tr.out, "--- FAIL: %s (%.3fs)\n", name, result.Duration.Seconds())
				tr.printFailure(result)
			}
		}
	}

	summary.TotalDuration = time.Since(startTime)

	return summary, nil
}

// testName is the document path relative to the root without its extension.
func (tr *TestRunner) testName(path string) string {
	rel, err := filepath.Rel(tr.root, path)
	if err != nil || rel == "." {
		rel = filepath.Base(path)
	}

	return strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
}

// RunFile compiles one document and checks it against its expectation
func (tr *TestRunner) RunFile(path string) (result TestResult) {
	startTime := time.Now()
	result = TestResult{Name: filepath.Base(path), Path: path}

	defer func() {
		result.Duration = time.Since(startTime)
	}()

	f, err := os.Open(path)
	if err != nil {
		result.Error = err
		return result
	}
	defer f.Close()

	doc, err := markdownparser.ParseWithOptions(f, tr.options)
	if err != nil {
		result.Error = fmt.Errorf("failed to parse %s: %w", path, err)
		return result
	}

	if !doc.HasExpectation() {
		result.Skipped = true
		result.Success = true

		return result
	}

	result.Diff, result.Error = tr.check(doc)
	result.Success = result.Error == nil

	return result
}

func (tr *TestRunner) check(doc *markdownparser.Document) (string, error) {
	instructions, compileErr := tacc.CompileWithOptions(doc.Source, tr.compileOptions)

	if doc.ExpectedError != nil {
		if compileErr == nil {
			return "", ErrUnexpectedSuccess
		}

		kind := tacc.KindOf(compileErr)
		if string(kind) != doc.ExpectedError.Kind {
			return "", fmt.Errorf("%w: want %s, got %s (%v)", ErrWrongErrorKind, doc.ExpectedError.Kind, kind, compileErr)
		}

		if doc.ExpectedError.Message != "" && !strings.Contains(compileErr.Error(), doc.ExpectedError.Message) {
			return "", fmt.Errorf("%w: %q not in %q", ErrMessageMismatch, doc.ExpectedError.Message, compileErr.Error())
		}

		return "", nil
	}

	if compileErr != nil {
		return "", compileErr
	}

	expected := joinLines(doc.Expected)
	actual := joinLines(intermediate.Render(instructions))

	if expected == actual {
		return "", nil
	}

	return unifiedDiff(expected, actual), ErrOutputMismatch
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	return strings.Join(lines, "\n") + "\n"
}

// unifiedDiff renders a unified diff from expected to actual.
func unifiedDiff(expected, actual string) string {
	edits := myers.ComputeEdits(span.URIFromPath("expected"), expected, actual)
	return fmt.Sprint(gotextdiff.ToUnified("expected", "actual", expected, edits))
}

func (tr *TestRunner) printFailure(result TestResult) {
	if result.Error != nil {
		fmt.Fprintf(tr.out, "    Error: %v\n", result.Error)
	}

	for line := range strings.SplitSeq(strings.TrimRight(result.Diff, "\n"), "\n") {
		if line == "" {
			continue
		}

		fmt.Fprintf(tr.out, "    %s\n", line)
	}
}

// PrintSummary prints the test execution summary
func (tr *TestRunner) PrintSummary(summary *TestSummary) {
	fmt.Fprintf(tr.out, "\n=== Test Summary ===\n")
	fmt.Fprintf(tr.out, "Documents: %d total, %d passed, %d failed, %d skipped\n",
		summary.Total, summary.Passed, summary.Failed, summary.Skipped)
	fmt.Fprintf(tr.out, "Duration: %.3fs\n", summary.TotalDuration.Seconds())

	if summary.Failed > 0 {
		fmt.Fprintf(tr.out, "\nFailed documents:\n")

		for _, result := range summary.Results {
			if !result.Success {
				fmt.Fprintf(tr.out, "  %s\n", result.Name)
				tr.printFailure(result)
			}
		}

		color.New(color.FgRed).Fprintf(tr.out, "\nSome tests failed!\n")

		return
	}

	color.New(color.FgGreen).Fprintf(tr.out, "\nAll tests passed!\n")
}
