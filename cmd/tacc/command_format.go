package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/formatter"
)

// FormatCmd represents the format command
type FormatCmd struct {
	Input string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Write bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff  bool   `short:"d" help:"Show diff instead of rewriting files"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	return cmd.run(ctx, os.Stdin, os.Stdout, os.Stderr)
}

func (cmd *FormatCmd) run(ctx *Context, stdin io.Reader, stdout, stderr io.Writer) error {
	if cmd.Input == "" || cmd.Input == "-" {
		input, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		return cmd.formatContent(string(input), stdinName, stdout, stderr)
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if !info.IsDir() {
		return cmd.formatFile(cmd.Input, stdout, stderr)
	}

	config, err := tacc.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return cmd.formatDirectory(ctx, config, cmd.Input, stdout, stderr)
}

// format formats a program or, for markdown files, its ```tac code blocks.
func (cmd *FormatCmd) format(content, filename string) (string, error) {
	if formatter.IsMarkdownFile(filename) {
		return formatter.NewMarkdownFormatter().Format(content)
	}

	return formatter.NewSourceFormatter().Format(content)
}

// formatContent formats content and writes, checks or diffs it.
func (cmd *FormatCmd) formatContent(content, filename string, stdout, stderr io.Writer) error {
	formatted, err := cmd.format(content, filename)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", filename, err)
	}

	switch {
	case cmd.Check:
		if strings.TrimSpace(content) != strings.TrimSpace(formatted) {
			fmt.Fprintf(stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	case cmd.Diff:
		cmd.showDiff(stdout, content, formatted, filename)
		return nil
	case cmd.Write && filename != stdinName:
		if content == formatted {
			return nil
		}

		return writeFile(filename, []byte(formatted))
	default:
		_, err := io.WriteString(stdout, formatted)
		return err
	}
}

// formatFile formats a single file
func (cmd *FormatCmd) formatFile(filename string, stdout, stderr io.Writer) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	return cmd.formatContent(string(content), filename, stdout, stderr)
}

// formatDirectory formats every source file in a directory recursively
func (cmd *FormatCmd) formatDirectory(ctx *Context, config *tacc.Config, dirPath string, stdout, stderr io.Writer) error {
	var hasErrors bool

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !config.HasSourceExtension(path) {
			return nil
		}

		if err := cmd.formatFile(path, stdout, stderr); err != nil {
			if !errors.Is(err, ErrFileNotFormatted) {
				fmt.Fprintf(stderr, "Error formatting %s: %v\n", path, err)
			}

			hasErrors = true

			return nil
		}

		if cmd.Write && ctx.Verbose {
			fmt.Fprintf(stdout, "Formatted: %s\n", path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	if hasErrors {
		if cmd.Check {
			return ErrFileNotFormatted
		}

		return ErrFormattingErrors
	}

	return nil
}

// showDiff writes a unified diff between original and formatted content
func (cmd *FormatCmd) showDiff(w io.Writer, original, formatted, filename string) {
	if original == formatted {
		return
	}

	edits := myers.ComputeEdits(span.URIFromPath(filename), original, formatted)
	fmt.Fprint(w, gotextdiff.ToUnified(filename+" (original)", filename+" (formatted)", original, edits))
}
