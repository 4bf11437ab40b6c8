package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/intermediate"
	"github.com/shibukawa/tacc/markdownparser"
	"github.com/shibukawa/tacc/translator"
)

// CompileCmd represents the compile command
type CompileCmd struct {
	Inputs    []string `arg:"" optional:"" help:"Source files, markdown documents or directories (default: stdin)"`
	Format    string   `short:"f" help:"Output format: text, json, yaml or xml (default: output.format)"`
	Output    string   `short:"o" help:"Output file (default: stdout)"`
	OutputDir string   `short:"d" help:"Write one file per input into this directory (default: output.dir)"`
	Positions bool     `short:"p" help:"Append source positions to text output"`
	Trace     bool     `help:"Print parser rules and matched tokens to stderr"`
	Validate  bool     `help:"Check labels and jump targets of the emitted code"`
	MaxDepth  int      `help:"Nesting limit (default: compiler.max_depth)"`
}

// Run executes the compile command
func (cmd *CompileCmd) Run(ctx *Context) error {
	return cmd.run(ctx, os.Stdin, os.Stdout, os.Stderr)
}

func (cmd *CompileCmd) run(ctx *Context, stdin io.Reader, stdout, stderr io.Writer) error {
	config, err := tacc.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	format := config.OutputFormat()
	if cmd.Format != "" {
		format, err = intermediate.ParseFormat(cmd.Format)
		if err != nil {
			return err
		}
	}

	options := config.CompileOptions()
	if cmd.MaxDepth > 0 {
		options.MaxDepth = cmd.MaxDepth
	}

	if cmd.Trace || config.Compiler.Trace {
		options.Trace = translator.WriterTrace(stderr)
	}

	if cmd.Output != "" && cmd.OutputDir != "" {
		return ErrOutputConflict
	}

	outputDir := cmd.OutputDir
	if outputDir == "" && cmd.Output == "" {
		outputDir = config.Output.Dir
	}

	inputs, err := expandInputs(cmd.Inputs, config)
	if err != nil {
		return err
	}

	if len(inputs) == 0 {
		inputs = []inputFile{{Path: "-"}}
	}

	if len(inputs) > 1 && outputDir == "" {
		return ErrOutputDirRequired
	}

	withPos := cmd.Positions || config.Output.ShowPositions
	validate := cmd.Validate || config.Output.Validate
	failed := 0
	written := make(map[string]string, len(inputs))

	for _, input := range inputs {
		file, err := readSource(input.Path, config.MarkdownOptions(), stdin)
		if err != nil {
			// Documents found while walking a directory need not be programs
			if input.Root != "" && errors.Is(err, markdownparser.ErrMissingSourceSection) {
				if ctx.Verbose {
					color.New(color.FgYellow).Fprintf(stderr, "Skipping %s: no source section\n", input.Path)
				}

				continue
			}

			if input.Root == "" {
				return err
			}

			color.New(color.FgHiRed).Fprintf(stderr, "Error: %v\n", err)

			failed++

			continue
		}

		if ctx.Verbose {
			color.New(color.FgBlue).Fprintf(stderr, "Compiling %s\n", file.Name)
		}

		instructions, err := tacc.CompileWithOptions(file.Source, options)
		if err != nil {
			printCompileError(stderr, file, err)

			failed++

			continue
		}

		if validate {
			if err := intermediate.Validate(instructions); err != nil {
				return fmt.Errorf("%s: %w", file.Name, err)
			}
		}

		var buf bytes.Buffer

		program := &intermediate.Program{Source: file.Source, Instructions: instructions}
		if err := program.Write(&buf, format, withPos); err != nil {
			return fmt.Errorf("failed to render %s: %w", file.Name, err)
		}

		switch {
		case outputDir != "":
			path := filepath.Join(outputDir, outputName(input, file)+format.Extension())
			if previous, ok := written[path]; ok {
				return fmt.Errorf("%w: %s and %s -> %s", ErrOutputCollision, previous, file.Name, path)
			}

			written[path] = file.Name

			if err := writeFile(path, buf.Bytes()); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			if !ctx.Quiet {
				color.New(color.FgGreen).Fprintf(stderr, "Compiled %s -> %s\n", file.Name, path)
			}
		case cmd.Output != "":
			if err := writeFile(cmd.Output, buf.Bytes()); err != nil {
				return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
			}
		default:
			if _, err := stdout.Write(buf.Bytes()); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d inputs", ErrCompilationFailed, failed, len(inputs))
	}

	return nil
}

// outputName keeps the directory layout below a walked root: src/nested/b.tac is nested/b.
func outputName(input inputFile, file sourceFile) string {
	if file.Name == stdinName {
		return "stdin"
	}

	if input.Root != "" {
		if rel, err := filepath.Rel(input.Root, input.Path); err == nil {
			return filepath.Join(filepath.Dir(rel), baseName(rel))
		}
	}

	return baseName(file.Name)
}
