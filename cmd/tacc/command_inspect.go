package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/inspect"
)

// InspectCmd represents the inspect command
type InspectCmd struct {
	Input  string `arg:"" optional:"" help:"Source file or markdown document (default: stdin)"`
	Format string `short:"f" help:"Output format: text, json or csv" default:"text" enum:"text,json,csv"`
	Strict bool   `help:"Fail when the program does not translate"`
	Pretty bool   `help:"Indent JSON output"`
	Header bool   `help:"Write a header row in CSV output" default:"true" negatable:""`
}

// Run executes the inspect command
func (cmd *InspectCmd) Run(ctx *Context) error {
	return cmd.run(ctx, os.Stdin, os.Stdout, os.Stderr)
}

func (cmd *InspectCmd) run(ctx *Context, stdin io.Reader, stdout, stderr io.Writer) error {
	config, err := tacc.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	file, err := readSource(cmd.Input, config.MarkdownOptions(), stdin)
	if err != nil {
		return err
	}

	opt := inspect.InspectOptions{
		Strict:   cmd.Strict,
		Pretty:   cmd.Pretty,
		MaxDepth: config.Compiler.MaxDepth,
	}

	res, err := inspect.Inspect(strings.NewReader(file.Source), opt)
	if err != nil {
		if tacc.IsCompileError(err) {
			printCompileError(stderr, file, err)
			return ErrCompilationFailed
		}

		return err
	}

	switch cmd.Format {
	case "json":
		encoder := json.NewEncoder(stdout)
		if opt.Pretty {
			encoder.SetIndent("", "  ")
		}

		return encoder.Encode(res)
	case "csv":
		data, err := inspect.FindingsCSV(res, cmd.Header)
		if err != nil {
			return err
		}

		_, err = stdout.Write(data)

		return err
	case "text", "":
		return inspect.WriteText(stdout, res)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownInspectFmt, cmd.Format)
	}
}
