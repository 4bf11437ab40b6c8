package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/shibukawa/tacc"
)

const sampleDocument = "# Countdown\n\n" +
	"Prints 3, 2 and 1.\n\n" +
	"## Source\n\n" +
	"```tac\n" +
	"let n = 3;\n" +
	"while (n > 0) {\n" +
	"    print(n);\n" +
	"    n = n - 1;\n" +
	"}\n" +
	"```\n\n" +
	"## Expected\n\n" +
	"```\n" +
	"n = 3\n" +
	"L1:\n" +
	"t1 = n > 0\n" +
	"if_false t1 goto L2\n" +
	"print(n)\n" +
	"t2 = n - 1\n" +
	"n = t2\n" +
	"goto L1\n" +
	"L2:\n" +
	"```\n"

// InitCmd represents the init command
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

// Run executes the init command
func (i *InitCmd) Run(ctx *Context) error {
	return i.run(ctx, os.Stdout)
}

func (i *InitCmd) run(ctx *Context, stdout io.Writer) error {
	if fileExists(ctx.Config) && !i.Force {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	config := tacc.DefaultConfig()

	data, err := config.Marshal()
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}

	if err := writeFile(ctx.Config, data); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}

	if ctx.Verbose {
		color.New(color.FgGreen).Fprintf(stdout, "Created %s\n", ctx.Config)
	}

	sample := filepath.Join(filepath.Dir(ctx.Config), config.Test.Dir, "countdown.md")
	if !fileExists(sample) {
		if err := writeFile(sample, []byte(sampleDocument)); err != nil {
			return fmt.Errorf("failed to create sample document: %w", err)
		}

		if ctx.Verbose {
			color.New(color.FgGreen).Fprintf(stdout, "Created %s\n", sample)
		}
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintln(stdout, "tacc project initialized successfully")
		fmt.Fprintln(stdout, "\nNext steps:")
		fmt.Fprintf(stdout, "1. Edit %s to adjust compiler and output settings\n", ctx.Config)
		fmt.Fprintf(stdout, "2. Add markdown documents to %s\n", config.Test.Dir)
		fmt.Fprintln(stdout, "3. Run 'tacc test' to check them")
	}

	return nil
}
