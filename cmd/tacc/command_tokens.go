package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/tokenizer"
)

// TokensCmd represents the tokens command
type TokensCmd struct {
	Input string `arg:"" optional:"" help:"Source file or markdown document (default: stdin)"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	return cmd.run(ctx, os.Stdin, os.Stdout, os.Stderr)
}

// run prints one token per line until the end of input or the first lexical error.
func (cmd *TokensCmd) run(ctx *Context, stdin io.Reader, stdout, stderr io.Writer) error {
	config, err := tacc.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	file, err := readSource(cmd.Input, config.MarkdownOptions(), stdin)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)

	for token, err := range tokenizer.NewTokenizer(file.Source).Tokens() {
		if err != nil {
			_ = w.Flush()

			printCompileError(stderr, file, err)

			return ErrCompilationFailed
		}

		pos := token.Position
		fmt.Fprintf(w, "%d:%d\t%s\t%s\n", pos.Line+file.LineOffset, pos.Column, token.Type, token.Value)
	}

	return w.Flush()
}
