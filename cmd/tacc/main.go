package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/testrunner"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
}

// TestCmd represents the test command
type TestCmd struct {
	Dir        string `arg:"" optional:"" help:"Directory or markdown document to test (default: test.dir from config)"`
	RunPattern string `help:"Run only documents matching the regular expression" short:"r" name:"run"`
}

// Run executes the test command
func (cmd *TestCmd) Run(ctx *Context) error {
	config, err := tacc.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := cmd.Dir
	if dir == "" {
		dir = config.Test.Dir
	}

	runner := testrunner.NewTestRunner(dir)
	runner.SetVerbose(ctx.Verbose)
	runner.SetMarkdownOptions(config.MarkdownOptions())
	runner.SetCompileOptions(config.CompileOptions())

	if err := runner.SetRunPattern(cmd.RunPattern); err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Running documents in %s", dir)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := runner.RunAllTests(runCtx)
	if err != nil {
		return fmt.Errorf("test execution failed: %w", err)
	}

	if !ctx.Quiet {
		runner.PrintSummary(summary)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrTestsFailed, summary.Failed, summary.Total)
	}

	return nil
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"tacc.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Compile CompileCmd `cmd:"" help:"Compile programs to three-address code"`
	Tokens  TokensCmd  `cmd:"" help:"Print the token stream of a program"`
	Inspect InspectCmd `cmd:"" help:"Summarize variables, literals and instructions of a program"`
	Format  FormatCmd  `cmd:"" help:"Format program and markdown files"`
	Test    TestCmd    `cmd:"" help:"Run markdown golden documents"`
	Init    InitCmd    `cmd:"" help:"Write a default configuration file"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run() error {
	fmt.Println("tacc v0.1.0")
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tacc"),
		kong.Description("Three-address code compiler for a small imperative language"),
	)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
