package main

import "errors"

// Sentinel errors for command operations
var (
	ErrCompilationFailed = errors.New("compilation failed")
	ErrOutputDirRequired = errors.New("several inputs need --output-dir or output.dir")
	ErrOutputConflict    = errors.New("--output and --output-dir are mutually exclusive")
	ErrOutputCollision   = errors.New("inputs map to the same output file")
	ErrFileNotFormatted  = errors.New("file is not formatted")
	ErrFormattingErrors  = errors.New("some files had formatting errors")
	ErrTestsFailed       = errors.New("tests failed")
	ErrConfigExists      = errors.New("configuration file already exists")
	ErrUnknownInspectFmt = errors.New("unknown inspect format")
	ErrNoSourceFiles     = errors.New("no source files found")
)
