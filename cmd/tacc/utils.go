package main

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/tacc"
	"github.com/shibukawa/tacc/formatter"
	"github.com/shibukawa/tacc/markdownparser"
)

const stdinName = "<stdin>"

// sourceFile is a program read from a file or stdin.
type sourceFile struct {
	Name       string
	Source     string
	LineOffset int // lines above the program inside a markdown document
}

// readSource reads a program. "" and "-" read from stdin; markdown documents
// yield the code block of their source section.
func readSource(path string, options markdownparser.Options, stdin io.Reader) (sourceFile, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return sourceFile{}, fmt.Errorf("failed to read stdin: %w", err)
		}

		return sourceFile{Name: stdinName, Source: string(data)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sourceFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !formatter.IsMarkdownFile(path) {
		return sourceFile{Name: path, Source: string(data)}, nil
	}

	doc, err := markdownparser.ParseWithOptions(bytes.NewReader(data), options)
	if err != nil {
		return sourceFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return sourceFile{Name: path, Source: doc.Source, LineOffset: doc.SourceStartLine - 1}, nil
}

// inputFile is a path named on the command line or found below a directory
// named there. Root is that directory, empty for named files.
type inputFile struct {
	Path string
	Root string
}

// expandInputs replaces directories with the source files below them.
func expandInputs(paths []string, config *tacc.Config) ([]inputFile, error) {
	var files []inputFile

	for _, path := range paths {
		if path == "-" || !isDirectory(path) {
			files = append(files, inputFile{Path: path})
			continue
		}

		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}

				return nil
			}

			if config.HasSourceExtension(p) {
				files = append(files, inputFile{Path: p, Root: path})
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	if len(paths) > 0 && len(files) == 0 {
		return nil, ErrNoSourceFiles
	}

	return files, nil
}

// printCompileError writes "[Syntax Error] file:line:col: message". Lines of
// markdown documents are counted from the top of the document.
func printCompileError(w io.Writer, file sourceFile, err error) {
	location := file.Name
	if pos, ok := tacc.PositionOf(err); ok {
		location = fmt.Sprintf("%s:%d:%d", file.Name, pos.Line+file.LineOffset, pos.Column)
	}

	label := color.New(color.FgHiRed).Sprintf("[%s]", tacc.KindOf(err).Label())
	fmt.Fprintf(w, "%s %s: %v\n", label, location, err)
}

// ensureDir creates a directory if it doesn't exist
func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}

	return nil
}

// writeFile writes content to a file, creating directories if necessary
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return os.WriteFile(path, content, 0o644)
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// isDirectory checks if a path is a directory
func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// baseName strips directories and the first extension: "docs/loop.md" is "loop".
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
