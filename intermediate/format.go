package intermediate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/goccy/go-yaml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported output formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects how a compiled program is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// ParseFormat converts a format name (case-insensitive) into a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML, FormatXML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q (expected text, json, yaml or xml)", ErrUnknownFormat, name)
	}
}

// Extension returns the file extension used when a program is persisted in this format.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".tac.json"
	case FormatYAML:
		return ".tac.yaml"
	case FormatXML:
		return ".tac.xml"
	default:
		return ".tac.txt"
	}
}

// Program is the serialized envelope of one compilation.
type Program struct {
	Source       string        `json:"source,omitempty" yaml:"source,omitempty"`
	Instructions []Instruction `json:"instructions" yaml:"instructions"`
}

// Write writes the program in the given format.
func (p *Program) Write(w io.Writer, format Format, withPos bool) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, p, true)
	case FormatYAML:
		return WriteYAML(w, p)
	case FormatXML:
		return WriteXML(w, p)
	case FormatText, "":
		return WriteText(w, p.Instructions, withPos)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteText writes one rendered instruction per line. When withPos is set the
// source position is appended as a trailing comment.
func WriteText(w io.Writer, instructions []Instruction, withPos bool) error {
	var b strings.Builder

	for _, inst := range instructions {
		line := inst.String()
		if withPos && inst.Pos != "" {
			fmt.Fprintf(&b, "%-24s ; %s\n", line, inst.Pos)
			continue
		}

		b.WriteString(line)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())

	return err
}

// WriteJSON writes the program as JSON to the provided writer
func WriteJSON(w io.Writer, p *Program, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}

	return encoder.Encode(p)
}

// WriteYAML writes the program as YAML to the provided writer
func WriteYAML(w io.Writer, p *Program) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}

	_, err = w.Write(data)

	return err
}

// WriteXML writes the program as an XML document:
//
//	<program>
//	  <source>...</source>
//	  <instruction index="0" op="BINARY" dest="t1" operator="*">
//	    <arg kind="literal">2</arg>
//	    <arg kind="literal">3</arg>
//	  </instruction>
//	</program>
func WriteXML(w io.Writer, p *Program) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("program")
	if p.Source != "" {
		root.CreateElement("source").SetText(p.Source)
	}

	for i, inst := range p.Instructions {
		elem := root.CreateElement("instruction")
		elem.CreateAttr("index", strconv.Itoa(i))
		elem.CreateAttr("op", string(inst.Op))

		if inst.Dest != "" {
			elem.CreateAttr("dest", inst.Dest)
		}

		if inst.Operator != "" {
			elem.CreateAttr("operator", inst.Operator)
		}

		if inst.Label != "" {
			elem.CreateAttr("label", inst.Label)
		}

		if inst.Pos != "" {
			elem.CreateAttr("pos", inst.Pos)
		}

		for _, arg := range []Operand{inst.Arg1, inst.Arg2} {
			if arg.IsZero() {
				continue
			}

			argElem := elem.CreateElement("arg")
			argElem.CreateAttr("kind", arg.Kind.String())
			argElem.SetText(arg.Text)
		}
	}

	doc.Indent(2)

	_, err := doc.WriteTo(w)

	return err
}
