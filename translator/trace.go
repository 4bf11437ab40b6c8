package translator

import (
	"fmt"
	"io"

	"github.com/shibukawa/tacc/tokenizer"
)

// TraceKind distinguishes trace events.
type TraceKind int

const (
	// TraceEnter is reported when a grammar rule starts.
	TraceEnter TraceKind = iota
	// TraceMatch is reported when a token is consumed.
	TraceMatch
)

func (k TraceKind) String() string {
	switch k {
	case TraceEnter:
		return "parse"
	case TraceMatch:
		return "match"
	default:
		return "unknown"
	}
}

// TraceEvent is one step of the recursive descent.
type TraceEvent struct {
	Kind  TraceKind
	Rule  string
	Token tokenizer.Token
	Depth int
}

func (e TraceEvent) String() string {
	if e.Kind == TraceMatch {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Token)
	}

	return fmt.Sprintf("[%s] %s", e.Kind, e.Rule)
}

// TraceFunc receives trace events during translation.
type TraceFunc func(TraceEvent)

// WriterTrace returns a TraceFunc that writes one indented line per event.
func WriterTrace(w io.Writer) TraceFunc {
	return func(event TraceEvent) {
		fmt.Fprintf(w, "%*s%s\n", event.Depth*2, "", event)
	}
}
