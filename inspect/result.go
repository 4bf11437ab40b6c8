package inspect

import "github.com/shibukawa/tacc/intermediate"

// InspectOptions controls inspect behavior.
type InspectOptions struct {
	Strict   bool // if true, a translation error aborts instead of becoming a note
	Pretty   bool // pretty-print JSON (used by CLI layer)
	MaxDepth int  // nesting limit passed to the translator; zero means the default
}

// Variable summarizes how a user variable is used.
type Variable struct {
	Name        string `json:"name"`
	Declared    bool   `json:"declared"`
	FirstSeen   string `json:"first_seen"` // line:column of the first occurrence
	Assignments int    `json:"assignments"`
	Reads       int    `json:"reads"`
}

// NumberLiteral is a numeric literal as written and in canonical decimal form.
type NumberLiteral struct {
	Text       string `json:"text"`
	Normalized string `json:"normalized"`
	Position   string `json:"position"`
}

// Diagnostic reports a delimiter that has no partner.
type Diagnostic struct {
	Kind      string `json:"kind"` // unmatched|unclosed
	Delimiter string `json:"delimiter"`
	Position  string `json:"position"`
}

// Message renders the diagnostic as one sentence.
func (d Diagnostic) Message() string {
	return d.Kind + " '" + d.Delimiter + "' found at " + d.Position
}

// InspectResult is the JSON-serializable output model.
type InspectResult struct {
	Tokens       int                   `json:"tokens"`
	Variables    []Variable            `json:"variables"`
	Literals     []NumberLiteral       `json:"literals"`
	Instructions *intermediate.Summary `json:"instructions,omitempty"`
	Diagnostics  []Diagnostic          `json:"diagnostics,omitempty"`
	Notes        []string              `json:"notes,omitempty"`
}
