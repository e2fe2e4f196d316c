// Package report renders the outcome of a run as a machine-readable YAML
// document, one entry per scenario: verdict, violations, the destruction
// trace, and the dangling-read findings.
package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Verdict values used in scenario reports.
const (
	VerdictAccepted = "accepted"
	VerdictRejected = "rejected"
	VerdictInvalid  = "invalid" // structurally malformed, never checked
)

// Violation mirrors a validity violation in report form.
type Violation struct {
	Value    string `yaml:"value"`
	Field    string `yaml:"field"`
	Referent string `yaml:"referent"`
	Reason   string `yaml:"reason"`
}

// Finding mirrors one destructor-dereference classification.
type Finding struct {
	Value   string `yaml:"value"`
	Field   string `yaml:"field"`
	Outcome string `yaml:"outcome"`
	Detail  string `yaml:"detail,omitempty"`
}

// Scenario is the report entry for one scenario run.
type Scenario struct {
	Name        string      `yaml:"scenario"`
	Description string      `yaml:"description,omitempty"`
	Source      string      `yaml:"source,omitempty"`
	Verdict     string      `yaml:"verdict"`
	Error       string      `yaml:"error,omitempty"`
	Violations  []Violation `yaml:"violations,omitempty"`
	Trace       []string    `yaml:"trace,omitempty"`
	Findings    []Finding   `yaml:"findings,omitempty"`
}

// Document is the root of the report.
type Document struct {
	Scenarios []*Scenario `yaml:"scenarios"`
}

// Write encodes the document as YAML to w.
func Write(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
