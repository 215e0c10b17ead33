// Package report assembles the structural and semantic outcomes for one
// document into the shape the CLI and MCP surfaces present, applying any
// configured rule overrides on the way.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/warmautomation/aef/internal/config"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/semantic"
)

// Report is the complete validation outcome for one document.
type Report struct {
	File     string               `json:"file,omitempty"`
	Lines    int                  `json:"lines"`
	Entries  int                  `json:"entries"`
	Rejected []logio.RejectedLine `json:"rejected,omitempty"`
	Semantic semantic.Result      `json:"semantic"`
}

// Build merges a read document with its semantic result and applies rule
// overrides. The semantic result passed in is never mutated.
func Build(file string, doc *logio.Document, res semantic.Result, rules config.RulesConfig) *Report {
	return &Report{
		File:     file,
		Lines:    doc.Lines,
		Entries:  len(doc.Entries),
		Rejected: doc.Rejected,
		Semantic: applyRules(res, rules),
	}
}

// Clean reports whether the document passed both validation stages.
func (r *Report) Clean() bool {
	return len(r.Rejected) == 0 && r.Semantic.Valid
}

// applyRules drops ignored rules and promotes configured warnings into
// errors, recomputing Valid afterwards.
func applyRules(res semantic.Result, rules config.RulesConfig) semantic.Result {
	ignore := toSet(rules.Ignore)
	promote := toSet(rules.Promote)
	if len(ignore) == 0 && len(promote) == 0 {
		return res
	}

	out := semantic.Result{Errors: []semantic.Violation{}, Warnings: []semantic.Violation{}}
	for _, v := range res.Errors {
		if !ignore[v.Rule] {
			out.Errors = append(out.Errors, v)
		}
	}
	for _, v := range res.Warnings {
		switch {
		case ignore[v.Rule]:
		case promote[v.Rule]:
			out.Errors = append(out.Errors, v)
		default:
			out.Warnings = append(out.Warnings, v)
		}
	}
	out.Valid = len(out.Errors) == 0
	return out
}

func toSet(rules []string) map[string]bool {
	if len(rules) == 0 {
		return nil
	}
	set := make(map[string]bool, len(rules))
	for _, r := range rules {
		set[r] = true
	}
	return set
}

// FormatText renders a report as human-readable text.
func FormatText(r *Report) string {
	var b strings.Builder

	name := r.File
	if name == "" {
		name = "<stdin>"
	}
	fmt.Fprintf(&b, "%s: %d lines, %d entries\n", name, r.Lines, r.Entries)

	for _, rej := range r.Rejected {
		for _, issue := range rej.Issues {
			field := issue.Field
			if field != "" {
				field += ": "
			}
			fmt.Fprintf(&b, "  SHAPE  line %d: %s%s\n", rej.Line, field, issue.Message)
		}
	}
	for _, v := range r.Semantic.Errors {
		fmt.Fprintf(&b, "  ERROR  %-22s %s [%s]\n", v.Rule, v.Message, v.SpecRef)
	}
	for _, v := range r.Semantic.Warnings {
		fmt.Fprintf(&b, "  WARN   %-22s %s [%s]\n", v.Rule, v.Message, v.SpecRef)
	}

	if r.Clean() {
		if len(r.Semantic.Warnings) > 0 {
			fmt.Fprintf(&b, "VALID with %d warning(s)\n", len(r.Semantic.Warnings))
		} else {
			b.WriteString("VALID\n")
		}
	} else {
		fmt.Fprintf(&b, "INVALID: %d shape-rejected line(s), %d semantic error(s), %d warning(s)\n",
			len(r.Rejected), len(r.Semantic.Errors), len(r.Semantic.Warnings))
	}
	return b.String()
}

// FormatJSON renders a report as indented JSON.
func FormatJSON(r *Report) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}
