package report

import (
	"strings"
	"testing"

	"github.com/warmautomation/aef/internal/config"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/schema"
	"github.com/warmautomation/aef/internal/semantic"
)

func sampleResult() semantic.Result {
	return semantic.Result{
		Valid: false,
		Errors: []semantic.Violation{
			{Rule: semantic.RuleSessionStartFirst, Message: "first entry is not session.start",
				SpecRef: semantic.SpecRef(semantic.RuleSessionStartFirst), EntryIDs: []string{"e1"}},
		},
		Warnings: []semantic.Violation{
			{Rule: semantic.RuleTimestampMonotonic, Message: "timestamp decreases",
				SpecRef: semantic.SpecRef(semantic.RuleTimestampMonotonic), EntryIDs: []string{"e2", "e3"}},
		},
	}
}

func emptyDoc() *logio.Document {
	return &logio.Document{Lines: 3, Entries: nil}
}

func TestBuildWithoutOverrides(t *testing.T) {
	r := Build("trace.jsonl", emptyDoc(), sampleResult(), config.RulesConfig{})
	if r.Clean() {
		t.Error("report with semantic errors must not be clean")
	}
	if len(r.Semantic.Errors) != 1 || len(r.Semantic.Warnings) != 1 {
		t.Errorf("violations altered without overrides: %+v", r.Semantic)
	}
}

func TestIgnoreDropsViolations(t *testing.T) {
	rules := config.RulesConfig{Ignore: []string{
		semantic.RuleSessionStartFirst,
		semantic.RuleTimestampMonotonic,
	}}
	r := Build("trace.jsonl", emptyDoc(), sampleResult(), rules)
	if !r.Clean() {
		t.Errorf("ignoring every rule must yield a clean report: %+v", r.Semantic)
	}
	if len(r.Semantic.Errors) != 0 || len(r.Semantic.Warnings) != 0 {
		t.Errorf("violations survived ignore: %+v", r.Semantic)
	}
}

func TestPromoteTurnsWarningIntoError(t *testing.T) {
	rules := config.RulesConfig{Promote: []string{semantic.RuleTimestampMonotonic}}
	r := Build("trace.jsonl", emptyDoc(), sampleResult(), rules)
	if len(r.Semantic.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(r.Semantic.Errors), r.Semantic.Errors)
	}
	if len(r.Semantic.Warnings) != 0 {
		t.Errorf("promoted warning still present: %+v", r.Semantic.Warnings)
	}
	if r.Semantic.Valid {
		t.Error("Valid must be recomputed after promotion")
	}
}

func TestOverridesDoNotMutateInput(t *testing.T) {
	res := sampleResult()
	Build("trace.jsonl", emptyDoc(), res, config.RulesConfig{
		Ignore:  []string{semantic.RuleSessionStartFirst},
		Promote: []string{semantic.RuleTimestampMonotonic},
	})
	if len(res.Errors) != 1 || len(res.Warnings) != 1 {
		t.Errorf("input result was mutated: %+v", res)
	}
}

func TestRejectedLinesFailTheReport(t *testing.T) {
	doc := &logio.Document{
		Lines:    1,
		Rejected: []logio.RejectedLine{{Line: 1, Issues: []schema.Issue{{Field: "id", Message: "missing required key"}}}},
	}
	clean := semantic.Result{Valid: true, Errors: []semantic.Violation{}, Warnings: []semantic.Violation{}}
	r := Build("trace.jsonl", doc, clean, config.RulesConfig{})
	if r.Clean() {
		t.Error("rejected lines must fail the report even with clean semantics")
	}
}

func TestFormatText(t *testing.T) {
	r := Build("trace.jsonl", emptyDoc(), sampleResult(), config.RulesConfig{})
	out := FormatText(r)
	for _, want := range []string{
		"trace.jsonl: 3 lines, 0 entries",
		"ERROR",
		semantic.RuleSessionStartFirst,
		"WARN",
		semantic.RuleTimestampMonotonic,
		"INVALID",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextValid(t *testing.T) {
	clean := semantic.Result{Valid: true, Errors: []semantic.Violation{}, Warnings: []semantic.Violation{}}
	r := Build("", emptyDoc(), clean, config.RulesConfig{})
	out := FormatText(r)
	if !strings.Contains(out, "<stdin>") {
		t.Errorf("empty file name must render as <stdin>:\n%s", out)
	}
	if !strings.Contains(out, "VALID\n") {
		t.Errorf("expected VALID footer:\n%s", out)
	}
}

func TestFormatJSON(t *testing.T) {
	r := Build("trace.jsonl", emptyDoc(), sampleResult(), config.RulesConfig{})
	out, err := FormatJSON(r)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	for _, want := range []string{`"file": "trace.jsonl"`, `"semantic"`, semantic.RuleSessionStartFirst} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON missing %q:\n%s", want, out)
		}
	}
}
