package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warmautomation/aef/internal/entry"
	"github.com/warmautomation/aef/internal/logio"
	"github.com/warmautomation/aef/internal/report"
	"github.com/warmautomation/aef/internal/semantic"
	"github.com/warmautomation/aef/internal/stats"
)

// --- Input/Output types ---

// ValidateInput defines parameters for the aef_validate tool.
type ValidateInput struct {
	Path string `json:"path" jsonschema:"path to an AEF JSONL log file"`
}

// ValidateOutput carries the complete validation report.
type ValidateOutput struct {
	Valid    bool                 `json:"valid"`
	Lines    int                  `json:"lines"`
	Entries  int                  `json:"entries"`
	Rejected []logio.RejectedLine `json:"rejected,omitempty"`
	Errors   []semantic.Violation `json:"errors"`
	Warnings []semantic.Violation `json:"warnings"`
}

// ClassifyInput defines parameters for the aef_classify tool.
type ClassifyInput struct {
	EntryType string `json:"entry_type" jsonschema:"entryType string to classify"`
}

// ClassifyOutput names the classification.
type ClassifyOutput struct {
	EntryType string `json:"entry_type"`
	Class     string `json:"class"`
}

// StatsInput defines parameters for the aef_stats tool.
type StatsInput struct {
	Path string `json:"path" jsonschema:"path to an AEF JSONL log file"`
}

// StatsOutput carries the log summary.
type StatsOutput struct {
	Summary stats.Summary `json:"summary"`
}

// --- Handlers ---

func (s *Server) handleValidate(ctx context.Context, req *mcpsdk.CallToolRequest, input ValidateInput) (*mcpsdk.CallToolResult, ValidateOutput, error) {
	doc, err := logio.ReadFile(input.Path)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, ValidateOutput{}, fmt.Errorf("read %s: %w", input.Path, err)
	}

	rep := report.Build(input.Path, doc, semantic.Validate(doc.Entries), s.cfg.Rules)
	out := ValidateOutput{
		Valid:    rep.Clean(),
		Lines:    rep.Lines,
		Entries:  rep.Entries,
		Rejected: rep.Rejected,
		Errors:   rep.Semantic.Errors,
		Warnings: rep.Semantic.Warnings,
	}
	s.logger.Info().Str("path", input.Path).Bool("valid", out.Valid).
		Int("errors", len(out.Errors)).Int("warnings", len(out.Warnings)).Msg("validated")
	return nil, out, nil
}

func (s *Server) handleClassify(ctx context.Context, req *mcpsdk.CallToolRequest, input ClassifyInput) (*mcpsdk.CallToolResult, ClassifyOutput, error) {
	return nil, ClassifyOutput{
		EntryType: input.EntryType,
		Class:     entry.Classify(input.EntryType).String(),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcpsdk.CallToolRequest, input StatsInput) (*mcpsdk.CallToolResult, StatsOutput, error) {
	doc, err := logio.ReadFile(input.Path)
	if err != nil {
		return &mcpsdk.CallToolResult{IsError: true}, StatsOutput{}, fmt.Errorf("read %s: %w", input.Path, err)
	}
	return nil, StatsOutput{Summary: stats.Summarize(doc.Entries)}, nil
}
