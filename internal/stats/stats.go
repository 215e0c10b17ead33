// Package stats summarizes a validated entry list: counts per kind,
// session count, and the time span covered.
package stats

import (
	"github.com/warmautomation/aef/internal/entry"
)

// Summary holds aggregate counts over one document.
type Summary struct {
	Entries          int            `json:"entries"`
	Sessions         int            `json:"sessions"`
	ByType           map[string]int `json:"by_type,omitempty"`
	ExtensionEntries int            `json:"extension_entries"`
	ToolCalls        int            `json:"tool_calls"`
	ToolResults      int            `json:"tool_results"`
	FailedResults    int            `json:"failed_results"`
	FirstTimestamp   int64          `json:"first_timestamp,omitempty"`
	LastTimestamp    int64          `json:"last_timestamp,omitempty"`
	DurationMS       int64          `json:"duration_ms"`
}

// Summarize computes aggregate counts over entries in one pass.
func Summarize(entries []entry.Entry) Summary {
	s := Summary{Entries: len(entries)}
	if len(entries) == 0 {
		return s
	}
	s.ByType = map[string]int{}

	sessions := map[string]bool{}
	first, last := entries[0].Timestamp, entries[0].Timestamp
	for i := range entries {
		e := &entries[i]
		sessions[e.SessionID] = true
		s.ByType[e.EntryType]++
		if entry.Classify(e.EntryType) == entry.ClassExtension {
			s.ExtensionEntries++
		}

		switch {
		case e.ToolCall != nil:
			s.ToolCalls++
		case e.ToolResult != nil:
			s.ToolResults++
			if !e.ToolResult.Success {
				s.FailedResults++
			}
		}

		if e.Timestamp < first {
			first = e.Timestamp
		}
		if e.Timestamp > last {
			last = e.Timestamp
		}
	}
	s.Sessions = len(sessions)
	s.FirstTimestamp = first
	s.LastTimestamp = last
	s.DurationMS = last - first
	return s
}
