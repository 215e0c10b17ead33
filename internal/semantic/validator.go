// Package semantic checks the cross-entry invariants of an AEF document:
// session boundaries and contiguity, sequence-number monotonicity, causal
// references, tool call/result correlation, and error-payload
// completeness. It assumes every entry has already passed structural
// validation and never re-checks field shapes.
//
// Validate is a pure function: it reads the entry list, mutates nothing,
// and reports every violation it finds in one pass rather than stopping
// at the first. Invalid input is a normal result value, not an error.
package semantic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/warmautomation/aef/internal/entry"
)

// run holds the per-call indices and accumulating violation lists.
// A fresh run is built for every Validate call; nothing is shared.
type run struct {
	entries []entry.Entry

	byID         map[string]int   // entry id -> first document position
	bySession    map[string][]int // session id -> positions, document order
	sessionOrder []string         // session ids by first appearance

	errors   []Violation
	warnings []Violation
}

// Validate checks all cross-entry invariants over entries in document
// order and returns every violation found. Deterministic for a given
// input order and side-effect free.
func Validate(entries []entry.Entry) Result {
	r := &run{
		entries:  entries,
		errors:   []Violation{},
		warnings: []Violation{},
	}
	r.index()

	r.checkSessionBoundaries()
	r.checkSessionContiguity()
	r.checkSequenceNumbers()
	r.checkToolCorrelation()
	r.checkErrorPayloads()
	r.checkCausalReferences()
	r.checkTimestamps()
	r.checkIDUniqueness()
	r.checkResultPresence()

	return Result{
		Valid:    len(r.errors) == 0,
		Errors:   r.errors,
		Warnings: r.warnings,
	}
}

// index builds the id and session position maps once, so every later
// check resolves references in O(1) instead of rescanning the document.
func (r *run) index() {
	r.byID = make(map[string]int, len(r.entries))
	r.bySession = make(map[string][]int)
	for i := range r.entries {
		e := &r.entries[i]
		if _, seen := r.byID[e.ID]; !seen {
			r.byID[e.ID] = i
		}
		if _, seen := r.bySession[e.SessionID]; !seen {
			r.sessionOrder = append(r.sessionOrder, e.SessionID)
		}
		r.bySession[e.SessionID] = append(r.bySession[e.SessionID], i)
	}
}

func (r *run) errorf(rule string, ids []string, format string, args ...any) {
	r.errors = append(r.errors, Violation{
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		SpecRef:  specRefs[rule],
		EntryIDs: ids,
	})
}

func (r *run) warnf(rule string, ids []string, format string, args ...any) {
	r.warnings = append(r.warnings, Violation{
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		SpecRef:  specRefs[rule],
		EntryIDs: ids,
	})
}

// checkSessionBoundaries requires any session.start to be the first entry
// of its session and any session.end to be the last, by document order.
func (r *run) checkSessionBoundaries() {
	for _, sid := range r.sessionOrder {
		positions := r.bySession[sid]
		first, last := positions[0], positions[len(positions)-1]
		for _, pos := range positions {
			e := &r.entries[pos]
			switch e.EntryType {
			case entry.TypeSessionStart:
				if pos != first {
					r.errorf(RuleSessionStartFirst, []string{e.ID},
						"session.start entry %q is not the first entry of session %q", e.ID, sid)
				}
			case entry.TypeSessionEnd:
				if pos != last {
					r.errorf(RuleSessionEndLast, []string{e.ID},
						"session.end entry %q is not the last entry of session %q", e.ID, sid)
				}
			}
		}
	}
}

// checkSessionContiguity requires each session's entries to be adjacent
// in document order. One error per session, for the first gap found, so
// a single interleaved session does not flood the report.
func (r *run) checkSessionContiguity() {
	for _, sid := range r.sessionOrder {
		positions := r.bySession[sid]
		for i := 0; i+1 < len(positions); i++ {
			if positions[i+1] == positions[i]+1 {
				continue
			}
			interleaved := []string{}
			seen := map[string]bool{}
			for pos := positions[i] + 1; pos < positions[i+1]; pos++ {
				other := r.entries[pos].SessionID
				if !seen[other] {
					seen[other] = true
					interleaved = append(interleaved, strconv.Quote(other))
				}
			}
			before, after := &r.entries[positions[i]], &r.entries[positions[i+1]]
			r.errorf(RuleSessionContiguous, []string{before.ID, after.ID},
				"session %q is not contiguous: entries from session(s) %s appear between %q and %q",
				sid, strings.Join(interleaved, ", "), before.ID, after.ID)
			break
		}
	}
}

// checkSequenceNumbers requires sequenceNumber, where present, to be
// strictly increasing per session in document order. Repeats are errors
// too, unlike timestamps which merely need non-decrease.
func (r *run) checkSequenceNumbers() {
	for _, sid := range r.sessionOrder {
		var lastSeq int64
		var lastID string
		have := false
		for _, pos := range r.bySession[sid] {
			e := &r.entries[pos]
			seq, ok := e.Seq()
			if !ok {
				continue
			}
			if have && seq <= lastSeq {
				r.errorf(RuleSeqMonotonic, []string{lastID, e.ID},
					"sequenceNumber %d at entry %q does not strictly increase after %d at entry %q in session %q",
					seq, e.ID, lastSeq, lastID, sid)
			}
			lastSeq, lastID, have = seq, e.ID, true
		}
	}
}

// checkToolCorrelation requires every tool.result correlation id to match
// some tool.call in the document. The reverse direction is legal: a call
// may have no result (truncated log).
func (r *run) checkToolCorrelation() {
	callIDs := map[string]bool{}
	for i := range r.entries {
		e := &r.entries[i]
		if e.ToolCall != nil && e.ToolCall.CallID != "" {
			callIDs[e.ToolCall.CallID] = true
		}
	}
	for i := range r.entries {
		e := &r.entries[i]
		if e.ToolResult == nil || e.ToolResult.CallID == "" {
			continue
		}
		if !callIDs[e.ToolResult.CallID] {
			r.errorf(RuleCallIDMatch, []string{e.ID},
				"tool.result entry %q references call_id %q but no tool.call carries it",
				e.ID, e.ToolResult.CallID)
		}
	}
}

// checkErrorPayloads requires failed tool results to say what failed.
func (r *run) checkErrorPayloads() {
	for i := range r.entries {
		e := &r.entries[i]
		if e.ToolResult == nil || e.ToolResult.Success {
			continue
		}
		if e.ToolResult.Error == nil || e.ToolResult.Error.Message == "" {
			r.errorf(RuleErrorRequired, []string{e.ID},
				"tool.result entry %q has success=false but no error message", e.ID)
		}
	}
}

// checkCausalReferences applies the same three-way check to parentId and
// every dependencyIds element: the referenced entry must exist, must
// appear strictly earlier, and must belong to the same session.
func (r *run) checkCausalReferences() {
	for i := range r.entries {
		e := &r.entries[i]
		if e.ParentID != "" {
			r.checkReference(i, e.ParentID, RuleParentExists, RuleParentSameSession, "parentId")
		}
		for _, dep := range e.DependencyIDs {
			r.checkReference(i, dep, RuleDepsExist, RuleDepsSameSession, "dependency")
		}
	}
}

func (r *run) checkReference(pos int, ref, existsRule, sessionRule, kind string) {
	e := &r.entries[pos]
	target, ok := r.byID[ref]
	if !ok {
		r.errorf(existsRule, []string{e.ID},
			"entry %q references non-existent %s %q", e.ID, kind, ref)
		return
	}
	if target >= pos {
		r.errorf(existsRule, []string{e.ID, ref},
			"entry %q has a future %s reference to %q, which must appear earlier in the document",
			e.ID, kind, ref)
		return
	}
	if r.entries[target].SessionID != e.SessionID {
		r.errorf(sessionRule, []string{e.ID, ref},
			"entry %q references %s %q from a different session (%q vs %q)",
			e.ID, kind, ref, e.SessionID, r.entries[target].SessionID)
	}
}

// checkTimestamps warns on timestamp decreases within a session. Clock
// skew and out-of-order delivery are tolerated, so this never hardens
// into an error.
func (r *run) checkTimestamps() {
	for _, sid := range r.sessionOrder {
		positions := r.bySession[sid]
		for i := 1; i < len(positions); i++ {
			prev, cur := &r.entries[positions[i-1]], &r.entries[positions[i]]
			if cur.Timestamp < prev.Timestamp {
				r.warnf(RuleTimestampMonotonic, []string{prev.ID, cur.ID},
					"timestamp of entry %q (%d) is earlier than preceding entry %q (%d) in session %q",
					cur.ID, cur.Timestamp, prev.ID, prev.Timestamp, sid)
			}
		}
	}
}

// checkIDUniqueness warns on duplicate ids anywhere in the document.
// Duplicates break addressability but not interpretation, so warning.
func (r *run) checkIDUniqueness() {
	firstAt := make(map[string]int, len(r.entries))
	for i := range r.entries {
		id := r.entries[i].ID
		if first, seen := firstAt[id]; seen {
			r.warnf(RuleIDUnique, []string{id},
				"entry id %q at position %d duplicates the id first used at position %d", id, i, first)
			continue
		}
		firstAt[id] = i
	}
}

// checkResultPresence warns on successful tool results with no result
// payload. Side-effect-only tools legitimately omit it.
func (r *run) checkResultPresence() {
	for i := range r.entries {
		e := &r.entries[i]
		if e.ToolResult == nil || !e.ToolResult.Success {
			continue
		}
		if len(e.ToolResult.Result) == 0 {
			r.warnf(RuleResultExpected, []string{e.ID},
				"tool.result entry %q has success=true but no result payload", e.ID)
		}
	}
}
