package semantic

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warmautomation/aef/internal/entry"
)

// mk builds a minimal entry of the given type. Payloads for tool entries
// are attached by the callers that need them.
func mk(id, sessionID, entryType string, ts int64) entry.Entry {
	e := entry.Entry{
		SchemaVersion: entry.SchemaVersion,
		ID:            id,
		SessionID:     sessionID,
		EntryType:     entryType,
		Timestamp:     ts,
	}
	switch entryType {
	case entry.TypeSessionStart:
		e.SessionStart = &entry.SessionStartBody{}
	case entry.TypeSessionEnd:
		e.SessionEnd = &entry.SessionEndBody{}
	case entry.TypeMessage:
		e.Message = &entry.MessageBody{Role: "user", Content: "hi"}
	case entry.TypeError:
		e.Fault = &entry.FaultBody{Message: "boom"}
	}
	return e
}

func toolCall(id, sessionID, callID string, ts int64) entry.Entry {
	e := mk(id, sessionID, entry.TypeToolCall, ts)
	e.ToolCall = &entry.ToolCallBody{Tool: "search", CallID: callID}
	return e
}

func toolResult(id, sessionID, callID string, success bool, ts int64) entry.Entry {
	e := mk(id, sessionID, entry.TypeToolResult, ts)
	e.ToolResult = &entry.ToolResultBody{Tool: "search", CallID: callID, Success: success}
	if success {
		e.ToolResult.Result = json.RawMessage(`{"ok":true}`)
	} else {
		e.ToolResult.Error = &entry.ErrorDetail{Message: "it broke"}
	}
	return e
}

func seq(n int64) *int64 { return &n }

func errorRules(res Result) []string {
	rules := make([]string, 0, len(res.Errors))
	for _, v := range res.Errors {
		rules = append(rules, v.Rule)
	}
	return rules
}

func TestValidLinearSession(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeSessionStart, 100),
		mk("e2", "s1", entry.TypeMessage, 200),
		mk("e3", "s1", entry.TypeSessionEnd, 300),
	}
	res := Validate(entries)
	require.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestEmptyDocumentIsValid(t *testing.T) {
	res := Validate(nil)
	require.True(t, res.Valid)
	assert.NotNil(t, res.Errors)
	assert.NotNil(t, res.Warnings)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestSessionStartMustBeFirst(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeMessage, 100),
		mk("e2", "s1", entry.TypeSessionStart, 200),
		mk("e3", "s1", entry.TypeSessionEnd, 300),
	}
	res := Validate(entries)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleSessionStartFirst, res.Errors[0].Rule)
	assert.Contains(t, res.Errors[0].EntryIDs, "e2")
}

func TestSessionEndMustBeLast(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeSessionStart, 100),
		mk("e2", "s1", entry.TypeSessionEnd, 200),
		mk("e3", "s1", entry.TypeMessage, 300),
	}
	res := Validate(entries)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleSessionEndLast, res.Errors[0].Rule)
}

func TestInterleavedSessionsAreNotContiguous(t *testing.T) {
	entries := []entry.Entry{
		mk("a1", "A", entry.TypeSessionStart, 100),
		mk("b1", "B", entry.TypeSessionStart, 200),
		mk("a2", "A", entry.TypeSessionEnd, 300),
		mk("b2", "B", entry.TypeSessionEnd, 400),
	}
	res := Validate(entries)
	require.False(t, res.Valid)
	require.True(t, res.HasRule(RuleSessionContiguous))
	var found bool
	for _, v := range res.Errors {
		if v.Rule == RuleSessionContiguous && strings.Contains(v.Message, `"B"`) {
			found = true
		}
	}
	assert.True(t, found, "contiguity error should name the interleaving session: %+v", res.Errors)
}

func TestContiguityReportsOnlyFirstGapPerSession(t *testing.T) {
	entries := []entry.Entry{
		mk("a1", "A", entry.TypeMessage, 100),
		mk("b1", "B", entry.TypeMessage, 200),
		mk("a2", "A", entry.TypeMessage, 300),
		mk("b2", "B", entry.TypeMessage, 400),
		mk("a3", "A", entry.TypeMessage, 500),
	}
	res := Validate(entries)
	count := 0
	for _, v := range res.Errors {
		if v.Rule == RuleSessionContiguous && strings.Contains(v.Message, `session "A"`) {
			count++
		}
	}
	assert.Equal(t, 1, count, "one contiguity error per session, not per gap")
}

func TestSequenceNumbersMustStrictlyIncrease(t *testing.T) {
	repeat := mk("e2", "s1", entry.TypeMessage, 200)
	repeat.SequenceNumber = seq(5)
	later := mk("e3", "s1", entry.TypeMessage, 300)
	later.SequenceNumber = seq(5) // repeat, not just decrease
	first := mk("e1", "s1", entry.TypeMessage, 100)
	first.SequenceNumber = seq(1)

	res := Validate([]entry.Entry{first, repeat, later})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleSeqMonotonic, res.Errors[0].Rule)
	assert.Equal(t, []string{"e2", "e3"}, res.Errors[0].EntryIDs)
}

func TestSequenceSkipsEntriesWithoutNumbers(t *testing.T) {
	first := mk("e1", "s1", entry.TypeMessage, 100)
	first.SequenceNumber = seq(1)
	middle := mk("e2", "s1", entry.TypeMessage, 200) // no sequence number
	last := mk("e3", "s1", entry.TypeMessage, 300)
	last.SequenceNumber = seq(2)

	res := Validate([]entry.Entry{first, middle, last})
	assert.True(t, res.Valid, "unnumbered entries must not break the chain: %+v", res.Errors)
}

func TestToolResultCorrelationMustResolve(t *testing.T) {
	entries := []entry.Entry{
		toolCall("e1", "s1", "tc1", 100),
		toolResult("e2", "s1", "tc999", true, 200),
	}
	res := Validate(entries)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleCallIDMatch, res.Errors[0].Rule)
	assert.Contains(t, res.Errors[0].Message, "tc999")
}

func TestToolCallWithoutResultIsLegal(t *testing.T) {
	res := Validate([]entry.Entry{toolCall("e1", "s1", "tc1", 100)})
	assert.True(t, res.Valid)
}

func TestFailedResultRequiresErrorMessage(t *testing.T) {
	bad := toolResult("e2", "s1", "tc1", false, 200)
	bad.ToolResult.Error = nil
	entries := []entry.Entry{toolCall("e1", "s1", "tc1", 100), bad}
	res := Validate(entries)
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleErrorRequired, res.Errors[0].Rule)

	bad.ToolResult.Error = &entry.ErrorDetail{Message: ""}
	res = Validate([]entry.Entry{toolCall("e1", "s1", "tc1", 100), bad})
	assert.True(t, res.HasRule(RuleErrorRequired), "empty message is as bad as no error object")
}

func TestParentMustExist(t *testing.T) {
	child := mk("e1", "s1", entry.TypeMessage, 100)
	child.ParentID = "ghost"
	res := Validate([]entry.Entry{child})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleParentExists, res.Errors[0].Rule)
	assert.Contains(t, res.Errors[0].Message, "non-existent")
}

func TestParentMustAppearEarlier(t *testing.T) {
	child := mk("e1", "s1", entry.TypeMessage, 100)
	child.ParentID = "e2"
	parent := mk("e2", "s1", entry.TypeMessage, 200)
	res := Validate([]entry.Entry{child, parent})
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, RuleParentExists, res.Errors[0].Rule)
	assert.Contains(t, res.Errors[0].Message, "future")
}

func TestParentMustShareSession(t *testing.T) {
	parent := mk("e1", "A", entry.TypeMessage, 100)
	child := mk("e2", "B", entry.TypeMessage, 200)
	child.ParentID = "e1"
	res := Validate([]entry.Entry{parent, child})
	require.False(t, res.Valid)
	assert.True(t, res.HasRule(RuleParentSameSession))
}

func TestDependencyChecksMirrorParentChecks(t *testing.T) {
	other := mk("x1", "B", entry.TypeMessage, 50)
	base := mk("e1", "A", entry.TypeMessage, 100)
	future := mk("e2", "A", entry.TypeMessage, 200)
	e := mk("e3", "A", entry.TypeMessage, 300)
	e.DependencyIDs = []string{"e1", "missing", "e4", "x1"}
	e4 := mk("e4", "A", entry.TypeMessage, 400)

	res := Validate([]entry.Entry{other, base, future, e, e4})
	rules := errorRules(res)
	assert.Contains(t, rules, RuleDepsExist)       // "missing" and future "e4"
	assert.Contains(t, rules, RuleDepsSameSession) // "x1"

	var messages []string
	for _, v := range res.Errors {
		messages = append(messages, v.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, `"missing"`)
	assert.Contains(t, joined, `"e4"`)
	assert.Contains(t, joined, `"x1"`)
}

func TestTimestampDecreaseIsOnlyAWarning(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeMessage, 300),
		mk("e2", "s1", entry.TypeMessage, 200),
	}
	res := Validate(entries)
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, RuleTimestampMonotonic, res.Warnings[0].Rule)
	assert.Equal(t, []string{"e1", "e2"}, res.Warnings[0].EntryIDs)
}

func TestDuplicateIDsWarnOncePerRepeat(t *testing.T) {
	entries := []entry.Entry{
		mk("dup", "s1", entry.TypeMessage, 100),
		mk("dup", "s1", entry.TypeMessage, 200),
		mk("dup", "s1", entry.TypeMessage, 300),
	}
	res := Validate(entries)
	assert.True(t, res.Valid)
	count := 0
	for _, v := range res.Warnings {
		if v.Rule == RuleIDUnique {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestSuccessfulResultWithoutPayloadWarns(t *testing.T) {
	ok := toolResult("e2", "s1", "tc1", true, 200)
	ok.ToolResult.Result = nil
	entries := []entry.Entry{toolCall("e1", "s1", "tc1", 100), ok}
	res := Validate(entries)
	assert.True(t, res.Valid, "side-effect-only tools are legal: %+v", res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, RuleResultExpected, res.Warnings[0].Rule)
}

func TestValidateIsDeterministic(t *testing.T) {
	entries := []entry.Entry{
		mk("a1", "A", entry.TypeSessionStart, 100),
		mk("b1", "B", entry.TypeMessage, 50),
		mk("a2", "A", entry.TypeMessage, 90),
		toolResult("a3", "A", "nope", false, 200),
		mk("a2", "A", entry.TypeSessionEnd, 300),
	}
	first := Validate(entries)
	second := Validate(entries)
	assert.Equal(t, first, second)
}

func TestValidateDoesNotMutateInput(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeSessionStart, 100),
		toolResult("e2", "s1", "ghost", false, 200),
	}
	before, err := json.Marshal(entries)
	require.NoError(t, err)

	Validate(entries)

	after, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestIsolatedInvalidEntryAddsAttributableError(t *testing.T) {
	valid := []entry.Entry{
		mk("e1", "s1", entry.TypeSessionStart, 100),
		mk("e2", "s1", entry.TypeMessage, 200),
	}
	base := Validate(valid)
	require.True(t, base.Valid)

	bad := toolResult("e3", "s1", "tc404", true, 300)
	res := Validate(append(valid, bad))
	require.False(t, res.Valid)
	var attributed bool
	for _, v := range res.Errors {
		for _, id := range v.EntryIDs {
			if id == "e3" {
				attributed = true
			}
		}
	}
	assert.True(t, attributed, "new error must name the new entry")
	assert.GreaterOrEqual(t, len(res.Errors), len(base.Errors)+1)
}

func TestEveryViolationCarriesRuleRefAndIDs(t *testing.T) {
	entries := []entry.Entry{
		mk("e1", "s1", entry.TypeMessage, 300),
		mk("e1", "s1", entry.TypeSessionStart, 200),
		toolResult("e3", "s1", "nope", false, 100),
	}
	res := Validate(entries)
	all := append(append([]Violation{}, res.Errors...), res.Warnings...)
	require.NotEmpty(t, all)
	for _, v := range all {
		assert.NotEmpty(t, v.Rule)
		assert.NotEmpty(t, v.Message)
		assert.NotEmpty(t, v.SpecRef)
		assert.NotEmpty(t, v.EntryIDs)
		assert.Equal(t, SpecRef(v.Rule), v.SpecRef)
	}
}
