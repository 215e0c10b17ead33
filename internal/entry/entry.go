// Package entry defines the AEF entry model: the base record shape shared
// by every log entry, the six core entry kinds, and the namespaced
// extension-entry convention. The package is pure data plus per-record
// classification; it knows nothing about document order.
package entry

import "encoding/json"

// SchemaVersion is the AEF format version this revision of the model
// implements. Every entry carries it verbatim.
const SchemaVersion = 1

// Core entry types. Anything else with a valid namespace pattern is an
// extension type; anything else again is invalid.
const (
	TypeSessionStart = "session.start"
	TypeSessionEnd   = "session.end"
	TypeMessage      = "message"
	TypeToolCall     = "tool.call"
	TypeToolResult   = "tool.result"
	TypeError        = "error"
)

// Entry is one record in an AEF log. Base fields are always present at the
// top level of the JSON object; exactly one of the payload pointers is
// non-nil for a core entry, and Extra holds the non-base fields of an
// extension entry.
type Entry struct {
	SchemaVersion  int      `json:"schemaVersion"`
	ID             string   `json:"id"`
	Timestamp      int64    `json:"timestamp"`
	EntryType      string   `json:"entryType"`
	SessionID      string   `json:"sessionId"`
	ParentID       string   `json:"parentId,omitempty"`
	SequenceNumber *int64   `json:"sequenceNumber,omitempty"`
	DependencyIDs  []string `json:"dependencyIds,omitempty"`

	SessionStart *SessionStartBody `json:"-"`
	SessionEnd   *SessionEndBody   `json:"-"`
	Message      *MessageBody      `json:"-"`
	ToolCall     *ToolCallBody     `json:"-"`
	ToolResult   *ToolResultBody   `json:"-"`
	Fault        *FaultBody        `json:"-"`

	// Extra holds extension-entry fields outside the base set. Nil for
	// core entries.
	Extra map[string]json.RawMessage `json:"-"`
}

// AgentInfo identifies the agent that produced a session.
type AgentInfo struct {
	Name    string `json:"name" validate:"required"`
	Version string `json:"version,omitempty"`
}

// SessionStartBody is the payload of a session.start entry.
type SessionStartBody struct {
	Agent *AgentInfo `json:"agent,omitempty"`
	Title string     `json:"title,omitempty"`
}

// SessionEndBody is the payload of a session.end entry.
type SessionEndBody struct {
	Reason     string `json:"reason,omitempty" validate:"omitempty,oneof=completed aborted error"`
	DurationMS *int64 `json:"durationMs,omitempty"`
}

// MessageBody is the payload of a message entry.
type MessageBody struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system tool"`
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
}

// ToolCallBody is the payload of a tool.call entry.
type ToolCallBody struct {
	Tool   string          `json:"tool" validate:"required"`
	CallID string          `json:"call_id,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
}

// ErrorDetail is the error object carried by failed tool results.
type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// ToolResultBody is the payload of a tool.result entry. When Success is
// false the validator requires Error with a non-empty message; when true
// a missing Result is only a warning (side-effect-only tools).
type ToolResultBody struct {
	Tool    string          `json:"tool" validate:"required"`
	CallID  string          `json:"call_id,omitempty"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

// FaultBody is the payload of an error entry (agent-level fault, as
// opposed to a failed tool result).
type FaultBody struct {
	Message  string          `json:"message" validate:"required"`
	Code     string          `json:"code,omitempty"`
	Severity string          `json:"severity,omitempty" validate:"omitempty,oneof=fatal recoverable"`
	Details  json.RawMessage `json:"details,omitempty"`
}

// Seq returns the entry's sequence number and whether one is present.
func (e *Entry) Seq() (int64, bool) {
	if e.SequenceNumber == nil {
		return 0, false
	}
	return *e.SequenceNumber, true
}

// CorrelationID returns the tool-call correlation identifier carried by
// this entry, if any. Only tool.call and tool.result entries carry one.
func (e *Entry) CorrelationID() string {
	switch {
	case e.ToolCall != nil:
		return e.ToolCall.CallID
	case e.ToolResult != nil:
		return e.ToolResult.CallID
	}
	return ""
}
