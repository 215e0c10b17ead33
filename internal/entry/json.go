package entry

import (
	"encoding/json"
	"fmt"
)

// baseKeys is the set of field names owned by the base entry shape.
// Everything else on an extension entry is preserved in Extra.
var baseKeys = map[string]bool{
	"schemaVersion":  true,
	"id":             true,
	"timestamp":      true,
	"entryType":      true,
	"sessionId":      true,
	"parentId":       true,
	"sequenceNumber": true,
	"dependencyIds":  true,
}

// baseEntry mirrors Entry's base fields so decoding does not recurse into
// Entry.UnmarshalJSON.
type baseEntry struct {
	SchemaVersion  int      `json:"schemaVersion"`
	ID             string   `json:"id"`
	Timestamp      int64    `json:"timestamp"`
	EntryType      string   `json:"entryType"`
	SessionID      string   `json:"sessionId"`
	ParentID       string   `json:"parentId,omitempty"`
	SequenceNumber *int64   `json:"sequenceNumber,omitempty"`
	DependencyIDs  []string `json:"dependencyIds,omitempty"`
}

// UnmarshalJSON decodes the base fields, then the payload appropriate to
// the entry type. Core payload fields live at the top level of the JSON
// object, not under a nested key; extension entries keep their non-base
// fields in Extra as raw JSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var base baseEntry
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*e = Entry{
		SchemaVersion:  base.SchemaVersion,
		ID:             base.ID,
		Timestamp:      base.Timestamp,
		EntryType:      base.EntryType,
		SessionID:      base.SessionID,
		ParentID:       base.ParentID,
		SequenceNumber: base.SequenceNumber,
		DependencyIDs:  base.DependencyIDs,
	}

	switch base.EntryType {
	case TypeSessionStart:
		e.SessionStart = new(SessionStartBody)
		return json.Unmarshal(data, e.SessionStart)
	case TypeSessionEnd:
		e.SessionEnd = new(SessionEndBody)
		return json.Unmarshal(data, e.SessionEnd)
	case TypeMessage:
		e.Message = new(MessageBody)
		return json.Unmarshal(data, e.Message)
	case TypeToolCall:
		e.ToolCall = new(ToolCallBody)
		return json.Unmarshal(data, e.ToolCall)
	case TypeToolResult:
		e.ToolResult = new(ToolResultBody)
		return json.Unmarshal(data, e.ToolResult)
	case TypeError:
		e.Fault = new(FaultBody)
		return json.Unmarshal(data, e.Fault)
	}

	if Classify(base.EntryType) == ClassExtension {
		var all map[string]json.RawMessage
		if err := json.Unmarshal(data, &all); err != nil {
			return err
		}
		for k := range all {
			if baseKeys[k] {
				delete(all, k)
			}
		}
		if len(all) > 0 {
			e.Extra = all
		}
	}
	return nil
}

// MarshalJSON writes the entry back to its one-object wire form: base
// fields plus payload (or extension) fields flattened together.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := map[string]json.RawMessage{}
	base := baseEntry{
		SchemaVersion:  e.SchemaVersion,
		ID:             e.ID,
		Timestamp:      e.Timestamp,
		EntryType:      e.EntryType,
		SessionID:      e.SessionID,
		ParentID:       e.ParentID,
		SequenceNumber: e.SequenceNumber,
		DependencyIDs:  e.DependencyIDs,
	}
	if err := mergeFields(out, base); err != nil {
		return nil, err
	}

	var payload any
	switch {
	case e.SessionStart != nil:
		payload = e.SessionStart
	case e.SessionEnd != nil:
		payload = e.SessionEnd
	case e.Message != nil:
		payload = e.Message
	case e.ToolCall != nil:
		payload = e.ToolCall
	case e.ToolResult != nil:
		payload = e.ToolResult
	case e.Fault != nil:
		payload = e.Fault
	}
	if payload != nil {
		if err := mergeFields(out, payload); err != nil {
			return nil, err
		}
	}
	for k, v := range e.Extra {
		if !baseKeys[k] {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// mergeFields marshals v and folds its top-level fields into m.
func mergeFields(m map[string]json.RawMessage, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("merge non-object payload: %w", err)
	}
	for k, val := range fields {
		m[k] = val
	}
	return nil
}
