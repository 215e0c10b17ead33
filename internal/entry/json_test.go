package entry

import (
	"encoding/json"
	"testing"
)

func TestUnmarshalToolResult(t *testing.T) {
	line := `{"schemaVersion":1,"id":"e1","timestamp":1700000000000,"entryType":"tool.result",` +
		`"sessionId":"s1","tool":"search","call_id":"tc1","success":false,` +
		`"error":{"code":"E_TIMEOUT","message":"deadline exceeded"}}`

	var e Entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatal(err)
	}
	if e.ToolResult == nil {
		t.Fatal("expected ToolResult payload")
	}
	if e.ToolResult.Tool != "search" || e.ToolResult.CallID != "tc1" {
		t.Errorf("payload fields wrong: %+v", e.ToolResult)
	}
	if e.ToolResult.Success {
		t.Error("success should be false")
	}
	if e.ToolResult.Error == nil || e.ToolResult.Error.Message != "deadline exceeded" {
		t.Errorf("error detail wrong: %+v", e.ToolResult.Error)
	}
	if e.CorrelationID() != "tc1" {
		t.Errorf("CorrelationID = %q", e.CorrelationID())
	}
}

func TestUnmarshalExtensionKeepsExtraFields(t *testing.T) {
	line := `{"schemaVersion":1,"id":"e1","timestamp":42,"entryType":"acme.metrics.tokens",` +
		`"sessionId":"s1","parentId":"e0","input_tokens":100,"model":"m-1"}`

	var e Entry
	if err := json.Unmarshal([]byte(line), &e); err != nil {
		t.Fatal(err)
	}
	if e.ParentID != "e0" {
		t.Errorf("parentId = %q", e.ParentID)
	}
	if len(e.Extra) != 2 {
		t.Fatalf("Extra = %v, want input_tokens and model only", e.Extra)
	}
	if string(e.Extra["input_tokens"]) != "100" {
		t.Errorf("input_tokens = %s", e.Extra["input_tokens"])
	}
	if _, ok := e.Extra["sessionId"]; ok {
		t.Error("base fields must not leak into Extra")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	seq := int64(7)
	e := Entry{
		SchemaVersion:  SchemaVersion,
		ID:             "e1",
		Timestamp:      1700000000000,
		EntryType:      TypeToolCall,
		SessionID:      "s1",
		SequenceNumber: &seq,
		DependencyIDs:  []string{"e0"},
		ToolCall: &ToolCallBody{
			Tool:   "search",
			CallID: "tc1",
			Input:  json.RawMessage(`{"q":"x"}`),
		},
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}

	var back Entry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != e.ID || back.SessionID != e.SessionID || back.EntryType != e.EntryType {
		t.Errorf("base fields lost: %+v", back)
	}
	if back.SequenceNumber == nil || *back.SequenceNumber != 7 {
		t.Error("sequenceNumber lost")
	}
	if back.ToolCall == nil || back.ToolCall.CallID != "tc1" {
		t.Errorf("payload lost: %+v", back.ToolCall)
	}
	if string(back.ToolCall.Input) != `{"q":"x"}` {
		t.Errorf("input changed: %s", back.ToolCall.Input)
	}
}

func TestMarshalExtensionFlattensExtras(t *testing.T) {
	e := Entry{
		SchemaVersion: SchemaVersion,
		ID:            "e1",
		Timestamp:     42,
		EntryType:     "acme.metrics.tokens",
		SessionID:     "s1",
		Extra: map[string]json.RawMessage{
			"input_tokens": json.RawMessage("100"),
		},
	}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatal(err)
	}
	if flat["input_tokens"] != float64(100) {
		t.Errorf("extra field not at top level: %v", flat)
	}
	if flat["entryType"] != "acme.metrics.tokens" {
		t.Errorf("entryType wrong: %v", flat["entryType"])
	}
	if _, ok := flat["parentId"]; ok {
		t.Error("empty optional base fields must be omitted")
	}
}
