package adapter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/warmautomation/aef/internal/entry"
)

func init() {
	Register(&codex{})
}

// codex converts Codex CLI session rollout files: a session_meta line
// followed by response_item lines carrying messages, function calls, and
// function call outputs.
type codex struct{}

type codexLine struct {
	Timestamp string          `json:"timestamp"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
}

type codexMeta struct {
	ID         string `json:"id"`
	Originator string `json:"originator"`
	CLIVersion string `json:"cli_version"`
}

type codexItem struct {
	Type      string       `json:"type"`
	Role      string       `json:"role"`
	Content   []codexBlock `json:"content"`
	Name      string       `json:"name"`
	Arguments string       `json:"arguments"`
	CallID    string       `json:"call_id"`
	Output    string       `json:"output"`
}

type codexBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *codex) Name() string { return "codex" }

func (c *codex) Convert(r io.Reader) ([]entry.Entry, error) {
	var entries []entry.Entry
	sessionID := ""
	calls := map[string]string{} // call_id -> tool name
	var lastTS int64

	appendEntry := func(e entry.Entry, ts int64) {
		if sessionID == "" {
			sessionID = newSessionID()
		}
		e.SchemaVersion = entry.SchemaVersion
		e.SessionID = sessionID
		e.ID = newEntryID()
		e.Timestamp = ts
		entries = append(entries, e)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var line codexLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("codex line %d: %w", lineNum, err)
		}
		if t, err := time.Parse(time.RFC3339, line.Timestamp); err == nil {
			lastTS = t.UnixMilli()
		}

		switch line.Type {
		case "session_meta":
			var meta codexMeta
			if err := json.Unmarshal(line.Payload, &meta); err != nil {
				return nil, fmt.Errorf("codex line %d: session_meta: %w", lineNum, err)
			}
			if meta.ID != "" {
				sessionID = meta.ID
			}
			agent := meta.Originator
			if agent == "" {
				agent = "codex"
			}
			appendEntry(entry.Entry{
				EntryType: entry.TypeSessionStart,
				SessionStart: &entry.SessionStartBody{
					Agent: &entry.AgentInfo{Name: agent, Version: meta.CLIVersion},
				},
			}, lastTS)

		case "response_item":
			var item codexItem
			if err := json.Unmarshal(line.Payload, &item); err != nil {
				continue // reasoning items and friends vary; skip quietly
			}
			switch item.Type {
			case "message":
				var texts []string
				for _, b := range item.Content {
					if b.Text != "" {
						texts = append(texts, b.Text)
					}
				}
				role := item.Role
				if role == "" {
					role = "assistant"
				}
				appendEntry(entry.Entry{
					EntryType: entry.TypeMessage,
					Message:   &entry.MessageBody{Role: role, Content: strings.Join(texts, "\n")},
				}, lastTS)
			case "function_call":
				calls[item.CallID] = item.Name
				call := &entry.ToolCallBody{Tool: item.Name, CallID: item.CallID}
				if json.Valid([]byte(item.Arguments)) {
					call.Input = json.RawMessage(item.Arguments)
				}
				appendEntry(entry.Entry{EntryType: entry.TypeToolCall, ToolCall: call}, lastTS)
			case "function_call_output":
				tool := calls[item.CallID]
				if tool == "" {
					tool = "unknown"
				}
				body := &entry.ToolResultBody{Tool: tool, Success: true}
				if _, seen := calls[item.CallID]; seen {
					body.CallID = item.CallID
				}
				if item.Output != "" {
					out, err := json.Marshal(item.Output)
					if err == nil {
						body.Result = out
					}
				}
				appendEntry(entry.Entry{EntryType: entry.TypeToolResult, ToolResult: body}, lastTS)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read codex log: %w", err)
	}
	return entries, nil
}
