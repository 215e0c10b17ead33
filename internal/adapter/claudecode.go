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
	Register(&claudeCode{})
}

// claudeCode converts Claude Code session JSONL files. Each source event
// can fan out into several AEF entries: text blocks become one message,
// tool_use blocks become tool.call entries, and tool_result blocks become
// tool.result entries correlated by the source tool-use id.
type claudeCode struct{}

// claudeLine is the subset of a Claude Code JSONL event the adapter uses.
type claudeLine struct {
	Type       string          `json:"type"`
	UUID       string          `json:"uuid"`
	ParentUUID string          `json:"parentUuid"`
	SessionID  string          `json:"sessionId"`
	Timestamp  string          `json:"timestamp"`
	Version    string          `json:"version"`
	Message    json.RawMessage `json:"message"`
}

type claudeMessage struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Content json.RawMessage `json:"content"`
}

type claudeBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
	IsError   bool            `json:"is_error"`
}

func (c *claudeCode) Name() string { return "claude-code" }

func (c *claudeCode) Convert(r io.Reader) ([]entry.Entry, error) {
	conv := &claudeConversion{
		idByUUID:   map[string]string{},
		toolByCall: map[string]string{},
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
		var line claudeLine
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("claude-code line %d: %w", lineNum, err)
		}
		conv.consume(&line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read claude-code log: %w", err)
	}
	return conv.entries, nil
}

type claudeConversion struct {
	entries    []entry.Entry
	sessionID  string
	idByUUID   map[string]string // source event uuid -> first emitted entry id
	toolByCall map[string]string // tool_use id -> tool name
	lastTS     int64
}

func (c *claudeConversion) consume(line *claudeLine) {
	if line.Type != "user" && line.Type != "assistant" {
		return // summaries, snapshots, and queue events have no AEF shape
	}

	ts := c.timestamp(line.Timestamp)
	if c.sessionID == "" {
		c.sessionID = line.SessionID
		if c.sessionID == "" {
			c.sessionID = newSessionID()
		}
		c.append(entry.Entry{
			ID:        newEntryID(),
			Timestamp: ts,
			EntryType: entry.TypeSessionStart,
			SessionStart: &entry.SessionStartBody{
				Agent: &entry.AgentInfo{Name: "claude-code", Version: line.Version},
			},
		})
	}

	var msg claudeMessage
	if len(line.Message) > 0 {
		if err := json.Unmarshal(line.Message, &msg); err != nil {
			return
		}
	}

	parentID := c.idByUUID[line.ParentUUID]
	primary := true
	emit := func(e entry.Entry) {
		if primary {
			if line.UUID != "" {
				e.ID = line.UUID
			}
			e.ParentID = parentID
			primary = false
		}
		if e.ID == "" {
			e.ID = newEntryID()
		}
		if line.UUID != "" {
			if _, seen := c.idByUUID[line.UUID]; !seen {
				c.idByUUID[line.UUID] = e.ID
			}
		}
		e.Timestamp = ts
		c.append(e)
	}

	// Plain string content is a bare user message.
	var text string
	if json.Unmarshal(msg.Content, &text) == nil {
		emit(entry.Entry{
			EntryType: entry.TypeMessage,
			Message:   &entry.MessageBody{Role: msg.Role, Content: text, Model: msg.Model},
		})
		return
	}

	var blocks []claudeBlock
	if json.Unmarshal(msg.Content, &blocks) != nil {
		return
	}
	var texts []string
	for _, b := range blocks {
		switch b.Type {
		case "text":
			texts = append(texts, b.Text)
		case "tool_use":
			c.toolByCall[b.ID] = b.Name
			emit(entry.Entry{
				EntryType: entry.TypeToolCall,
				ToolCall:  &entry.ToolCallBody{Tool: b.Name, CallID: b.ID, Input: b.Input},
			})
		case "tool_result":
			emit(c.toolResult(&b))
		}
	}
	if len(texts) > 0 {
		emit(entry.Entry{
			EntryType: entry.TypeMessage,
			Message:   &entry.MessageBody{Role: msg.Role, Content: strings.Join(texts, "\n"), Model: msg.Model},
		})
	}
}

func (c *claudeConversion) toolResult(b *claudeBlock) entry.Entry {
	tool := c.toolByCall[b.ToolUseID]
	if tool == "" {
		tool = "unknown"
	}
	body := &entry.ToolResultBody{
		Tool:    tool,
		Success: !b.IsError,
	}
	// Only correlate when the call was seen; a dangling call_id would
	// turn into a call-id-match error on our own output.
	if _, seen := c.toolByCall[b.ToolUseID]; seen {
		body.CallID = b.ToolUseID
	}
	if b.IsError {
		body.Error = &entry.ErrorDetail{Message: flattenContent(b.Content)}
		if body.Error.Message == "" {
			body.Error.Message = "tool reported an error"
		}
	} else {
		body.Result = b.Content
	}
	return entry.Entry{EntryType: entry.TypeToolResult, ToolResult: body}
}

func (c *claudeConversion) append(e entry.Entry) {
	e.SchemaVersion = entry.SchemaVersion
	e.SessionID = c.sessionID
	c.entries = append(c.entries, e)
}

// timestamp parses the source RFC3339 timestamp into epoch milliseconds,
// reusing the previous value when the source field is absent or mangled
// so converted documents keep non-decreasing timestamps.
func (c *claudeConversion) timestamp(raw string) int64 {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		c.lastTS = t.UnixMilli()
	}
	return c.lastTS
}

// flattenContent extracts readable text from a tool_result content value,
// which may be a plain string or a list of text blocks.
func flattenContent(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var blocks []claudeBlock
	if json.Unmarshal(raw, &blocks) == nil {
		var texts []string
		for _, b := range blocks {
			if b.Type == "text" && b.Text != "" {
				texts = append(texts, b.Text)
			}
		}
		return strings.Join(texts, "\n")
	}
	return ""
}
