package aef

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/warmautomation/aef/internal/entry"
	"github.com/warmautomation/aef/internal/logio"
)

// Emitter writes AEF entries to an append-only NDJSON log. Thread-safe:
// sessions created from one emitter may emit concurrently.
type Emitter struct {
	mu      sync.Mutex
	w       *logio.Writer
	closer  io.Closer
	entropy io.Reader
	now     func() time.Time
}

// Open creates (or truncates) an AEF log file and returns an emitter
// writing to it.
func Open(path string) (*Emitter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("aef: open log: %w", err)
	}
	em := NewEmitter(f)
	em.closer = f
	return em, nil
}

// NewEmitter returns an emitter writing to w. The caller owns w's
// lifecycle.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:       logio.NewWriter(w),
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Close flushes and, when the emitter owns the file, closes it.
func (em *Emitter) Close() error {
	em.mu.Lock()
	defer em.mu.Unlock()
	if err := em.w.Flush(); err != nil {
		return err
	}
	if em.closer != nil {
		return em.closer.Close()
	}
	return nil
}

func (em *Emitter) newID() string {
	em.mu.Lock()
	defer em.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(em.now()), em.entropy).String()
}

// emit stamps the base fields a session cannot know and writes the entry.
func (em *Emitter) emit(e entry.Entry) error {
	em.mu.Lock()
	defer em.mu.Unlock()
	e.SchemaVersion = entry.SchemaVersion
	if err := em.w.Write(e); err != nil {
		return fmt.Errorf("aef: %w", err)
	}
	return em.w.Flush()
}

// Session emits entries for one logical conversation. Entries get
// strictly increasing sequence numbers so consumers can detect
// reordering even when timestamps collide.
type Session struct {
	em      *Emitter
	id      string
	seq     int64
	started int64
	mu      sync.Mutex
}

// StartSession emits a session.start entry and returns the session.
// The returned error only reflects the write; the session is usable
// regardless so callers can treat logging as best-effort.
func (em *Emitter) StartSession(opts ...SessionOption) (*Session, error) {
	cfg := sessionConfig{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = em.newID()
	}

	s := &Session{em: em, id: cfg.sessionID, started: em.now().UnixMilli()}
	err := s.emitNext(entry.Entry{
		EntryType: entry.TypeSessionStart,
		SessionStart: &entry.SessionStartBody{
			Agent: cfg.agent,
			Title: cfg.title,
		},
	})
	return s, err
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// emitNext stamps id, session, timestamp, and the next sequence number.
func (s *Session) emitNext(e entry.Entry) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	e.ID = s.em.newID()
	e.SessionID = s.id
	e.Timestamp = s.em.now().UnixMilli()
	e.SequenceNumber = &seq
	return s.em.emit(e)
}

// Message emits a message entry.
func (s *Session) Message(role, content string) error {
	return s.emitNext(entry.Entry{
		EntryType: entry.TypeMessage,
		Message:   &entry.MessageBody{Role: role, Content: content},
	})
}

// Fault emits an error entry for an agent-level failure.
func (s *Session) Fault(message, severity string) error {
	return s.emitNext(entry.Entry{
		EntryType: entry.TypeError,
		Fault:     &entry.FaultBody{Message: message, Severity: severity},
	})
}

// ToolCall emits a tool.call entry with a generated correlation id and
// returns a handle for reporting the result.
func (s *Session) ToolCall(tool string, input json.RawMessage) (*ToolCall, error) {
	callID := s.em.newID()
	err := s.emitNext(entry.Entry{
		EntryType: entry.TypeToolCall,
		ToolCall:  &entry.ToolCallBody{Tool: tool, CallID: callID, Input: input},
	})
	return &ToolCall{session: s, tool: tool, callID: callID}, err
}

// End emits a session.end entry with the elapsed duration. reason may be
// "completed", "aborted", or "error"; empty omits it.
func (s *Session) End(reason string) error {
	elapsed := s.em.now().UnixMilli() - s.started
	return s.emitNext(entry.Entry{
		EntryType:  entry.TypeSessionEnd,
		SessionEnd: &entry.SessionEndBody{Reason: reason, DurationMS: &elapsed},
	})
}

// ToolCall is the write handle for one pending tool invocation.
type ToolCall struct {
	session *Session
	tool    string
	callID  string
}

// CallID returns the generated correlation id.
func (t *ToolCall) CallID() string { return t.callID }

// Success emits the matching tool.result with success=true.
func (t *ToolCall) Success(result json.RawMessage) error {
	return t.session.emitNext(entry.Entry{
		EntryType: entry.TypeToolResult,
		ToolResult: &entry.ToolResultBody{
			Tool:    t.tool,
			CallID:  t.callID,
			Success: true,
			Result:  result,
		},
	})
}

// Failure emits the matching tool.result with success=false and the
// required error payload.
func (t *ToolCall) Failure(code, message string) error {
	return t.session.emitNext(entry.Entry{
		EntryType: entry.TypeToolResult,
		ToolResult: &entry.ToolResultBody{
			Tool:    t.tool,
			CallID:  t.callID,
			Success: false,
			Error:   &entry.ErrorDetail{Code: code, Message: message},
		},
	})
}
