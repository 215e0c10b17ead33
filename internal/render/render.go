// Package render turns a validated AEF document into a standalone HTML
// page: sessions grouped in document order, entries colored by kind,
// message content rendered as markdown, and every violation annotated on
// the entries it names. Vendor extension entries render through the
// pattern registry in registry.go.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"

	"github.com/warmautomation/aef/internal/entry"
	"github.com/warmautomation/aef/internal/semantic"
)

// Options holds renderer settings.
type Options struct {
	Title string
}

var markdown = goldmark.New()

// HTML renders entries and their validation result into a complete page.
func HTML(entries []entry.Entry, res semantic.Result, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "AEF log"
	}

	byEntry := violationsByEntry(res)

	var sessions []*sessionView
	index := map[string]*sessionView{}
	for i := range entries {
		e := &entries[i]
		sv, ok := index[e.SessionID]
		if !ok {
			sv = &sessionView{ID: e.SessionID}
			index[e.SessionID] = sv
			sessions = append(sessions, sv)
		}
		ev, err := buildEntryView(e, byEntry[e.ID])
		if err != nil {
			return nil, err
		}
		sv.Entries = append(sv.Entries, ev)
	}

	data := pageData{
		Title:     opts.Title,
		Generated: time.Now().UTC().Format(time.RFC3339),
		Sessions:  sessions,
		Errors:    len(res.Errors),
		Warnings:  len(res.Warnings),
	}
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

type pageData struct {
	Title     string
	Generated string
	Sessions  []*sessionView
	Errors    int
	Warnings  int
}

type sessionView struct {
	ID      string
	Entries []entryView
}

type entryView struct {
	ID         string
	Type       string
	CSSClass   string
	Time       string
	Body       template.HTML
	Violations []semantic.Violation
}

func violationsByEntry(res semantic.Result) map[string][]semantic.Violation {
	byEntry := map[string][]semantic.Violation{}
	for _, v := range res.Errors {
		for _, id := range v.EntryIDs {
			byEntry[id] = append(byEntry[id], v)
		}
	}
	for _, v := range res.Warnings {
		for _, id := range v.EntryIDs {
			byEntry[id] = append(byEntry[id], v)
		}
	}
	return byEntry
}

func buildEntryView(e *entry.Entry, violations []semantic.Violation) (entryView, error) {
	body, err := entryBody(e)
	if err != nil {
		return entryView{}, fmt.Errorf("entry %q: %w", e.ID, err)
	}
	css := "core"
	if entry.Classify(e.EntryType) == entry.ClassExtension {
		css = "extension"
	} else if e.ToolResult != nil && !e.ToolResult.Success {
		css = "failure"
	}
	return entryView{
		ID:         e.ID,
		Type:       e.EntryType,
		CSSClass:   css,
		Time:       time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339),
		Body:       body,
		Violations: violations,
	}, nil
}

func entryBody(e *entry.Entry) (template.HTML, error) {
	switch {
	case e.Message != nil:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(e.Message.Content), &buf); err != nil {
			return "", fmt.Errorf("markdown: %w", err)
		}
		role := template.HTMLEscapeString(e.Message.Role)
		return template.HTML(fmt.Sprintf(`<span class="role">%s</span>%s`, role, buf.String())), nil
	case e.ToolCall != nil:
		return preBlock(e.ToolCall.Tool, e.ToolCall.Input), nil
	case e.ToolResult != nil:
		if !e.ToolResult.Success && e.ToolResult.Error != nil {
			msg := template.HTMLEscapeString(e.ToolResult.Error.Message)
			return template.HTML(fmt.Sprintf(`<span class="err">%s</span>`, msg)), nil
		}
		return preBlock(e.ToolResult.Tool, e.ToolResult.Result), nil
	case e.Fault != nil:
		return template.HTML(`<span class="err">` + template.HTMLEscapeString(e.Fault.Message) + `</span>`), nil
	case e.SessionStart != nil:
		if e.SessionStart.Agent != nil {
			label := e.SessionStart.Agent.Name
			if e.SessionStart.Agent.Version != "" {
				label += " " + e.SessionStart.Agent.Version
			}
			return template.HTML(template.HTMLEscapeString(label)), nil
		}
		return "", nil
	case e.SessionEnd != nil:
		return template.HTML(template.HTMLEscapeString(e.SessionEnd.Reason)), nil
	}
	return extensionRenderer(e.EntryType)(e)
}

func preBlock(label string, raw json.RawMessage) template.HTML {
	out := template.HTMLEscapeString(label)
	if len(raw) > 0 {
		var v any
		pretty := []byte(raw)
		if err := json.Unmarshal(raw, &v); err == nil {
			if p, err := json.MarshalIndent(v, "", "  "); err == nil {
				pretty = p
			}
		}
		out += "<pre>" + template.HTMLEscapeString(string(pretty)) + "</pre>"
	}
	return template.HTML(out)
}
