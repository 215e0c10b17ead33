// Package schema validates the shape of a single raw AEF record: required
// base keys, field types, and the typed payload of core entry kinds. It
// is strictly per-record; cross-entry rules live in internal/semantic,
// which assumes every entry it receives has passed this check.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/warmautomation/aef/internal/entry"
)

var validate = validator.New()

// Issue is one structural defect in a record.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of validating one raw record.
type Result struct {
	Class  entry.Class `json:"-"`
	Issues []Issue     `json:"issues,omitempty"`

	// Entry is the decoded record, set only when validation passed.
	Entry *entry.Entry `json:"-"`
}

// Valid reports whether the record is structurally sound.
func (r Result) Valid() bool {
	return len(r.Issues) == 0
}

func (r *Result) addf(field, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateShape checks a single raw JSON record against the base-entry
// shape and, for core kinds, the kind-specific payload. Classification of
// the entryType (core/extension/invalid) is part of the result.
func ValidateShape(raw []byte) Result {
	var res Result

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		res.addf("", "invalid JSON object: %v", err)
		return res
	}

	checkBaseFields(fields, &res)

	typeRaw, ok := fields["entryType"]
	if ok {
		var entryType string
		if json.Unmarshal(typeRaw, &entryType) == nil {
			res.Class = entry.Classify(entryType)
			if res.Class == entry.ClassInvalid {
				res.addf("entryType", "%q is neither a core type nor a namespaced extension type", entryType)
			}
		}
	}

	if !res.Valid() {
		return res
	}

	var e entry.Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		res.addf("", "decode entry: %v", err)
		return res
	}
	checkPayload(&e, fields, &res)
	if res.Valid() {
		res.Entry = &e
	}
	return res
}

// checkBaseFields verifies presence and primitive type of every base key.
func checkBaseFields(fields map[string]json.RawMessage, res *Result) {
	requireInt(fields, "schemaVersion", res, func(v int64) {
		if v != entry.SchemaVersion {
			res.addf("schemaVersion", "must be %d, got %d", entry.SchemaVersion, v)
		}
	})
	requireString(fields, "id", res)
	requireInt(fields, "timestamp", res, func(v int64) {
		if v < 0 {
			res.addf("timestamp", "must be non-negative, got %d", v)
		}
	})
	requireString(fields, "entryType", res)
	requireString(fields, "sessionId", res)

	if raw, ok := fields["parentId"]; ok {
		var s string
		if json.Unmarshal(raw, &s) != nil || s == "" {
			res.addf("parentId", "must be a non-empty string when present")
		}
	}
	if raw, ok := fields["sequenceNumber"]; ok {
		if _, err := decodeInt(raw); err != nil {
			res.addf("sequenceNumber", "must be an integer when present")
		}
	}
	if raw, ok := fields["dependencyIds"]; ok {
		var deps []string
		if json.Unmarshal(raw, &deps) != nil {
			res.addf("dependencyIds", "must be an array of strings when present")
			return
		}
		for i, dep := range deps {
			if dep == "" {
				res.addf("dependencyIds", "element %d must be a non-empty string", i)
			}
		}
	}
}

// checkPayload runs struct-tag validation on the decoded core payload and
// the presence checks that tags cannot express (a bool key that must be
// present even when false).
func checkPayload(e *entry.Entry, fields map[string]json.RawMessage, res *Result) {
	var payload any
	switch e.EntryType {
	case entry.TypeSessionStart:
		payload = e.SessionStart
	case entry.TypeSessionEnd:
		payload = e.SessionEnd
	case entry.TypeMessage:
		payload = e.Message
	case entry.TypeToolCall:
		payload = e.ToolCall
	case entry.TypeToolResult:
		payload = e.ToolResult
		raw, ok := fields["success"]
		if !ok {
			res.addf("success", "tool.result requires a boolean success field")
		} else {
			var b bool
			if json.Unmarshal(raw, &b) != nil {
				res.addf("success", "must be a boolean")
			}
		}
	case entry.TypeError:
		payload = e.Fault
	default:
		return // extension entries carry no payload schema
	}

	if err := validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				res.addf(fe.Field(), "fails %q constraint", fe.Tag())
			}
			return
		}
		res.addf("", "payload validation: %v", err)
	}
}

func requireString(fields map[string]json.RawMessage, key string, res *Result) {
	raw, ok := fields[key]
	if !ok {
		res.addf(key, "missing required key")
		return
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		res.addf(key, "must be a string")
		return
	}
	if s == "" {
		res.addf(key, "must be non-empty")
	}
}

func requireInt(fields map[string]json.RawMessage, key string, res *Result, then func(int64)) {
	raw, ok := fields[key]
	if !ok {
		res.addf(key, "missing required key")
		return
	}
	v, err := decodeInt(raw)
	if err != nil {
		res.addf(key, "must be an integer")
		return
	}
	if then != nil {
		then(v)
	}
}

// decodeInt accepts JSON numbers that are exact integers and rejects
// fractional values, which plain float64 decoding would silently truncate.
func decodeInt(raw json.RawMessage) (int64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %v", f)
	}
	return int64(f), nil
}
