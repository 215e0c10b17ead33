package aef

import "github.com/warmautomation/aef/internal/entry"

// SessionOption configures a StartSession call.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	sessionID string
	title     string
	agent     *entry.AgentInfo
}

// WithAgent records which agent produced the session.
func WithAgent(name, version string) SessionOption {
	return func(c *sessionConfig) {
		c.agent = &entry.AgentInfo{Name: name, Version: version}
	}
}

// WithTitle sets a human-readable session title.
func WithTitle(title string) SessionOption {
	return func(c *sessionConfig) { c.title = title }
}

// WithSessionID overrides the generated session identifier, for callers
// that already have one from an upstream system.
func WithSessionID(id string) SessionOption {
	return func(c *sessionConfig) { c.sessionID = id }
}
