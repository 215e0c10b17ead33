package semantic

// Violation is one diagnosed rule violation. Rule, SpecRef, and EntryIDs
// are a hard contract with consumers: together they must let a reporting
// layer point at the exact offending record(s) without re-deriving any
// document context.
type Violation struct {
	Rule     string   `json:"rule"`
	Message  string   `json:"message"`
	SpecRef  string   `json:"specRef"`
	EntryIDs []string `json:"entryIds"`
}

// Result is the complete outcome of one semantic validation pass.
// Valid is true iff Errors is empty; Warnings never affect it.
type Result struct {
	Valid    bool        `json:"valid"`
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
}

// HasRule reports whether any error or warning carries the given rule id.
func (r Result) HasRule(rule string) bool {
	for _, v := range r.Errors {
		if v.Rule == rule {
			return true
		}
	}
	for _, v := range r.Warnings {
		if v.Rule == rule {
			return true
		}
	}
	return false
}
