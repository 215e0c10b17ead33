package semantic

// Rule identifiers for hard errors (MUST violations). Stable strings:
// downstream tooling keys exit codes and report annotations off them.
const (
	RuleSessionStartFirst = "session-start-first"
	RuleSessionEndLast    = "session-end-last"
	RuleSessionContiguous = "session-contiguous"
	RuleSeqMonotonic      = "seq-monotonic"
	RuleCallIDMatch       = "call-id-match"
	RuleErrorRequired     = "error-required"
	RuleParentExists      = "pid-exists"
	RuleParentSameSession = "pid-same-session"
	RuleDepsExist         = "deps-exist"
	RuleDepsSameSession   = "deps-same-session"
)

// Rule identifiers for warnings (SHOULD violations). These never affect
// Result.Valid.
const (
	RuleTimestampMonotonic = "ts-monotonic"
	RuleIDUnique           = "id-unique"
	RuleResultExpected     = "result-expected"
)

// specRefs maps each rule to the AEF format document section that defines
// it, carried on every violation so consumers can cite the format text.
var specRefs = map[string]string{
	RuleSessionStartFirst:  "AEF §3.4 sessions",
	RuleSessionEndLast:     "AEF §3.4 sessions",
	RuleSessionContiguous:  "AEF §3.4 sessions",
	RuleSeqMonotonic:       "AEF §3.1 sequenceNumber",
	RuleCallIDMatch:        "AEF §3.5 tool correlation",
	RuleErrorRequired:      "AEF §3.3 tool.result",
	RuleParentExists:       "AEF §3.1 parentId",
	RuleParentSameSession:  "AEF §3.1 parentId",
	RuleDepsExist:          "AEF §3.1 dependencyIds",
	RuleDepsSameSession:    "AEF §3.1 dependencyIds",
	RuleTimestampMonotonic: "AEF §3.1 timestamp",
	RuleIDUnique:           "AEF §3.1 id",
	RuleResultExpected:     "AEF §3.3 tool.result",
}

// SpecRef returns the format-document section for a rule, or an empty
// string for an unknown rule id.
func SpecRef(rule string) string {
	return specRefs[rule]
}
