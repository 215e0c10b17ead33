// Package aef provides an in-process emitter for Go agent frameworks
// that want to produce Agent Event Format logs directly, without going
// through a format adapter. The emitter generates entry ids, session
// framing, sequence numbers, and tool-call correlation ids so that its
// output satisfies the format's cross-entry rules by construction.
//
// Usage:
//
//	em, err := aef.Open("run.jsonl")
//	if err != nil {
//		return err
//	}
//	defer em.Close()
//
//	sess, _ := em.StartSession(aef.WithAgent("mybot", "1.0"))
//	_ = sess.Message("user", "find the bug")
//	call, _ := sess.ToolCall("grep", []byte(`{"pattern":"panic"}`))
//	_ = call.Success([]byte(`{"matches":3}`))
//	_ = sess.End("completed")
//
// The SDK links directly against the internal entry model. External
// users import github.com/warmautomation/aef/sdk/go/aef.
package aef
