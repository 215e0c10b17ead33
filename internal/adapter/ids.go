package adapter

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// newEntryID returns a fresh ULID for entries the source format gives no
// identifier of its own. ULIDs sort by creation time, which keeps
// synthesized ids easy to eyeball in a converted document.
func newEntryID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// newSessionID is the fallback for sources that omit a session id.
func newSessionID() string {
	return uuid.NewString()
}
