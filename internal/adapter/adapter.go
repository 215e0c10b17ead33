// Package adapter converts vendor-specific agent logs into AEF entry
// sequences. Adapters are mechanical: they reshape records, synthesize
// the session framing the source format leaves implicit, and leave all
// correctness judgment to the validators.
package adapter

import (
	"fmt"
	"io"
	"sort"

	"github.com/warmautomation/aef/internal/entry"
)

// maxLineBytes bounds a single source line; agent transcripts routinely
// exceed the default scanner buffer.
const maxLineBytes = 10 * 1024 * 1024

// Adapter converts one source format into AEF entries in document order.
type Adapter interface {
	Name() string
	Convert(r io.Reader) ([]entry.Entry, error)
}

var registry = map[string]Adapter{}

// Register adds an adapter under its name. Duplicate names panic: they
// are wiring mistakes, not runtime conditions.
func Register(a Adapter) {
	if _, dup := registry[a.Name()]; dup {
		panic(fmt.Sprintf("adapter %q registered twice", a.Name()))
	}
	registry[a.Name()] = a
}

// Lookup returns the adapter registered under name.
func Lookup(name string) (Adapter, error) {
	a, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown adapter %q (available: %v)", name, Names())
	}
	return a, nil
}

// Names lists registered adapter names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
