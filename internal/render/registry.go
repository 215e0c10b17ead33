package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/warmautomation/aef/internal/entry"
)

// Renderer produces the HTML body fragment for one entry.
type Renderer func(e *entry.Entry) (template.HTML, error)

type patternRenderer struct {
	pattern string
	fn      Renderer
}

var (
	regMu      sync.Mutex
	extensions []patternRenderer
)

// RegisterExtension installs a renderer for extension entry types whose
// entryType matches pattern (path.Match syntax, e.g. "acme.metrics.*").
// Patterns are tried in registration order; the first match wins.
func RegisterExtension(pattern string, fn Renderer) {
	regMu.Lock()
	defer regMu.Unlock()
	extensions = append(extensions, patternRenderer{pattern: pattern, fn: fn})
}

// extensionRenderer resolves the renderer for an extension entry type,
// falling back to a key/value table of its extra fields.
func extensionRenderer(entryType string) Renderer {
	regMu.Lock()
	defer regMu.Unlock()
	for _, pr := range extensions {
		if ok, err := path.Match(pr.pattern, entryType); err == nil && ok {
			return pr.fn
		}
	}
	return renderExtensionFallback
}

func renderExtensionFallback(e *entry.Entry) (template.HTML, error) {
	if len(e.Extra) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(e.Extra))
	for k := range e.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<table class="ext">`)
	for _, k := range keys {
		var pretty []byte
		var v any
		if err := json.Unmarshal(e.Extra[k], &v); err == nil {
			pretty, _ = json.MarshalIndent(v, "", "  ")
		} else {
			pretty = e.Extra[k]
		}
		fmt.Fprintf(&b, "<tr><th>%s</th><td><pre>%s</pre></td></tr>",
			template.HTMLEscapeString(k), template.HTMLEscapeString(string(pretty)))
	}
	b.WriteString("</table>")
	return template.HTML(b.String()), nil
}
