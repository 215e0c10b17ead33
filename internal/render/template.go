package render

import "html/template"

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #1c1c1c; }
h1 { font-size: 1.4rem; }
.summary { color: #555; margin-bottom: 1.5rem; }
.summary .bad { color: #b00020; font-weight: 600; }
.summary .warn { color: #8a6d00; font-weight: 600; }
.session { border: 1px solid #ddd; border-radius: 6px; margin-bottom: 1.5rem; }
.session > h2 { font-size: 0.9rem; font-weight: 600; background: #f6f6f6; margin: 0; padding: 0.5rem 0.75rem; border-bottom: 1px solid #ddd; }
.entry { padding: 0.6rem 0.75rem; border-bottom: 1px solid #eee; }
.entry:last-child { border-bottom: none; }
.entry .meta { font-size: 0.75rem; color: #777; }
.entry .meta code { color: #444; }
.entry.extension { background: #f7f4ff; }
.entry.failure { background: #fff4f4; }
.entry pre { background: #f6f6f6; padding: 0.5rem; border-radius: 4px; overflow-x: auto; font-size: 0.8rem; }
.role { display: inline-block; font-size: 0.7rem; text-transform: uppercase; letter-spacing: 0.05em; color: #555; margin-right: 0.4rem; }
.err { color: #b00020; }
.violation { font-size: 0.8rem; margin-top: 0.3rem; padding: 0.3rem 0.5rem; border-left: 3px solid #b00020; background: #fdf0f0; }
table.ext { font-size: 0.8rem; border-collapse: collapse; }
table.ext th { text-align: left; padding-right: 0.75rem; vertical-align: top; color: #555; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="summary">generated {{.Generated}} &middot;
{{- if .Errors}} <span class="bad">{{.Errors}} error(s)</span>{{else}} no errors{{end}} &middot;
{{- if .Warnings}} <span class="warn">{{.Warnings}} warning(s)</span>{{else}} no warnings{{end}}</p>
{{range .Sessions}}
<div class="session">
<h2>session {{.ID}}</h2>
{{range .Entries}}
<div class="entry {{.CSSClass}}" id="entry-{{.ID}}">
<div class="meta"><code>{{.Type}}</code> &middot; {{.ID}} &middot; {{.Time}}</div>
{{.Body}}
{{range .Violations}}<div class="violation"><strong>{{.Rule}}</strong> {{.Message}} <em>{{.SpecRef}}</em></div>{{end}}
</div>
{{end}}
</div>
{{end}}
</body>
</html>
`))
