package export

import (
	"encoding/json"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/rvilkov/loglab/internal/stream"
)

// htmlEntry holds pre-formatted record data for the HTML template.
type htmlEntry struct {
	Time      string
	Level     string
	LevelCSS  string
	Section   string
	RunName   string
	RunID     string
	Group     string
	Message   string
	Extra     string
	CachePath string
}

type htmlData struct {
	Source    string
	Generated string
	Count     int
	Entries   []htmlEntry
}

// htmlWriter buffers entries and renders the page on Close.
type htmlWriter struct {
	out     io.Writer
	src     string
	entries []htmlEntry
}

func newHTMLWriter(out io.Writer, src string) *htmlWriter {
	return &htmlWriter{out: out, src: src}
}

func (w *htmlWriter) Write(rec stream.Record) error {
	e := htmlEntry{
		Time:      rec.TimeString(),
		Level:     strings.ToUpper(rec.Level()),
		Section:   rec.Section(),
		RunName:   rec.RunName(),
		RunID:     rec.RunID(),
		Group:     rec.Group(),
		Message:   rec.Message(),
		CachePath: rec.CachePath(),
	}
	switch e.Level {
	case "ERROR", "WARN", "WARNING", "INFO", "DEBUG":
		e.LevelCSS = e.Level
	}
	if extra := rec.Extra(); extra != nil {
		if data, err := json.MarshalIndent(extra, "", "  "); err == nil {
			e.Extra = string(data)
		}
	}
	w.entries = append(w.entries, e)
	return nil
}

func (w *htmlWriter) Close() error {
	return exportTmpl.Execute(w.out, htmlData{
		Source:    w.src,
		Generated: time.Now().Format("2006-01-02 15:04:05"),
		Count:     len(w.entries),
		Entries:   w.entries,
	})
}

var exportTmpl = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Log Export: {{.Source}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: #1a1a1a; background: #fafafa; padding: 2rem; max-width: 960px; margin: 0 auto; line-height: 1.5; }
  h1 { font-size: 1.4rem; margin-bottom: 0.5rem; }
  .meta { color: #555; font-size: 0.9rem; margin-bottom: 1rem; font-family: "SF Mono", Monaco, Consolas, monospace; }
  .entry { background: #fff; border: 1px solid #e5e7eb; border-left: 4px solid #9ca3af; border-radius: 6px; padding: 0.5rem 0.75rem; margin-bottom: 0.5rem; }
  .entry.ERROR { border-left-color: #ef4444; }
  .entry.WARN, .entry.WARNING { border-left-color: #f59e0b; }
  .entry.INFO { border-left-color: #3b82f6; }
  .entry.DEBUG { border-left-color: #06b6d4; }
  .head { font-size: 0.8rem; color: #555; margin-bottom: 0.2rem; }
  .head b { color: #1a1a1a; }
  pre { font-size: 0.8rem; color: #555; background: #f9fafb; border-radius: 4px; padding: 0.35rem 0.5rem; margin-top: 0.3rem; overflow-x: auto; }
  .artifact { font-size: 0.8rem; color: #0e7490; margin-top: 0.3rem; font-family: "SF Mono", Monaco, Consolas, monospace; }
  .empty { color: #9ca3af; font-style: italic; padding: 1rem 0; }
  footer { margin-top: 2rem; padding-top: 1rem; border-top: 1px solid #e5e7eb; font-size: 0.8rem; color: #9ca3af; }
</style>
</head>
<body>

<h1>Log Export</h1>
<div class="meta">{{.Source}} — {{.Count}} records — generated {{.Generated}}</div>

{{if .Entries}}
{{range .Entries}}<div class="entry {{.LevelCSS}}">
<div class="head">{{if .Time}}{{.Time}} {{end}}{{if .Level}}<b>{{.Level}}</b> {{end}}{{if .Section}}[{{.Section}}] {{end}}{{if .RunName}}run:{{.RunName}} {{end}}{{if .RunID}}id:{{.RunID}} {{end}}{{if .Group}}group:{{.Group}}{{end}}</div>
{{if .Message}}<div>{{.Message}}</div>{{end}}
{{if .Extra}}<pre>{{.Extra}}</pre>{{end}}
{{if .CachePath}}<div class="artifact">artifact: {{.CachePath}}</div>{{end}}
</div>
{{end}}
{{else}}
<div class="empty">No matching records.</div>
{{end}}

<footer>Generated by loglab export</footer>
</body>
</html>
`))
