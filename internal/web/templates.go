package web

import (
	"html/template"

	"github.com/rvilkov/loglab/internal/runindex"
)

type indexData struct {
	LogPath string
}

type runsData struct {
	LogPath string
	Summary *runindex.Summary
}

const baseCSS = `
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; color: #1a1a1a; background: #fafafa; padding: 2rem; max-width: 960px; margin: 0 auto; line-height: 1.5; }
  h1 { font-size: 1.4rem; margin-bottom: 0.5rem; }
  h1 a { color: inherit; text-decoration: none; }
  nav { margin-bottom: 1rem; font-size: 0.9rem; }
  nav a { color: #3b82f6; text-decoration: none; margin-right: 1rem; }
  .meta { color: #555; font-size: 0.9rem; margin-bottom: 1rem; font-family: "SF Mono", Monaco, Consolas, monospace; }
  table { width: 100%; border-collapse: collapse; font-size: 0.85rem; margin: 0.5rem 0; }
  th { text-align: left; background: #f9fafb; border-bottom: 2px solid #e5e7eb; padding: 0.4rem 0.6rem; font-weight: 600; }
  td { padding: 0.35rem 0.6rem; border-bottom: 1px solid #f3f4f6; }
  tr:hover { background: #f9fafb; }
  .num { text-align: right; white-space: nowrap; }
  .mono { font-family: "SF Mono", Monaco, Consolas, monospace; font-size: 0.8rem; }
  .empty { color: #9ca3af; font-style: italic; padding: 1rem 0; }
  footer { margin-top: 2rem; padding-top: 1rem; border-top: 1px solid #e5e7eb; font-size: 0.8rem; color: #9ca3af; }
`

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>loglab — Live</title>
<style>` + baseCSS + `
  form { display: flex; flex-wrap: wrap; gap: 0.5rem; margin-bottom: 1rem; }
  input { border: 1px solid #e5e7eb; border-radius: 4px; padding: 0.3rem 0.5rem; font-size: 0.85rem; }
  button { background: #3b82f6; color: #fff; border: 0; border-radius: 4px; padding: 0.3rem 0.9rem; font-size: 0.85rem; cursor: pointer; }
  #log { display: flex; flex-direction: column; gap: 0.5rem; }
  .entry { background: #fff; border: 1px solid #e5e7eb; border-left: 4px solid #9ca3af; border-radius: 6px; padding: 0.5rem 0.75rem; }
  .entry.ERROR { border-left-color: #ef4444; }
  .entry.WARN, .entry.WARNING { border-left-color: #f59e0b; }
  .entry.INFO { border-left-color: #3b82f6; }
  .entry.DEBUG { border-left-color: #06b6d4; }
  .entry .head { font-size: 0.8rem; color: #555; margin-bottom: 0.2rem; }
  .entry .head b { color: #1a1a1a; }
  .entry pre { font-size: 0.8rem; color: #555; background: #f9fafb; border-radius: 4px; padding: 0.35rem 0.5rem; margin-top: 0.3rem; overflow-x: auto; }
  .entry img { max-width: 320px; display: block; margin-top: 0.3rem; border-radius: 4px; }
  #status { font-size: 0.8rem; color: #9ca3af; margin-bottom: 0.5rem; }
</style>
</head>
<body>

<h1><a href="/">loglab</a> — Live</h1>
<nav><a href="/">Live</a><a href="/runs">Runs Index</a></nav>
<div class="meta">{{.LogPath}}</div>

<form id="filters">
  <input name="level" placeholder="level">
  <input name="section" placeholder="section">
  <input name="run_name" placeholder="run name">
  <input name="run_id" placeholder="run id">
  <input name="group" placeholder="group">
  <input name="seconds" placeholder="last N seconds" type="number" min="1">
  <button type="submit">Apply</button>
</form>
<div id="status">connecting…</div>
<div id="log"></div>

<footer>loglab live stream</footer>

<script>
var source = null;
var known = ["time","level","section","message","msg","event","run_name","run_id","group","cache_path"];

function connect(params) {
  if (source) { source.close(); }
  source = new EventSource("/stream" + (params ? "?" + params : ""));
  var status = document.getElementById("status");
  source.onopen = function () { status.textContent = "live"; };
  source.onerror = function () { status.textContent = "disconnected — retrying"; };
  source.onmessage = function (ev) { append(JSON.parse(ev.data)); };
}

function append(rec) {
  var div = document.createElement("div");
  div.className = "entry " + (rec.level || "").toUpperCase();

  var head = document.createElement("div");
  head.className = "head";
  var bits = [];
  if (rec.time) { bits.push(rec.time); }
  if (rec.level) { bits.push("<b>" + esc(rec.level.toUpperCase()) + "</b>"); }
  if (rec.section) { bits.push("[" + esc(rec.section) + "]"); }
  if (rec.run_name) { bits.push("run:" + esc(rec.run_name)); }
  if (rec.run_id) { bits.push("id:" + esc(rec.run_id)); }
  if (rec.group) { bits.push("group:" + esc(rec.group)); }
  head.innerHTML = bits.join(" ");
  div.appendChild(head);

  var msg = document.createElement("div");
  msg.textContent = rec.message || rec.msg || rec.event || "";
  div.appendChild(msg);

  var extra = {};
  var hasExtra = false;
  for (var k in rec) {
    if (known.indexOf(k) < 0) { extra[k] = rec[k]; hasExtra = true; }
  }
  if (hasExtra) {
    var pre = document.createElement("pre");
    pre.textContent = JSON.stringify(extra, null, 2);
    div.appendChild(pre);
  }

  if (rec.cache_path) {
    var img = document.createElement("img");
    img.src = "/cache/" + rec.cache_path;
    img.alt = rec.cache_path;
    div.appendChild(img);
  }

  var log = document.getElementById("log");
  log.appendChild(div);
  window.scrollTo(0, document.body.scrollHeight);
}

function esc(s) {
  return String(s).replace(/&/g, "&amp;").replace(/</g, "&lt;").replace(/>/g, "&gt;");
}

document.getElementById("filters").addEventListener("submit", function (ev) {
  ev.preventDefault();
  document.getElementById("log").innerHTML = "";
  connect(new URLSearchParams(new FormData(ev.target)).toString());
});

connect("");
</script>
</body>
</html>
`))

var runsTmpl = template.Must(template.New("runs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>loglab — Runs Index</title>
<style>` + baseCSS + `</style>
</head>
<body>

<h1><a href="/">loglab</a> — Runs Index</h1>
<nav><a href="/">Live</a><a href="/runs">Runs Index</a></nav>
<div class="meta">{{.LogPath}}</div>

{{if .Summary.Runs}}
{{range $name, $run := .Summary.Runs}}
<h2>{{$name}} <span class="num">({{$run.Total}} records)</span></h2>
{{if $run.RunIDs}}
<table>
<thead><tr><th>Run ID</th><th class="num">Count</th><th class="num">Earliest</th><th class="num">Latest</th></tr></thead>
<tbody>
{{range $run.RunIDs}}<tr><td class="mono">{{.RunID}}</td><td class="num">{{.Count}}</td><td class="num mono">{{.Earliest}}</td><td class="num mono">{{.Latest}}</td></tr>
{{end}}</tbody>
</table>
{{else}}
<div class="empty">No run ids recorded.</div>
{{end}}
{{end}}
{{else}}
<div class="empty">No runs recorded yet.</div>
{{end}}

<footer>loglab runs index</footer>
</body>
</html>
`))
