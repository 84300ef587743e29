package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/sagarc03/stash"
)

var pasteTemplate = template.Must(template.New("paste").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/styles/github-dark.min.css">
<style>
body { margin: 0; background: #0d1117; color: #c9d1d9; font-family: ui-monospace, SFMono-Regular, Menlo, monospace; }
header { padding: 12px 16px; border-bottom: 1px solid #30363d; }
header a { color: #58a6ff; text-decoration: none; float: right; }
pre { margin: 0; }
pre code.hljs { padding: 16px; }
</style>
</head>
<body>
<header>{{.Title}}<a href="{{.RawURL}}">raw</a></header>
<pre><code class="{{.Language}}">{{.Text}}</code></pre>
<script src="https://cdnjs.cloudflare.com/ajax/libs/highlight.js/11.9.0/highlight.min.js"></script>
<script>hljs.highlightAll();</script>
</body>
</html>
`))

// languages maps file extensions to highlight.js language classes.
// Extensions missing here leave detection to highlight.js.
var languages = map[string]string{
	".c":    "c",
	".cpp":  "cpp",
	".css":  "css",
	".go":   "go",
	".h":    "c",
	".html": "xml",
	".java": "java",
	".js":   "javascript",
	".json": "json",
	".md":   "markdown",
	".py":   "python",
	".rb":   "ruby",
	".rs":   "rust",
	".sh":   "bash",
	".sql":  "sql",
	".toml": "ini",
	".ts":   "typescript",
	".txt":  "plaintext",
	".xml":  "xml",
	".yaml": "yaml",
	".yml":  "yaml",
}

type pasteView struct {
	Title    string
	Text     string
	Language string
	RawURL   string
}

func languageClass(name string) string {
	if lang, ok := languages[strings.ToLower(path.Ext(name))]; ok {
		return "language-" + lang
	}
	return ""
}

// rawURL returns the download link for key with every segment escaped.
func rawURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "/uploads/" + strings.Join(segments, "/")
}

func (h *Handler) handlePaste(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/pastes/")

	p, err := h.service.Paste(r.Context(), key)
	if err != nil {
		if errors.Is(err, stash.ErrNotFound) || errors.Is(err, stash.ErrUnsupportedContent) {
			slog.Debug("paste not available", "error", err)
			writeNotFoundPage(w)
			return
		}
		HandleError(w, err)
		return
	}

	view := pasteView{
		Title:    p.Title,
		Text:     p.Text,
		Language: languageClass(p.Title),
		RawURL:   rawURL(p.Key),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := pasteTemplate.Execute(w, view); err != nil {
		slog.Error("failed to render paste", "key", p.Key, "error", err)
	}
}
