package stash

import (
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// DefaultContentType is served for names without a known extension.
const DefaultContentType = "application/octet-stream"

// contentTypes covers the extensions commonly uploaded to a paste/CDN store.
// It is consulted before the platform MIME table.
var contentTypes = map[string]string{
	".txt":   "text/plain; charset=utf-8",
	".log":   "text/plain; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".csv":   "text/csv; charset=utf-8",
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".mjs":   "text/javascript; charset=utf-8",
	".json":  "application/json",
	".xml":   "text/xml; charset=utf-8",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".toml":  "application/toml",
	".pdf":   "application/pdf",
	".zip":   "application/zip",
	".gz":    "application/gzip",
	".tar":   "application/x-tar",
	".wasm":  "application/wasm",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".avif":  "image/avif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".mp3":   "audio/mpeg",
	".ogg":   "audio/ogg",
	".wav":   "audio/wav",
	".mp4":   "video/mp4",
	".webm":  "video/webm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
}

// DetectContentType determines the MIME type from a file name's extension.
func DetectContentType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultContentType
	}

	if contentType, ok := contentTypes[ext]; ok {
		return contentType
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		return DefaultContentType
	}

	return contentType
}

// IsText reports whether content can be rendered as text in the paste view.
func IsText(content []byte) bool {
	return utf8.Valid(content)
}
