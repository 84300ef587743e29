package clientcli

// UploadOptions configures an upload operation.
type UploadOptions struct {
	LocalPath string
	Directory string // single segment; empty = root
	Filename  string // optional, defaults to the local base name
	Safe      bool   // refuse to overwrite an existing object
	Recursive bool
}

// UploadResult represents the result of uploading a single file.
type UploadResult struct {
	LocalPath string `json:"local_path"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
	ETag      string `json:"etag"`
	Size      int64  `json:"size_bytes"`
	Err       error  `json:"-"` // nil on success
}

// DownloadOptions configures a download operation.
type DownloadOptions struct {
	RemotePath string
	LocalPath  string // empty = derive from remote, "-" = stdout
}

// DownloadResult represents the result of downloading a file.
type DownloadResult struct {
	RemotePath  string `json:"remote_path"`
	LocalPath   string `json:"local_path"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOptions configures a delete operation.
type DeleteOptions struct {
	Paths []string
}

// DeleteResult represents the result of deleting a single file.
type DeleteResult struct {
	Path    string `json:"path"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// PasteOptions configures a paste lookup.
type PasteOptions struct {
	RemotePath string
	Fetch      bool // return the rendered page instead of only its URL
}

// PasteResult describes a paste page.
type PasteResult struct {
	RemotePath string `json:"remote_path"`
	URL        string `json:"url"`
}

// ServerInfo is the server banner returned by GET /.
type ServerInfo struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

// serverUploadResult mirrors the JSON response from the server.
type serverUploadResult struct {
	Message   string `json:"message"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
	SizeBytes int64  `json:"size_bytes"`
	ETag      string `json:"etag"`
}

// serverError mirrors the JSON error body from the server.
type serverError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
