package stash

// ObjectPath is the resolved location of a stored object.
//
// Directory is either "/" or a single segment wrapped as "/seg/". Path is the
// client-facing logical path (Directory + Filename) and Key is the same path
// relative to the storage root, which is what FileStorage implementations take.
type ObjectPath struct {
	Directory string
	Filename  string
	Path      string
	Key       string
}

// UploadObject describes an incoming upload before any bytes are read.
type UploadObject struct {
	// Directory is the optional single-segment subdirectory. nil means the root.
	Directory *string
	Filename  string
	// Safe rejects the upload with ErrConflict if an object already exists.
	Safe bool
}

type UploadResult struct {
	Message   string `json:"message"`
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Directory string `json:"directory"`
	SizeBytes int64  `json:"size_bytes"`
	Etag      string `json:"etag"`
}

// Object is a stored object read back in full.
type Object struct {
	Key         string
	ContentType string
	Content     []byte
}

// Paste is a stored text object prepared for the paste view.
type Paste struct {
	Key   string
	Title string
	Text  string
}

type SaveResult struct {
	BytesWritten int64
	Etag         string
}

// WriteOptions controls how FileStorage.Write publishes a file.
type WriteOptions struct {
	// Exclusive fails the write with ErrConflict instead of replacing an existing file.
	Exclusive bool
}

// Limits holds the request limits applied by Service.
type Limits struct {
	// MaxUploadBytes caps the size of a single upload. Zero or less disables the cap.
	MaxUploadBytes int64
}

// DefaultMaxUploadBytes is the upload cap used when none is configured (10 MiB).
const DefaultMaxUploadBytes int64 = 10 << 20
