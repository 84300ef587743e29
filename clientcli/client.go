package clientcli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds each request unless WithTimeout or WithHTTPClient says otherwise.
const DefaultTimeout = 30 * time.Second

// requestIDHeader is echoed by the server's request id middleware and shows up in its logs.
const requestIDHeader = "X-Request-Id"

// maxErrorBody caps how much of a failed response is kept in an APIError.
const maxErrorBody = 64 << 10

// Client talks to a single stash server.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// New returns a Client for cfg. An empty endpoint means DefaultEndpoint.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	cfg = cfg.WithDefaults()

	c := &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		token:    cfg.Token,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Info fetches the server banner from GET /.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	req, err := c.request(ctx, http.MethodGet, c.endpoint+"/", http.NoBody, false)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var info ServerInfo
	if err := decode(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CheckToken asks the server whether the configured token may upload,
// without storing anything. A rejected token yields ErrUnauthorized.
func (c *Client) CheckToken(ctx context.Context) error {
	if c.token == "" {
		return ErrTokenRequired
	}

	req, err := c.request(ctx, http.MethodGet, c.endpoint+"/upload", http.NoBody, true)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	discard(resp)
	return nil
}

// Upload sends opts.LocalPath to POST /upload. With opts.Recursive a
// directory is walked and each file is sent under its slash-separated path
// relative to that directory; per-file failures are reported in the results.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) ([]UploadResult, error) {
	if opts.LocalPath == "" {
		return nil, fmt.Errorf("upload: %w", ErrEmptyPath)
	}
	query := uploadQuery(opts)

	if !opts.Recursive {
		name := opts.Filename
		if name == "" {
			name = filepath.Base(opts.LocalPath)
		}
		result, err := c.uploadFile(ctx, opts.LocalPath, name, query)
		if err != nil {
			return nil, err
		}
		return []UploadResult{result}, nil
	}

	files, err := localFiles(opts.LocalPath)
	if err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := c.uploadFile(ctx, f.path, f.name, query)
		if err != nil {
			result = UploadResult{LocalPath: f.path, Filename: f.name, Err: err}
		}
		results = append(results, result)
	}
	return results, nil
}

type localFile struct {
	path string // on disk
	name string // sent as the multipart filename
}

// localFiles lists the regular files under root. A root that is a file is
// returned alone under its base name.
func localFiles(root string) ([]localFile, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat local path: %w", err)
	}
	if !info.IsDir() {
		return []localFile{{path: root, name: filepath.Base(root)}}, nil
	}

	var files []localFile
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, localFile{path: path, name: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return files, nil
}

func uploadQuery(opts UploadOptions) url.Values {
	query := url.Values{}
	if opts.Directory != "" {
		query.Set("directory", opts.Directory)
	}
	if opts.Safe {
		query.Set("safe", "true")
	}
	return query
}

// uploadFile streams one file as the single part of a multipart body.
func (c *Client) uploadFile(ctx context.Context, localPath, name string, query url.Values) (UploadResult, error) {
	file, err := os.Open(localPath) //#nosec G304 -- localPath is user-provided input
	if err != nil {
		return UploadResult{}, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	pr, pw := io.Pipe()
	defer func() { _ = pr.Close() }()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	target := c.endpoint + "/upload"
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := c.request(ctx, http.MethodPost, target, pr, true)
	if err != nil {
		return UploadResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.send(req)
	if err != nil {
		return UploadResult{}, err
	}

	var stored serverUploadResult
	if err := decode(resp, &stored); err != nil {
		return UploadResult{}, err
	}
	return UploadResult{
		LocalPath: localPath,
		Path:      stored.Path,
		Filename:  stored.Filename,
		Directory: stored.Directory,
		ETag:      stored.ETag,
		Size:      stored.SizeBytes,
	}, nil
}

// Download fetches a stored object. With opts.LocalPath "-" the body is
// returned for the caller to read and close; otherwise it is saved to
// opts.LocalPath, or to the object's base name in the working directory.
func (c *Client) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, io.ReadCloser, error) {
	key := remoteKey(opts.RemotePath)
	if key == "" {
		return nil, nil, fmt.Errorf("download: %w", ErrEmptyPath)
	}

	req, err := c.request(ctx, http.MethodGet, c.objectURL("/uploads", key), http.NoBody, false)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, nil, err
	}

	result := &DownloadResult{
		RemotePath:  key,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		LocalPath:   opts.LocalPath,
	}
	if opts.LocalPath == "-" {
		return result, resp.Body, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if result.LocalPath == "" {
		result.LocalPath = filepath.Base(key)
	}
	if result.Size, err = saveFile(result.LocalPath, resp.Body); err != nil {
		return nil, nil, err
	}
	return result, nil, nil
}

// saveFile writes r to path, creating parent directories, and returns the byte count.
func saveFile(path string, r io.Reader) (int64, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("create directory: %w", err)
		}
	}

	file, err := os.Create(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(file, r)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("write file: %w", err)
	}
	return n, nil
}

// Delete removes each path in turn. A failed path is recorded in its result
// and does not stop the others; only a cancelled context ends the loop early.
func (c *Client) Delete(ctx context.Context, opts DeleteOptions) ([]DeleteResult, error) {
	if len(opts.Paths) == 0 {
		return nil, ErrNoPaths
	}

	results := make([]DeleteResult, 0, len(opts.Paths))
	for _, p := range opts.Paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := DeleteResult{Path: p}
		result.Err = c.deleteObject(ctx, p)
		result.Deleted = result.Err == nil
		results = append(results, result)
	}
	return results, nil
}

func (c *Client) deleteObject(ctx context.Context, remotePath string) error {
	key := remoteKey(remotePath)
	if key == "" {
		return ErrEmptyPath
	}
	req, err := c.request(ctx, http.MethodDelete, c.objectURL("/uploads", key), http.NoBody, false)
	if err != nil {
		return err
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	discard(resp)
	return nil
}

// HasDeleteErrors reports whether any delete failed.
func HasDeleteErrors(results []DeleteResult) bool {
	for i := range results {
		if results[i].Err != nil {
			return true
		}
	}
	return false
}

// PasteURL returns the paste page URL for a stored object.
func (c *Client) PasteURL(remotePath string) string {
	return c.objectURL("/pastes", remoteKey(remotePath))
}

// Paste checks that the paste page for opts.RemotePath renders.
// With opts.Fetch the page body is returned and must be closed by the caller.
func (c *Client) Paste(ctx context.Context, opts PasteOptions) (*PasteResult, io.ReadCloser, error) {
	key := remoteKey(opts.RemotePath)
	if key == "" {
		return nil, nil, fmt.Errorf("paste: %w", ErrEmptyPath)
	}

	result := &PasteResult{RemotePath: key, URL: c.PasteURL(key)}
	req, err := c.request(ctx, http.MethodGet, result.URL, http.NoBody, false)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, nil, err
	}

	if opts.Fetch {
		return result, resp.Body, nil
	}
	discard(resp)
	return result, nil, nil
}

// request builds a request tagged with a fresh request id. withToken adds
// the bearer token when one is configured.
func (c *Client) request(ctx context.Context, method, target string, body io.Reader, withToken bool) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())
	if withToken && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// send performs req. Any status but 200 is returned as an *APIError with the
// body already closed; on 200 the caller owns the body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, newAPIError(resp.StatusCode, body)
}

// decode reads a JSON body into v and closes it.
func decode(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// objectURL joins the endpoint, a route prefix and key with each segment escaped.
func (c *Client) objectURL(prefix, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.endpoint + prefix + "/" + strings.Join(segments, "/")
}

// remoteKey strips the leading and trailing slashes the server's paths carry.
func remoteKey(p string) string {
	return strings.Trim(p, "/")
}
