package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/stash"
	stashhttp "github.com/sagarc03/stash/http"
	"github.com/sagarc03/stash/keybackend"
)

// MockService is a mock implementation of http.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Upload(ctx context.Context, obj stash.UploadObject, content io.Reader) (stash.UploadResult, error) {
	// Drain so tests can assert on what the handler passed through.
	data, _ := io.ReadAll(content)
	args := m.Called(ctx, obj, data)
	return args.Get(0).(stash.UploadResult), args.Error(1)
}

func (m *MockService) Get(ctx context.Context, key string) (stash.Object, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(stash.Object), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockService) Paste(ctx context.Context, key string) (stash.Paste, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(stash.Paste), args.Error(1)
}

// fileBody builds a multipart body whose first part is a file.
func fileBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newUploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	body, contentType := fileBody(t, filename, content)
	req := httptest.NewRequest("POST", target, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer s3cret")
	return req
}

func newTestHandler(service *MockService) http.Handler {
	cfg := &stashhttp.HandlerConfig{
		UploadVerifier: keybackend.NewStaticToken("s3cret"),
		PasteEnabled:   true,
		Version:        "test",
	}
	return stashhttp.NewHandler(cfg, service).Router()
}

func strPtr(s string) *string { return &s }

func TestHandler_Index(t *testing.T) {
	router := newTestHandler(new(MockService))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"stash","version":"test"}`, rec.Body.String())
}

func TestHandler_Upload_Success(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	want := stash.UploadResult{
		Message:   "File uploaded",
		Path:      "/a.txt",
		Filename:  "a.txt",
		Directory: "/",
		SizeBytes: 2,
		Etag:      "abc",
	}
	service.On("Upload", mock.Anything, stash.UploadObject{Filename: "a.txt"}, []byte("hi")).Return(want, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUploadRequest(t, "/upload", "a.txt", []byte("hi")))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got stash.UploadResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, want, got)
	service.AssertExpectations(t)
}

func TestHandler_Upload_QueryParameters(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   stash.UploadObject
	}{
		{
			name:   "directory and safe",
			target: "/upload?directory=docs&safe=true",
			want:   stash.UploadObject{Directory: strPtr("docs"), Filename: "x.txt", Safe: true},
		},
		{
			name:   "empty directory is passed through",
			target: "/upload?directory=",
			want:   stash.UploadObject{Directory: strPtr(""), Filename: "x.txt"},
		},
		{
			name:   "safe false",
			target: "/upload?safe=false",
			want:   stash.UploadObject{Filename: "x.txt"},
		},
		{
			name:   "safe numeric",
			target: "/upload?safe=1",
			want:   stash.UploadObject{Filename: "x.txt", Safe: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := newTestHandler(service)

			service.On("Upload", mock.Anything, tt.want, []byte("x")).Return(stash.UploadResult{}, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newUploadRequest(t, tt.target, "x.txt", []byte("x")))

			assert.Equal(t, http.StatusOK, rec.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestHandler_Upload_InvalidSafe(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUploadRequest(t, "/upload?safe=maybe", "x.txt", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Upload_FilenameVerbatim(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	service.On("Upload", mock.Anything, stash.UploadObject{Filename: "../etc/passwd"}, []byte("x")).
		Return(stash.UploadResult{}, stash.ErrInvalidInput)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, newUploadRequest(t, "/upload", "../etc/passwd", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_Upload_Unauthorized(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "no header", header: ""},
		{name: "wrong token", header: "Bearer wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := newTestHandler(service)

			req := newUploadRequest(t, "/upload", "a.txt", []byte("hi"))
			req.Header.Del("Authorization")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			service.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_TokenCheck(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid token", header: "Bearer s3cret", wantCode: http.StatusOK},
		{name: "wrong token", header: "Bearer wrong", wantCode: http.StatusUnauthorized},
		{name: "no header", header: "", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := newTestHandler(service)

			req := httptest.NewRequest("GET", "/upload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.JSONEq(t, `{"message":"Token accepted"}`, rec.Body.String())
			}
			service.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Upload_MissingFile(t *testing.T) {
	t.Run("not multipart", func(t *testing.T) {
		service := new(MockService)
		router := newTestHandler(service)

		req := httptest.NewRequest("POST", "/upload", bytes.NewBufferString("raw"))
		req.Header.Set("Content-Type", "text/plain")
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no parts", func(t *testing.T) {
		service := new(MockService)
		router := newTestHandler(service)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest("POST", "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("first part is not a file", func(t *testing.T) {
		service := new(MockService)
		router := newTestHandler(service)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("note", "hello"))
		fw, err := mw.CreateFormFile("file", "a.txt")
		require.NoError(t, err)
		_, err = fw.Write([]byte("hi"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest("POST", "/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer s3cret")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHandler_Upload_OnlyFirstPart(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "first.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("one"))
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("file", "second.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	service.On("Upload", mock.Anything, stash.UploadObject{Filename: "first.txt"}, []byte("one")).
		Return(stash.UploadResult{Path: "/first.txt"}, nil)

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_Upload_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "conflict", err: stash.ErrConflict, wantCode: http.StatusConflict},
		{name: "too large", err: stash.ErrTooLarge, wantCode: http.StatusRequestEntityTooLarge},
		{name: "invalid directory", err: stash.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "io failure", err: errors.New("disk full"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := newTestHandler(service)

			service.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(stash.UploadResult{}, tt.err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, newUploadRequest(t, "/upload", "a.txt", []byte("hi")))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Get_Success(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	service.On("Get", mock.Anything, "docs/a.txt").Return(stash.Object{
		Key:         "docs/a.txt",
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte("hello"),
	}, nil)

	req := httptest.NewRequest("GET", "/uploads/docs/a.txt", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	assert.Equal(t, "hello", rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_Get_EscapedPath(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	service.On("Get", mock.Anything, "my notes.txt").Return(stash.Object{ContentType: "text/plain"}, nil)

	req := httptest.NewRequest("GET", "/uploads/my%20notes.txt", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}

func TestHandler_Get_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: stash.ErrNotFound, wantCode: http.StatusNotFound},
		{name: "invalid path", err: stash.ErrInvalidInput, wantCode: http.StatusBadRequest},
		{name: "io failure", err: errors.New("read failed"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			router := newTestHandler(service)

			service.On("Get", mock.Anything, "missing.txt").Return(stash.Object{}, tt.err)

			req := httptest.NewRequest("GET", "/uploads/missing.txt", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Delete_Success(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	service.On("Delete", mock.Anything, "a.txt").Return(nil)

	req := httptest.NewRequest("DELETE", "/uploads/a.txt", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"File deleted"}`, rec.Body.String())
	service.AssertExpectations(t)
}

func TestHandler_Delete_NotFound(t *testing.T) {
	service := new(MockService)
	router := newTestHandler(service)

	service.On("Delete", mock.Anything, "a.txt").Return(stash.ErrNotFound)

	req := httptest.NewRequest("DELETE", "/uploads/a.txt", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}
