package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sagarc03/stash"
)

type Service interface {
	Upload(ctx context.Context, obj stash.UploadObject, content io.Reader) (stash.UploadResult, error)
	Get(ctx context.Context, key string) (stash.Object, error)
	Delete(ctx context.Context, key string) error
	Paste(ctx context.Context, key string) (stash.Paste, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	UploadVerifier stash.TokenVerifier // nil disables upload auth
	CORS           CORSConfig
	PasteEnabled   bool
	Version        string
}

// Handler provides HTTP handlers for the upload, download, delete and paste routes.
type Handler struct {
	config  HandlerConfig
	service Service
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with all routes configured.
// Only /upload requires a token; reads and deletes are open.
// /pastes/* is mounted only when PasteEnabled is set.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/", h.handleIndex)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(h.config.UploadVerifier))
		r.Get("/upload", h.handleTokenCheck)
		r.Post("/upload", h.handleUpload)
	})

	r.Get("/uploads/*", h.handleGet)
	r.Delete("/uploads/*", h.handleDelete)

	if h.config.PasteEnabled {
		r.Get("/pastes/*", h.handlePaste)
	}

	return r
}

type indexResponse struct {
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
}

func (h *Handler) handleIndex(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, indexResponse{Message: "stash", Version: h.config.Version})
}

// handleTokenCheck answers only once AuthMiddleware has accepted the token.
func (h *Handler) handleTokenCheck(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, MessageResponse{Message: "Token accepted"})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var directory *string
	if query.Has("directory") {
		d := query.Get("directory")
		directory = &d
	}

	safe := false
	if s := query.Get("safe"); s != "" {
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid safe parameter")
			return
		}
		safe = parsed
	}

	part, err := firstFilePart(r)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = part.Close() }()

	obj := stash.UploadObject{
		Directory: directory,
		Filename:  partFileName(part),
		Safe:      safe,
	}

	result, err := h.service.Upload(r.Context(), obj, part)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

// firstFilePart returns the first part of a multipart body. Later parts are
// ignored; a first part without a file name is rejected.
func firstFilePart(r *http.Request) (*multipart.Part, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart body: %w: %w", ErrMissingFile, err)
	}

	part, err := mr.NextPart()
	if err != nil {
		return nil, fmt.Errorf("read first part: %w: %w", ErrMissingFile, err)
	}

	if partFileName(part) == "" {
		_ = part.Close()
		return nil, fmt.Errorf("first part %q: %w", part.FormName(), ErrMissingFile)
	}

	return part, nil
}

// partFileName returns the filename parameter exactly as the client sent it.
// multipart.Part.FileName strips directories, which would hide traversal
// attempts from path validation.
func partFileName(part *multipart.Part) string {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return ""
	}
	return params["filename"]
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/uploads/")

	obj, err := h.service.Get(r.Context(), key)
	if err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Content)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Content)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/uploads/")

	if err := h.service.Delete(r.Context(), key); err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, MessageResponse{Message: "File deleted"})
}
