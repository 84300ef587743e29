package stash

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Service runs the upload, download, delete and paste operations on top of a FileStorage.
type Service struct {
	storage FileStorage
	limits  Limits
}

// ServiceConfig holds configuration options for Service.
type ServiceConfig struct {
	MaxUploadBytes int64 // 0 disables the cap
}

func NewService(storage FileStorage, cfg ServiceConfig) (*Service, error) {
	if storage == nil {
		return nil, errors.New("new service: storage cannot be nil")
	}
	if cfg.MaxUploadBytes < 0 {
		return nil, fmt.Errorf("new service: invalid max upload bytes: %d", cfg.MaxUploadBytes)
	}
	return &Service{
		storage: storage,
		limits:  Limits{MaxUploadBytes: cfg.MaxUploadBytes},
	}, nil
}

// Upload resolves the target path, ingests content and writes it to storage.
//
// The steps are:
//  1. Resolve the logical path (ErrInvalidInput on a bad directory or filename)
//  2. In safe mode, reject an existing target with ErrConflict before reading content
//  3. Ingest content up to the configured cap (ErrTooLarge past it)
//  4. Write the whole buffer; in safe mode the write is exclusive, so a racing
//     upload that lands between steps 2 and 4 still yields ErrConflict
//
// Nothing is written when any step fails.
func (s *Service) Upload(ctx context.Context, obj UploadObject, content io.Reader) (UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	p, err := ResolvePath(obj.Directory, obj.Filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w", err)
	}

	if obj.Safe {
		exists, existsErr := s.storage.Exists(ctx, p.Key)
		if existsErr != nil {
			return UploadResult{}, fmt.Errorf("upload %s: %w", p.Path, existsErr)
		}
		if exists {
			return UploadResult{}, fmt.Errorf("upload %s: %w", p.Path, ErrConflict)
		}
	}

	data, err := Ingest(ctx, content, s.limits.MaxUploadBytes)
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: %w", p.Path, err)
	}

	saved, err := s.storage.Write(ctx, p.Key, data, WriteOptions{Exclusive: obj.Safe})
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload %s: write failed: %w", p.Path, err)
	}

	return UploadResult{
		Message:   "File uploaded",
		Path:      p.Path,
		Filename:  p.Filename,
		Directory: p.Directory,
		SizeBytes: saved.BytesWritten,
		Etag:      saved.Etag,
	}, nil
}

// Get reads the object stored at key along with its content type.
func (s *Service) Get(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("get object: %w", err)
	}

	if !IsValidPath(key) {
		return Object{}, fmt.Errorf("get object %q: %w", key, ErrInvalidInput)
	}

	content, err := s.storage.Read(ctx, key)
	if err != nil {
		return Object{}, fmt.Errorf("get object: %w", err)
	}

	return Object{
		Key:         key,
		ContentType: DetectContentType(key),
		Content:     content,
	}, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	if !IsValidPath(key) {
		return fmt.Errorf("delete object %q: %w", key, ErrInvalidInput)
	}

	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}

	return nil
}

// Paste reads the object at key for the paste view.
// Content that is not valid UTF-8 yields ErrUnsupportedContent.
func (s *Service) Paste(ctx context.Context, key string) (Paste, error) {
	obj, err := s.Get(ctx, key)
	if err != nil {
		return Paste{}, fmt.Errorf("paste: %w", err)
	}

	if !IsText(obj.Content) {
		return Paste{}, fmt.Errorf("paste %q: %w", key, ErrUnsupportedContent)
	}

	return Paste{
		Key:   key,
		Title: LastSegment(key),
		Text:  string(obj.Content),
	}, nil
}
