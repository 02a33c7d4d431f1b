package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/yukikurage/showcase/internal/logging"
	"github.com/yukikurage/showcase/internal/storage"
)

var (
	ErrInvalidFilename    = fmt.Errorf("%w: invalid image filename", ErrValidation)
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// Upload is an image file received with a form.
type Upload struct {
	Filename string
	Content  io.Reader
	Size     int64
}

// AttachmentService names uploaded files and moves their bytes through a
// storage backend.
type AttachmentService struct {
	store  storage.Storage
	logger logging.Logger
	newID  func() string
}

// NewAttachmentService creates a new AttachmentService.
func NewAttachmentService(store storage.Storage, logger logging.Logger) *AttachmentService {
	return &AttachmentService{
		store:  store,
		logger: logger,
		newID:  func() string { return uuid.NewString()[:8] },
	}
}

// StoredName derives the stored name for a client filename:
// "<random prefix>_<sanitized name>".
func (s *AttachmentService) StoredName(clientName string) (string, error) {
	safe, err := storage.SecureFilename(clientName)
	if err != nil {
		return "", ErrInvalidFilename
	}
	return s.newID() + "_" + safe, nil
}

// Store writes the upload and returns the stored filename.
func (s *AttachmentService) Store(ctx context.Context, upload Upload) (string, error) {
	name, err := s.StoredName(upload.Filename)
	if err != nil {
		return "", err
	}

	if err := s.store.Put(ctx, name, upload.Content, upload.Size); err != nil {
		s.logger.Error(ctx, "failed to store attachment", "filename", name, "error", err)
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	s.logger.Info(ctx, "attachment stored", "filename", name, "size", upload.Size)
	return name, nil
}

// Open returns a reader for a stored file.
func (s *AttachmentService) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	rc, err := s.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidFilename) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return rc, nil
}

// Remove deletes a stored file. Failures are logged and not returned.
func (s *AttachmentService) Remove(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.store.Delete(ctx, name); err != nil {
		s.logger.Warn(ctx, "failed to remove attachment", "filename", name, "error", err)
		return
	}
	s.logger.Info(ctx, "attachment removed", "filename", name)
}

// Resolve maps a stored name to a path inside the content directory. Only the
// local backend has paths.
func (s *AttachmentService) Resolve(name string) (string, error) {
	local, ok := s.store.(*storage.LocalStorage)
	if !ok {
		return "", fmt.Errorf("%w: backend has no local paths", ErrAttachmentNotFound)
	}
	path, err := local.Resolve(name)
	if err != nil {
		return "", ErrInvalidFilename
	}
	return path, nil
}
