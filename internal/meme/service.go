package meme

import (
	"context"
	"fmt"
	"io"

	"github.com/memebin/service/internal/storage"
)

// Store is the metadata persistence contract, implemented by Repository.
type Store interface {
	Insert(ctx context.Context, m *Meme) (*Meme, error)
	GetByID(ctx context.Context, id int64) (*Meme, error)
	List(ctx context.Context, params ListParams) ([]Meme, int64, error)
	UpdateByID(ctx context.Context, id int64, fields map[string]any) (*Meme, error)
	DeleteByID(ctx context.Context, id int64) error
}

// FileUpload is the content half of an upload or replace request.
type FileUpload struct {
	Filename string
	Reader   io.Reader
	Size     int64
}

// Service orchestrates blob storage and meme metadata so that the two always
// move together: blob writes precede metadata commits, blob deletes follow
// them. A crash mid-sequence can orphan a blob but never publishes a row whose
// filename resolves to nothing.
type Service struct {
	repo  Store
	blobs storage.Storage
}

// NewService creates a new meme Service.
func NewService(repo Store, blobs storage.Storage) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Upload stores a new meme: the content under a freshly generated object key,
// then a metadata row referencing it. Unsupported file formats fail before any
// storage is touched.
func (s *Service) Upload(ctx context.Context, originalFilename string, description *string, file *FileUpload) (*Meme, error) {
	key := NewObjectKey(originalFilename)

	m, err := New(key, description)
	if err != nil {
		return nil, err
	}

	if err := s.blobs.Upload(ctx, key, file.Reader, file.Size, m.ContentType); err != nil {
		return nil, fmt.Errorf("upload blob: %w", err)
	}

	stored, err := s.repo.Insert(ctx, m)
	if err != nil {
		// The blob just written is now orphaned; maintenance tooling
		// reconciles those.
		return nil, fmt.Errorf("insert meme metadata: %w", err)
	}
	return stored, nil
}

// GetByID returns meme metadata by id. The blob store is not consulted.
func (s *Service) GetByID(ctx context.Context, id int64) (*Meme, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of meme metadata plus the total count.
func (s *Service) List(ctx context.Context, params ListParams) ([]Meme, int64, error) {
	return s.repo.List(ctx, params)
}

// Update replaces a meme's content and/or description. At least one must be
// given. A content replacement runs upload-new, update-metadata, delete-old in
// that order, so there is no window in which the row points at a missing blob.
func (s *Service) Update(ctx context.Context, id int64, file *FileUpload, description *string) (*Meme, error) {
	if file == nil && description == nil {
		return nil, ErrNothingToUpdate
	}

	fields := make(map[string]any, 2)
	var oldKey string

	if file != nil {
		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		oldKey = current.Filename

		newKey := NewObjectKey(file.Filename)
		replacement, err := New(newKey, nil)
		if err != nil {
			return nil, err
		}

		if err := s.blobs.Upload(ctx, newKey, file.Reader, file.Size, replacement.ContentType); err != nil {
			return nil, fmt.Errorf("upload replacement blob: %w", err)
		}
		fields["filename"] = newKey
	}
	if description != nil {
		fields["description"] = *description
	}

	updated, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		// On failure the freshly uploaded blob (if any) is orphaned; the
		// old one stays valid.
		return nil, err
	}

	if oldKey != "" && oldKey != updated.Filename {
		if err := s.blobs.Delete(ctx, oldKey); err != nil {
			return nil, fmt.Errorf("meme updated but old blob %q not removed: %w", oldKey, err)
		}
	}
	return updated, nil
}

// Delete permanently removes a meme: blob first, then the metadata row. An
// unknown id returns ErrNotFound without touching the blob store.
func (s *Service) Delete(ctx context.Context, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, current.Filename); err != nil {
		return fmt.Errorf("delete blob %q: %w", current.Filename, err)
	}
	return s.repo.DeleteByID(ctx, id)
}

// URL returns the public URL for a stored meme's blob.
func (s *Service) URL(m *Meme) string {
	return s.blobs.PublicURL(m.Filename)
}
