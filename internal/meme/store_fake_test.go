package meme

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeStore is an in-memory Store used by service and handler tests. It
// mirrors the Repository contract, including the pinned ErrNotFound on
// deleting an absent id.
type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Meme
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]Meme)}
}

func (f *fakeStore) Insert(ctx context.Context, m *Meme) (*Meme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	now := time.Now()
	row := *m
	row.ID = f.nextID
	row.CreatedAt = now
	row.UpdatedAt = now
	f.rows[row.ID] = row

	out := row
	return &out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id int64) (*Meme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := row
	return &out, nil
}

func (f *fakeStore) List(ctx context.Context, params ListParams) ([]Meme, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	params.normalize()

	all := make([]Meme, 0, len(f.rows))
	for _, row := range f.rows {
		all = append(all, row)
	}
	sort.Slice(all, func(i, j int) bool {
		var less bool
		if orderColumn(params.OrderBy) == "updated_at" {
			less = all[i].UpdatedAt.Before(all[j].UpdatedAt)
		} else {
			less = all[i].ID < all[j].ID
		}
		if params.Descending {
			return !less
		}
		return less
	})

	total := int64(len(all))
	if params.Offset >= len(all) {
		return []Meme{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[params.Offset:end], total, nil
}

func (f *fakeStore) UpdateByID(ctx context.Context, id int64, fields map[string]any) (*Meme, error) {
	if err := validateUpdateFields(fields); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.rows[id]
	if !ok {
		return nil, ErrNotFound
	}

	if v, ok := fields["filename"]; ok {
		filename, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("filename must be a string, got %T", v)
		}
		ct, err := contentTypeFor(filename)
		if err != nil {
			return nil, err
		}
		row.Filename = filename
		row.ContentType = ct
	}
	if v, ok := fields["description"]; ok {
		switch d := v.(type) {
		case string:
			row.Description = &d
		case *string:
			row.Description = d
		case nil:
			row.Description = nil
		default:
			return nil, fmt.Errorf("description must be a string, got %T", v)
		}
	}
	row.UpdatedAt = time.Now()
	f.rows[id] = row

	out := row
	return &out, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.rows[id]; !ok {
		return ErrNotFound
	}
	delete(f.rows, id)
	return nil
}
