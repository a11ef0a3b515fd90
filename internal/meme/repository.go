package meme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memeColumns = "id, filename, description, content_type, created_at, updated_at"

// Pagination bounds for List.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// ListParams controls ordering and pagination for List.
type ListParams struct {
	OrderBy    string // "id" (default) or "updated_at"
	Descending bool
	Offset     int
	Limit      int
}

func (p *ListParams) normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// orderColumn maps a requested order key to a real column, defaulting to id.
// Only allowlisted names ever reach the SQL text.
func orderColumn(orderBy string) string {
	if orderBy == "updated_at" {
		return "updated_at"
	}
	return "id"
}

// updatableFields is the allowlist for UpdateByID. id, timestamps and
// content_type are owned by the store and may never be set by callers.
var updatableFields = map[string]bool{
	"filename":    true,
	"description": true,
}

// validateUpdateFields rejects empty updates and any field outside the
// allowlist before SQL is built.
func validateUpdateFields(fields map[string]any) error {
	if len(fields) == 0 {
		return ErrNothingToUpdate
	}
	for name := range fields {
		if !updatableFields[name] {
			return &ForbiddenFieldError{Field: name}
		}
	}
	return nil
}

// Repository handles all meme metadata database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a new meme row and returns it with id and timestamps assigned.
func (r *Repository) Insert(ctx context.Context, m *Meme) (*Meme, error) {
	out := &Meme{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO memes (filename, description, content_type)
		 VALUES ($1, $2, $3)
		 RETURNING `+memeColumns,
		m.Filename, m.Description, m.ContentType,
	).Scan(&out.ID, &out.Filename, &out.Description, &out.ContentType, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("insert meme: %w", err)
	}
	return out, nil
}

// GetByID fetches a meme row by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Meme, error) {
	m := &Meme{}
	err := r.db.QueryRow(ctx,
		`SELECT `+memeColumns+` FROM memes WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.Filename, &m.Description, &m.ContentType, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meme by id: %w", err)
	}
	return m, nil
}

// List returns one page of meme rows plus the total row count.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Meme, int64, error) {
	params.normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM memes`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count memes: %w", err)
	}

	direction := "ASC"
	if params.Descending {
		direction = "DESC"
	}
	query := fmt.Sprintf(
		`SELECT %s FROM memes ORDER BY %s %s OFFSET $1 LIMIT $2`,
		memeColumns, orderColumn(params.OrderBy), direction,
	)

	rows, err := r.db.Query(ctx, query, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list memes: %w", err)
	}
	defer rows.Close()

	memes := make([]Meme, 0, params.Limit)
	for rows.Next() {
		var m Meme
		if err := rows.Scan(&m.ID, &m.Filename, &m.Description, &m.ContentType, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan meme row: %w", err)
		}
		memes = append(memes, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list memes: %w", err)
	}
	return memes, total, nil
}

// UpdateByID applies the given fields (filename and/or description only) to a
// meme row, refreshing updated_at in the same statement. A filename change
// re-derives content_type so the row never disagrees with its extension.
func (r *Repository) UpdateByID(ctx context.Context, id int64, fields map[string]any) (*Meme, error) {
	if err := validateUpdateFields(fields); err != nil {
		return nil, err
	}

	set := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if v, ok := fields["filename"]; ok {
		filename, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("filename must be a string, got %T", v)
		}
		ct, err := contentTypeFor(filename)
		if err != nil {
			return nil, err
		}
		args = append(args, filename)
		set = append(set, fmt.Sprintf("filename = $%d", len(args)))
		args = append(args, ct)
		set = append(set, fmt.Sprintf("content_type = $%d", len(args)))
	}
	if v, ok := fields["description"]; ok {
		args = append(args, v)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	set = append(set, "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE memes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), memeColumns,
	)

	m := &Meme{}
	err := r.db.QueryRow(ctx, query, args...).
		Scan(&m.ID, &m.Filename, &m.Description, &m.ContentType, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		}
		return nil, fmt.Errorf("update meme: %w", err)
	}
	return m, nil
}

// DeleteByID removes a meme row. Deleting an absent id returns ErrNotFound so
// lost delete races surface to the caller instead of passing silently.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM memes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isConstraintViolation checks whether an error is a PostgreSQL integrity
// constraint violation (class 23).
func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23")
}
