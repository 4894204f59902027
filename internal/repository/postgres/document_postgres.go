package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, user_id, title, file_url, status, created_at, updated_at`

func scanDocument(s rowScanner) (*model.Document, error) {
	var d model.Document
	if err := s.Scan(
		&d.ID,
		&d.UserID,
		&d.Title,
		&d.FileURL,
		&d.Status,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
// The (user_id, title) unique constraint turns a concurrent duplicate into ErrDuplicate.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, user_id, title, file_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, title) DO NOTHING
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.FileURL,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrDuplicate
	}
	return out, err
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// FindMany returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) FindMany(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	var w whereClause
	if f.Title != "" {
		w.add(`title ILIKE $%d ESCAPE '\'`, containsPattern(f.Title))
	}
	if f.Status != "" {
		w.add(`status = $%d`, f.Status)
	}

	// Count total rows
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	limit, args := w.page(pq)
	qList := `SELECT ` + documentColumns + ` FROM documents` + w.String() + ` ORDER BY created_at ASC, id ASC` + limit
	items, err := r.query(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// UpdateStatus sets the status and bumps updated_at.
func (r *DocumentPostgres) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Document, error) {
	const q = `
		UPDATE documents SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + documentColumns
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, status, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

// ListByOwner returns all documents of one user, newest first.
func (r *DocumentPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, ownerID)
}

func (r *DocumentPostgres) query(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
