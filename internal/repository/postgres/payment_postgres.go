package postgres

import (
	"context"
	"database/sql"
	"errors"

	"docflow/internal/model"
	"docflow/internal/repository"
)

// PaymentPostgres is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentPostgres struct {
	db *sql.DB
}

// NewPaymentPostgres creates a new PaymentPostgres repository.
func NewPaymentPostgres(db *sql.DB) *PaymentPostgres {
	return &PaymentPostgres{db: db}
}

var _ repository.PaymentRepository = (*PaymentPostgres)(nil)

const paymentColumns = `id, user_id, title, amount, status, transaction_id, created_at, updated_at`

func scanPayment(s rowScanner) (*model.Payment, error) {
	var (
		p     model.Payment
		txnID sql.NullString
	)
	if err := s.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Amount,
		&p.Status,
		&txnID,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.TransactionID = txnID.String
	return &p, nil
}

// Create inserts a payment row; a clash on (user_id, title) yields ErrDuplicate.
func (r *PaymentPostgres) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	const q = `
		INSERT INTO payments (id, user_id, title, amount, status, transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, title) DO NOTHING
		RETURNING ` + paymentColumns
	row := r.db.QueryRowContext(ctx, q,
		p.ID,
		p.UserID,
		p.Title,
		p.Amount,
		p.Status,
		sql.NullString{String: p.TransactionID, Valid: p.TransactionID != ""},
		p.CreatedAt,
		p.UpdatedAt,
	)
	out, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrDuplicate
	}
	return out, err
}

func (r *PaymentPostgres) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PaymentPostgres) FindByOwnerTitle(ctx context.Context, ownerID, title string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 AND title = $2`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, ownerID, title))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func (r *PaymentPostgres) FindMany(ctx context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	var w whereClause
	if f.Title != "" {
		w.add(`title ILIKE $%d ESCAPE '\'`, containsPattern(f.Title))
	}
	if f.Status != "" {
		w.add(`status = $%d`, f.Status)
	}
	if f.Amount != nil {
		w.add(`amount = $%d`, *f.Amount)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	limit, args := w.page(pq)
	qList := `SELECT ` + paymentColumns + ` FROM payments` + w.String() + ` ORDER BY created_at ASC, id ASC` + limit
	items, err := r.query(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Payment]{Items: items, Total: total}, nil
}

func (r *PaymentPostgres) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Payment, error) {
	const q = `
		UPDATE payments SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING ` + paymentColumns
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, status, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// Delete removes a payment by ID. It does not return an error if the row does not exist.
func (r *PaymentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM payments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *PaymentPostgres) ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	return r.query(ctx, q, ownerID)
}

func (r *PaymentPostgres) query(ctx context.Context, q string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
