package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/model"
	"docflow/internal/repository"
)

var docCols = []string{"id", "user_id", "title", "file_url", "status", "created_at", "updated_at"}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:        "doc-1",
		UserID:    "user-1",
		Title:     "Passport",
		FileURL:   "https://files/passport.pdf",
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	t.Run("inserted", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow(doc.ID, doc.UserID, doc.Title, doc.FileURL, "pending", now, now)

		mock.ExpectQuery("INSERT INTO documents (.+) ON CONFLICT \\(user_id, title\\) DO NOTHING").
			WithArgs(doc.ID, doc.UserID, doc.Title, doc.FileURL, "pending", now, now).
			WillReturnRows(rows)

		result, err := repo.Create(ctx, doc)

		assert.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, doc.ID, result.ID)
		assert.Equal(t, model.StatusPending, result.Status)
	})

	t.Run("duplicate title", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO documents").
			WillReturnRows(sqlmock.NewRows(docCols))

		result, err := repo.Create(ctx, doc)

		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.Nil(t, result)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow("doc-1", "user-1", "Passport", "url", "approved", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("doc-1").
			WillReturnRows(rows)

		doc, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, model.StatusApproved, doc.Status)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_FindMany(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("filtered page", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE title ILIKE \\$1 (.+) AND status = \\$2").
			WithArgs(`%50\%%`, "pending").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

		rows := sqlmock.NewRows(docCols).
			AddRow("doc-6", "user-1", "50% off", "url", "pending", time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE (.+) ORDER BY created_at ASC, id ASC LIMIT \\$3 OFFSET \\$4").
			WithArgs(`%50\%%`, "pending", 5, 5).
			WillReturnRows(rows)

		res, err := repo.FindMany(ctx,
			repository.DocumentFilter{Title: "50%", Status: model.StatusPending},
			repository.PageQuery{Page: 2, Limit: 5})

		assert.NoError(t, err)
		assert.Equal(t, 7, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("no filter uses defaults", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents$").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(sqlmock.NewRows(docCols))

		res, err := repo.FindMany(ctx, repository.DocumentFilter{}, repository.PageQuery{})

		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("boom"))

		res, err := repo.FindMany(ctx, repository.DocumentFilter{}, repository.PageQuery{})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("updated", func(t *testing.T) {
		rows := sqlmock.NewRows(docCols).
			AddRow("doc-1", "user-1", "Passport", "url", "rejected", time.Now(), time.Now())
		mock.ExpectQuery("UPDATE documents SET status = \\$1, updated_at = now\\(\\)").
			WithArgs("rejected", "doc-1").
			WillReturnRows(rows)

		doc, err := repo.UpdateStatus(ctx, "doc-1", model.StatusRejected)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusRejected, doc.Status)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery("UPDATE documents").
			WithArgs("approved", "missing").
			WillReturnRows(sqlmock.NewRows(docCols))

		doc, err := repo.UpdateStatus(ctx, "missing", model.StatusApproved)

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, doc)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows(docCols).
		AddRow("doc-2", "user-1", "B", "url", "pending", newer, newer).
		AddRow("doc-1", "user-1", "A", "url", "pending", older, older)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs("user-1").
		WillReturnRows(rows)

	docs, err := repo.ListByOwner(context.Background(), "user-1")

	assert.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
