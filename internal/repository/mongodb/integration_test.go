//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docflow/internal/model"
	"docflow/internal/repository"
)

func setupMongo(t *testing.T) *mongo.Database {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker not available, skipping integration tests")
	}
	defer provider.Close()

	ctr, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("Failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := ctr.Terminate(cleanupCtx); err != nil {
			t.Errorf("terminate container: %v", err)
		}
	})

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("docflow_test")
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestMongoIntegration(t *testing.T) {
	db := setupMongo(t)
	ctx := context.Background()

	users := NewUserMongo(db)
	docs := NewDocumentMongo(db)
	payments := NewPaymentMongo(db)

	now := time.Now().UTC().Truncate(time.Millisecond)
	owner, err := users.Create(ctx, &model.User{ID: uuid.NewString(), Name: "Ann", Email: "ann@b.com", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)

	_, err = users.Create(ctx, &model.User{ID: uuid.NewString(), Name: "Ann 2", Email: "ann@b.com", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	found, err := users.FindByEmail(ctx, "ann@b.com")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.ID)

	t.Run("pagination in insertion order", func(t *testing.T) {
		for i := 1; i <= 12; i++ {
			at := now.Add(time.Duration(i) * time.Millisecond)
			_, err := docs.Create(ctx, &model.Document{
				ID: uuid.NewString(), UserID: owner.ID, Title: fmt.Sprintf("Report %02d", i), FileURL: "u",
				Status: model.StatusPending, CreatedAt: at, UpdatedAt: at,
			})
			require.NoError(t, err)
		}

		res, err := docs.FindMany(ctx, repository.DocumentFilter{}, repository.PageQuery{Page: 2, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
		require.Len(t, res.Items, 5)
		assert.Equal(t, "Report 06", res.Items[0].Title)
		assert.Equal(t, "Report 10", res.Items[4].Title)

		res, err = docs.FindMany(ctx, repository.DocumentFilter{Title: "report 1"}, repository.PageQuery{})
		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)

		res, err = docs.FindMany(ctx, repository.DocumentFilter{}, repository.PageQuery{Page: 922337203685477582, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
		assert.Empty(t, res.Items)
	})

	t.Run("owner listing is newest first", func(t *testing.T) {
		list, err := docs.ListByOwner(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, list, 12)
		assert.Equal(t, "Report 12", list[0].Title)
		assert.Equal(t, "Report 01", list[11].Title)

		list, err = docs.ListByOwner(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("duplicate title per owner", func(t *testing.T) {
		_, err := docs.Create(ctx, &model.Document{
			ID: uuid.NewString(), UserID: owner.ID, Title: "Report 01", FileURL: "u",
			Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
		})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		_, err = docs.Create(ctx, &model.Document{
			ID: uuid.NewString(), UserID: uuid.NewString(), Title: "Report 01", FileURL: "u",
			Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
		})
		assert.NoError(t, err)
	})

	t.Run("status update", func(t *testing.T) {
		res, err := docs.FindMany(ctx, repository.DocumentFilter{Title: "Report 03"}, repository.PageQuery{})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)

		updated, err := docs.UpdateStatus(ctx, res.Items[0].ID, model.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, model.StatusApproved, updated.Status)
		assert.True(t, updated.UpdatedAt.After(res.Items[0].UpdatedAt))

		_, err = docs.UpdateStatus(ctx, uuid.NewString(), model.StatusApproved)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		approved, err := docs.FindMany(ctx, repository.DocumentFilter{Status: model.StatusApproved}, repository.PageQuery{})
		require.NoError(t, err)
		assert.Equal(t, 1, approved.Total)
	})

	t.Run("payments delete is idempotent", func(t *testing.T) {
		p, err := payments.Create(ctx, &model.Payment{
			ID: uuid.NewString(), UserID: owner.ID, Title: "Tuition", Amount: 99.99,
			Status: model.StatusPending, TransactionID: "cs_test_1", CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)

		_, err = payments.Create(ctx, &model.Payment{
			ID: uuid.NewString(), UserID: owner.ID, Title: "Tuition", Amount: 1,
			Status: model.StatusPending, CreatedAt: now, UpdatedAt: now,
		})
		assert.ErrorIs(t, err, repository.ErrDuplicate)

		byTitle, err := payments.FindByOwnerTitle(ctx, owner.ID, "Tuition")
		require.NoError(t, err)
		assert.Equal(t, "cs_test_1", byTitle.TransactionID)

		_, err = payments.UpdateStatus(ctx, uuid.NewString(), model.StatusRejected)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, payments.Delete(ctx, p.ID))
		require.NoError(t, payments.Delete(ctx, p.ID))
		_, err = payments.FindByID(ctx, p.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
