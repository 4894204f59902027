// Package mongodb implements the repository interfaces on MongoDB.
//
// Domain models stay free of persistence tags; each collection has its own record
// type with bson tags. Identifiers are the service-generated UUID strings stored in _id.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docflow/internal/repository"
)

const (
	usersCollection     = "users"
	documentsCollection = "documents"
	paymentsCollection  = "payments"
)

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
// Uniqueness of (userId, title) and of email is enforced here, not by a pre-check.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		documentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// containsRegex matches s anywhere, case-insensitively, with metacharacters escaped.
func containsRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// pageOptions sorts by insertion time (oldest first) and applies skip/limit.
func pageOptions(pq repository.PageQuery) *options.FindOptions {
	n := pq.Normalize()
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(int64(pq.Offset())).
		SetLimit(int64(n.Limit))
}

// newestFirst sorts by creation time descending.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
}

// findAll runs a query and converts every record.
func findAll[R any, T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions, conv func(R) T) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var recs []R
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	items := make([]T, 0, len(recs))
	for _, r := range recs {
		items = append(items, conv(r))
	}
	return items, nil
}

// findPage counts the filter matches then fetches one page.
func findPage[R any, T any](ctx context.Context, coll *mongo.Collection, filter bson.M, pq repository.PageQuery, conv func(R) T) (*repository.PageResult[T], error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}
	items, err := findAll(ctx, coll, filter, pageOptions(pq), conv)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[T]{Items: items, Total: int(total)}, nil
}

// findOne decodes a single match, translating ErrNoDocuments.
func findOne[R any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*R, error) {
	var rec R
	if err := coll.FindOne(ctx, filter).Decode(&rec); err != nil {
		return nil, notFound(err)
	}
	return &rec, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	return err
}
