package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"docflow/internal/model"
	"docflow/internal/repository"
)

type documentRecord struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	Title     string    `bson:"title"`
	FileURL   string    `bson:"fileUrl"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toDocumentRecord(d *model.Document) documentRecord {
	return documentRecord{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		FileURL:   d.FileURL,
		Status:    string(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r documentRecord) model() model.Document {
	return model.Document{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		FileURL:   r.FileURL,
		Status:    model.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// DocumentMongo implements repository.DocumentRepository on a MongoDB collection.
type DocumentMongo struct {
	coll *mongo.Collection
}

func NewDocumentMongo(db *mongo.Database) *DocumentMongo {
	return &DocumentMongo{coll: db.Collection(documentsCollection)}
}

var _ repository.DocumentRepository = (*DocumentMongo)(nil)

func documentQuery(f repository.DocumentFilter) bson.M {
	q := bson.M{}
	if f.Title != "" {
		q["title"] = containsRegex(f.Title)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}

func (r *DocumentMongo) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	rec := toDocumentRecord(doc)
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return nil, insertErr(err)
	}
	out := rec.model()
	return &out, nil
}

func (r *DocumentMongo) FindByID(ctx context.Context, id string) (*model.Document, error) {
	rec, err := findOne[documentRecord](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	out := rec.model()
	return &out, nil
}

func (r *DocumentMongo) FindMany(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	return findPage(ctx, r.coll, documentQuery(f), pq, documentRecord.model)
}

func (r *DocumentMongo) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Document, error) {
	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec documentRecord
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rec); err != nil {
		return nil, notFound(err)
	}
	out := rec.model()
	return &out, nil
}

func (r *DocumentMongo) ListByOwner(ctx context.Context, ownerID string) ([]model.Document, error) {
	return findAll(ctx, r.coll, bson.M{"userId": ownerID}, newestFirst(), documentRecord.model)
}
