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

type paymentRecord struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"userId"`
	Title         string    `bson:"title"`
	Amount        float64   `bson:"amount"`
	Status        string    `bson:"status"`
	TransactionID string    `bson:"transactionId,omitempty"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func toPaymentRecord(p *model.Payment) paymentRecord {
	return paymentRecord{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		Amount:        p.Amount,
		Status:        string(p.Status),
		TransactionID: p.TransactionID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (r paymentRecord) model() model.Payment {
	return model.Payment{
		ID:            r.ID,
		UserID:        r.UserID,
		Title:         r.Title,
		Amount:        r.Amount,
		Status:        model.Status(r.Status),
		TransactionID: r.TransactionID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// PaymentMongo implements repository.PaymentRepository on a MongoDB collection.
type PaymentMongo struct {
	coll *mongo.Collection
}

func NewPaymentMongo(db *mongo.Database) *PaymentMongo {
	return &PaymentMongo{coll: db.Collection(paymentsCollection)}
}

var _ repository.PaymentRepository = (*PaymentMongo)(nil)

func paymentQuery(f repository.PaymentFilter) bson.M {
	q := bson.M{}
	if f.Title != "" {
		q["title"] = containsRegex(f.Title)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Amount != nil {
		q["amount"] = bson.M{"$eq": *f.Amount}
	}
	return q
}

func (r *PaymentMongo) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	rec := toPaymentRecord(p)
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return nil, insertErr(err)
	}
	out := rec.model()
	return &out, nil
}

func (r *PaymentMongo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *PaymentMongo) FindByOwnerTitle(ctx context.Context, ownerID, title string) (*model.Payment, error) {
	return r.findOne(ctx, bson.M{"userId": ownerID, "title": title})
}

func (r *PaymentMongo) findOne(ctx context.Context, filter bson.M) (*model.Payment, error) {
	rec, err := findOne[paymentRecord](ctx, r.coll, filter)
	if err != nil {
		return nil, err
	}
	out := rec.model()
	return &out, nil
}

func (r *PaymentMongo) FindMany(ctx context.Context, f repository.PaymentFilter, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	return findPage(ctx, r.coll, paymentQuery(f), pq, paymentRecord.model)
}

func (r *PaymentMongo) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.Payment, error) {
	update := bson.M{"$set": bson.M{"status": string(status), "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var rec paymentRecord
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&rec); err != nil {
		return nil, notFound(err)
	}
	out := rec.model()
	return &out, nil
}

// Delete removes a payment by ID; a missing document is not an error.
func (r *PaymentMongo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *PaymentMongo) ListByOwner(ctx context.Context, ownerID string) ([]model.Payment, error) {
	return findAll(ctx, r.coll, bson.M{"userId": ownerID}, newestFirst(), paymentRecord.model)
}
