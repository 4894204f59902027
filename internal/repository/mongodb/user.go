package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"docflow/internal/model"
	"docflow/internal/repository"
)

type userRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	IsAdmin   bool      `bson:"isAdmin"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (r userRecord) model() model.User {
	return model.User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		IsAdmin:   r.IsAdmin,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UserMongo implements repository.UserRepository on a MongoDB collection.
type UserMongo struct {
	coll *mongo.Collection
}

func NewUserMongo(db *mongo.Database) *UserMongo {
	return &UserMongo{coll: db.Collection(usersCollection)}
}

var _ repository.UserRepository = (*UserMongo)(nil)

func userQuery(f repository.UserFilter) bson.M {
	q := bson.M{}
	if f.Name != "" {
		q["name"] = containsRegex(f.Name)
	}
	if f.Email != "" {
		q["email"] = f.Email
	}
	return q
}

func (r *UserMongo) Create(ctx context.Context, u *model.User) (*model.User, error) {
	rec := userRecord{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return nil, insertErr(err)
	}
	out := rec.model()
	return &out, nil
}

func (r *UserMongo) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserMongo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserMongo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	rec, err := findOne[userRecord](ctx, r.coll, filter)
	if err != nil {
		return nil, err
	}
	out := rec.model()
	return &out, nil
}

func (r *UserMongo) FindMany(ctx context.Context, f repository.UserFilter, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	return findPage(ctx, r.coll, userQuery(f), pq, userRecord.model)
}
