package mongodb

import (
	"context"
	"errors"

	"github.com/anish/devshowcase/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type pendingRegistrationRepository struct {
	col *mongo.Collection
}

func NewPendingRegistrationRepository(db *mongo.Database) *pendingRegistrationRepository {
	return &pendingRegistrationRepository{col: db.Collection(pendingCollection)}
}

func (r *pendingRegistrationRepository) Upsert(ctx context.Context, pending *domain.PendingRegistration) error {
	// Registering again for the same email replaces the earlier staged
	// record, invalidating its code and reference. Each record carries a
	// fresh server-issued _id and _id is immutable, so this cannot be a
	// ReplaceOne; delete the old record and insert the new one. The unique
	// email index rejects concurrent double-inserts.
	if _, err := r.col.DeleteOne(ctx, bson.M{"email": pending.Email}); err != nil {
		return err
	}
	_, err := r.col.InsertOne(ctx, pending)
	return err
}

func (r *pendingRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.PendingRegistration, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *pendingRegistrationRepository) GetByEmail(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *pendingRegistrationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *pendingRegistrationRepository) findOne(ctx context.Context, filter bson.M) (*domain.PendingRegistration, error) {
	var pending domain.PendingRegistration
	err := r.col.FindOne(ctx, filter).Decode(&pending)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("no pending registration found")
		}
		return nil, err
	}
	return &pending, nil
}
