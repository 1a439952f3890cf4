package mongodb

import (
	"context"
	"time"

	"github.com/anish/devshowcase/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection    = "users"
	pendingCollection  = "pending_registrations"
	projectsCollection = "projects"
)

// Connect establishes a MongoDB connection, verifies it with a ping and
// ensures the indexes the repositories rely on.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, nil, err
	}

	db := client.Database(dbName)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, nil, err
	}

	return client, db, nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "githubId", Value: 1}}, Options: unique},
	})
	if err != nil {
		return err
	}

	// Expired staged registrations are reaped by the TTL monitor; services
	// also check expiresAt explicitly since the monitor runs about once a
	// minute.
	_, err = db.Collection(pendingCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(projectsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owners", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	return err
}

func NewRepositories(db *mongo.Database) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Pending: NewPendingRegistrationRepository(db),
		Project: NewProjectRepository(db),
	}
}
