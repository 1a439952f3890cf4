package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/anish/devshowcase/internal/repository/mongodb"
	tcMongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestMongo manages a testcontainers MongoDB instance.
type TestMongo struct {
	Container *tcMongo.MongoDBContainer
	Client    *mongo.Client
	DB        *mongo.Database
	URI       string
}

// NewTestMongo starts a MongoDB testcontainer and connects to it through the
// production connect path, so the repositories run against their real indexes.
func NewTestMongo(t *testing.T) *TestMongo {
	t.Helper()

	ctx := context.Background()

	container, err := tcMongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, db, err := mongodb.Connect(connectCtx, uri, "test_devshowcase")
	if err != nil {
		t.Fatalf("failed to connect to mongodb: %v", err)
	}

	tm := &TestMongo{
		Container: container,
		Client:    client,
		DB:        db,
		URI:       uri,
	}

	t.Cleanup(func() {
		tm.Cleanup()
	})

	return tm
}

// Cleanup disconnects the client and terminates the container.
func (tm *TestMongo) Cleanup() {
	ctx := context.Background()
	if tm.Client != nil {
		tm.Client.Disconnect(ctx)
	}
	if tm.Container != nil {
		tm.Container.Terminate(ctx)
	}
}
