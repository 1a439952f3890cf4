package mongodb

import (
	"context"
	"errors"

	"github.com/anish/devshowcase/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type projectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *projectRepository {
	return &projectRepository{col: db.Collection(projectsCollection)}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	res, err := r.col.InsertOne(ctx, project)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		project.ID = id
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	var project domain.Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Project, error) {
	cursor, err := r.col.Find(ctx, bson.M{"owners": ownerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var projects []*domain.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) GetByOwnerAndName(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Project, error) {
	var project domain.Project
	err := r.col.FindOne(ctx, bson.M{"owners": ownerID, "name": name}).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("project not found")
		}
		return nil, err
	}
	return &project, nil
}
