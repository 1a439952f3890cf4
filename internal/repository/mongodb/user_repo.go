package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *userRepository {
	return &userRepository{col: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	res, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("username, email or github id already in use")
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}})
}

func (r *userRepository) ExistsByAny(ctx context.Context, username, email, githubID string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
		bson.M{"githubId": githubID},
	}})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	update := bson.M{"$set": bson.M{"updatedAt": time.Now()}}
	if token == "" {
		update["$unset"] = bson.M{"refreshToken": ""}
	} else {
		update["$set"].(bson.M)["refreshToken"] = token
	}
	return r.updateByID(ctx, id, update)
}

func (r *userRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) error {
	set := bson.M{"updatedAt": time.Now()}
	if update.TechStack != nil {
		set["techStack"] = update.TechStack
	}
	if update.Domains != nil {
		set["domains"] = update.Domains
	}
	if update.ProfilePic != "" {
		set["profilePic"] = update.ProfilePic
	}
	if update.CoverImg != "" {
		set["coverImg"] = update.CoverImg
	}
	return r.updateByID(ctx, id, bson.M{"$set": set})
}

func (r *userRepository) AppendProject(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"projects": projectID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepository) AddToWatchList(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"watchList": projectID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepository) RemoveFromWatchList(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.updateByID(ctx, id, bson.M{
		"$pull": bson.M{"watchList": projectID},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.NotFound("user not found")
	}
	return nil
}
