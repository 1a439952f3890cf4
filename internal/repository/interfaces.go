package repository

import (
	"context"

	"github.com/anish/devshowcase/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	// ExistsByAny reports whether any user matches the username, email or
	// GitHub id — the single duplicate check made at registration.
	ExistsByAny(ctx context.Context, username, email, githubID string) (bool, error)
	UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) error
	AppendProject(ctx context.Context, id, projectID primitive.ObjectID) error
	AddToWatchList(ctx context.Context, id, projectID primitive.ObjectID) error
	RemoveFromWatchList(ctx context.Context, id, projectID primitive.ObjectID) error
}

type PendingRegistrationRepository interface {
	// Upsert replaces any staged registration for the same email.
	Upsert(ctx context.Context, pending *domain.PendingRegistration) error
	GetByID(ctx context.Context, id string) (*domain.PendingRegistration, error)
	GetByEmail(ctx context.Context, email string) (*domain.PendingRegistration, error)
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Project, error)
	GetByOwnerAndName(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Project, error)
}

type Repositories struct {
	User    UserRepository
	Pending PendingRegistrationRepository
	Project ProjectRepository
}
