package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var userSeq int

// UserBuilder constructs users directly in a repository, bypassing the OTP
// gate. Hashing uses bcrypt.MinCost to keep tests fast.
type UserBuilder struct {
	username string
	email    string
	githubID string
	password string
}

func NewUserBuilder() *UserBuilder {
	userSeq++
	return &UserBuilder{
		username: fmt.Sprintf("user%d", userSeq),
		email:    fmt.Sprintf("user%d@example.com", userSeq),
		githubID: fmt.Sprintf("user%d", userSeq),
		password: "password123",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithGithubID(githubID string) *UserBuilder {
	b.githubID = githubID
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build persists the user and returns it together with the raw password.
func (b *UserBuilder) Build(t *testing.T, users repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     b.username,
		Email:        b.email,
		GithubID:     b.githubID,
		PasswordHash: string(hash),
		TechStack:    []string{},
		Domains:      []string{},
		Projects:     []primitive.ObjectID{},
		WatchList:    []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user, b.password
}
