package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/mailer"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users    repository.UserRepository
	mail     mailer.Mailer
	uploader storage.Uploader
}

func NewUserService(users repository.UserRepository, mail mailer.Mailer, uploader storage.Uploader) *UserService {
	return &UserService{users: users, mail: mail, uploader: uploader}
}

type UpdateProfileInput struct {
	TechStack  []string // nil means unchanged
	Domains    []string
	ProfilePic *storage.File
	CoverImg   *storage.File
}

type ContactInput struct {
	Name    string
	Email   string
	Message string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*domain.User, error) {
	update := domain.ProfileUpdate{
		TechStack: input.TechStack,
		Domains:   input.Domains,
	}

	if input.ProfilePic != nil {
		url, err := s.upload(ctx, "avatars", *input.ProfilePic)
		if err != nil {
			return nil, err
		}
		update.ProfilePic = url
	}
	if input.CoverImg != nil {
		url, err := s.upload(ctx, "covers", *input.CoverImg)
		if err != nil {
			return nil, err
		}
		update.CoverImg = url
	}

	if err := s.users.UpdateProfile(ctx, userID, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Internal(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return user, nil
}

// Contact relays a message from a visitor to a user's registered address.
func (s *UserService) Contact(ctx context.Context, username string, input ContactInput) error {
	if input.Name == "" || input.Email == "" || input.Message == "" {
		return domain.Validation("name, email and message are required")
	}
	if !validEmail(input.Email) {
		return domain.Validation("invalid email address")
	}

	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("user not found")
		}
		return domain.Internal(err)
	}

	subject := fmt.Sprintf("DevShowcase: message from %s", input.Name)
	body := fmt.Sprintf("%s (%s) sent you a message:\n\n%s\n", input.Name, input.Email, input.Message)
	if err := s.mail.Send(ctx, user.Email, subject, body); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func (s *UserService) upload(ctx context.Context, prefix string, file storage.File) (string, error) {
	if s.uploader == nil {
		return "", domain.Internal(errors.New("object storage is not configured"))
	}
	url, err := s.uploader.Upload(ctx, prefix, file)
	if err != nil {
		return "", domain.Internal(err)
	}
	return url, nil
}
