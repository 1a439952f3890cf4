package service

import (
	"github.com/anish/devshowcase/internal/config"
	"github.com/anish/devshowcase/internal/mailer"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/storage"
)

type Services struct {
	Auth    *AuthService
	User    *UserService
	Project *ProjectService
	Tokens  *TokenService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, mail mailer.Mailer, uploader storage.Uploader) *Services {
	tokens := NewTokenService(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Pending, tokens, mail, uploader),
		User:    NewUserService(repos.User, mail, uploader),
		Project: NewProjectService(repos.Project, repos.User, uploader),
		Tokens:  tokens,
	}
}
