package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/mailer"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/storage"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpTTL         = 10 * time.Minute
	otpMailSubject = "Your DevShowcase verification code"
)

type AuthService struct {
	users      repository.UserRepository
	pending    repository.PendingRegistrationRepository
	tokens     *TokenService
	mail       mailer.Mailer
	uploader   storage.Uploader
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, pending repository.PendingRegistrationRepository, tokens *TokenService, mail mailer.Mailer, uploader storage.Uploader) *AuthService {
	return &AuthService{
		users:      users,
		pending:    pending,
		tokens:     tokens,
		mail:       mail,
		uploader:   uploader,
		bcryptCost: bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Username   string
	Email      string
	GithubID   string
	Password   string
	ProfilePic *storage.File
	CoverImg   *storage.File
}

// RegisterResult is what the client gets back from the register step: an
// opaque reference to the staged record, never the record itself.
type RegisterResult struct {
	RegistrationID string `json:"registrationId"`
	Email          string `json:"email"`
}

type VerifyOTPInput struct {
	RegistrationID string
	Email          string
	OTP            string
}

type LoginInput struct {
	Identifier string // username or email
	Password   string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register validates the submitted fields, uploads any profile media, and
// stages a pending registration gated by an emailed one-time code. No User
// document is written here.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	githubID := strings.TrimSpace(input.GithubID)

	switch {
	case username == "" || email == "" || githubID == "" || input.Password == "":
		return nil, domain.Validation("username, email, githubId and password are required")
	case !validUsername(username):
		return nil, domain.Validation("username must be 3-30 lowercase letters, digits or underscores")
	case !validEmail(email):
		return nil, domain.Validation("invalid email address")
	case !validGithubHandle(githubID):
		return nil, domain.Validation("invalid github handle")
	case len(input.Password) < 8:
		return nil, domain.Validation("password must be at least 8 characters")
	}

	exists, err := s.users.ExistsByAny(ctx, username, email, githubID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if exists {
		return nil, domain.Conflict("username, email or github id already in use")
	}

	profilePicURL, err := s.uploadIfPresent(ctx, "avatars", input.ProfilePic)
	if err != nil {
		return nil, err
	}
	coverImgURL, err := s.uploadIfPresent(ctx, "covers", input.CoverImg)
	if err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, domain.Internal(err)
	}

	code, err := generateOTP(email)
	if err != nil {
		return nil, domain.Internal(err)
	}
	otpHash, err := bcrypt.GenerateFromPassword([]byte(code), s.bcryptCost)
	if err != nil {
		return nil, domain.Internal(err)
	}

	now := time.Now()
	pending := &domain.PendingRegistration{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		GithubID:     githubID,
		PasswordHash: string(passwordHash),
		ProfilePic:   profilePicURL,
		CoverImg:     coverImgURL,
		OTPHash:      string(otpHash),
		ExpiresAt:    now.Add(otpTTL),
		CreatedAt:    now,
	}
	if err := s.pending.Upsert(ctx, pending); err != nil {
		return nil, domain.Internal(err)
	}

	body := fmt.Sprintf("Hi %s,\n\nYour verification code is: %s\nIt is valid for 10 minutes.\n\nDevShowcase", username, code)
	if err := s.mail.Send(ctx, email, otpMailSubject, body); err != nil {
		return nil, domain.Internal(err)
	}

	return &RegisterResult{RegistrationID: pending.ID, Email: pending.Email}, nil
}

// VerifyOTP consumes the staged registration and creates the User. This is
// the only path by which a User document comes into existence.
func (s *AuthService) VerifyOTP(ctx context.Context, input VerifyOTPInput) (*domain.User, error) {
	if input.OTP == "" {
		return nil, domain.Validation("otp is required")
	}

	pending, err := s.lookupPending(ctx, input)
	if err != nil {
		return nil, err
	}
	if pending.Expired(time.Now()) {
		// The TTL monitor may not have reaped it yet; treat as gone.
		_ = s.pending.Delete(ctx, pending.ID)
		return nil, domain.NotFound("no pending registration found")
	}

	if bcrypt.CompareHashAndPassword([]byte(pending.OTPHash), []byte(input.OTP)) != nil {
		return nil, domain.InvalidCredentials("incorrect verification code")
	}

	if err := s.pending.Delete(ctx, pending.ID); err != nil {
		return nil, domain.Internal(err)
	}

	// Re-check duplicates: someone may have claimed the identity while the
	// registration was staged.
	exists, err := s.users.ExistsByAny(ctx, pending.Username, pending.Email, pending.GithubID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if exists {
		return nil, domain.Conflict("username, email or github id already in use")
	}

	now := time.Now()
	user := &domain.User{
		Username:     pending.Username,
		Email:        pending.Email,
		GithubID:     pending.GithubID,
		PasswordHash: pending.PasswordHash,
		ProfilePic:   pending.ProfilePic,
		CoverImg:     pending.CoverImg,
		TechStack:    []string{},
		Domains:      []string{},
		Projects:     []primitive.ObjectID{},
		WatchList:    []primitive.ObjectID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, domain.Internal(err)
	}

	return user, nil
}

// Login checks credentials and issues a fresh token pair, overwriting the
// stored refresh token — logging in from a second client invalidates the
// first client's refresh token.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))
	if identifier == "" || input.Password == "" {
		return nil, domain.Validation("username or email and password are required")
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, domain.InvalidCredentials("incorrect password")
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. The incoming token must verify and must
// equal the value stored on the user record, which rejects both forged tokens
// and reuse after rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("refresh token required")
	}

	userIDHex, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return nil, domain.Unauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("invalid token")
		}
		return nil, domain.Internal(err)
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, domain.Unauthorized("refresh token is expired or already used")
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token. The access token is not
// blacklisted; it expires on its own.
func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, ""); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Unauthorized("user not found")
		}
		return domain.Internal(err)
	}
	return nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Internal(err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, domain.Internal(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID.Hex())
	if err != nil {
		return nil, domain.Internal(err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, domain.Internal(err)
	}
	user.RefreshToken = refreshToken

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) lookupPending(ctx context.Context, input VerifyOTPInput) (*domain.PendingRegistration, error) {
	var (
		pending *domain.PendingRegistration
		err     error
	)
	switch {
	case input.RegistrationID != "":
		pending, err = s.pending.GetByID(ctx, input.RegistrationID)
	case input.Email != "":
		pending, err = s.pending.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	default:
		return nil, domain.Validation("registrationId or email is required")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("no pending registration found")
		}
		return nil, domain.Internal(err)
	}
	return pending, nil
}

func (s *AuthService) uploadIfPresent(ctx context.Context, prefix string, file *storage.File) (string, error) {
	if file == nil {
		return "", nil
	}
	if s.uploader == nil {
		return "", domain.Internal(errors.New("object storage is not configured"))
	}
	url, err := s.uploader.Upload(ctx, prefix, *file)
	if err != nil {
		return "", domain.Internal(err)
	}
	return url, nil
}

// generateOTP derives a 6-digit code from a throwaway TOTP secret. The secret
// is discarded; only a hash of the code is stored.
func generateOTP(email string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      tokenIssuer,
		AccountName: email,
	})
	if err != nil {
		return "", err
	}
	return totp.GenerateCodeCustom(key.Secret(), time.Now(), totp.ValidateOpts{
		Period:    uint(otpTTL / time.Second),
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
