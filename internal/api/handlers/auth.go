package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/anish/devshowcase/internal/api/middleware"
	"github.com/anish/devshowcase/internal/api/respond"
	"github.com/anish/devshowcase/internal/config"
	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/service"
)

const refreshTokenCookie = "refreshToken"

type AuthHandler struct {
	auth          *service.AuthService
	accessTTL     time.Duration
	refreshTTL    time.Duration
	secureCookies bool
}

func NewAuthHandler(auth *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		// Browsers drop Secure cookies on plain HTTP, which is all
		// local development uses.
		secureCookies: cfg.Environment == "production",
	}
}

type authResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respond.Error(w, domain.Validation("expected multipart form data"))
		return
	}

	profilePic, closeProfile, err := formFile(r, "profilePic")
	if err != nil {
		respond.Error(w, domain.Validation("unreadable profilePic upload"))
		return
	}
	defer closeProfile()

	coverImg, closeCover, err := formFile(r, "coverImg")
	if err != nil {
		respond.Error(w, domain.Validation("unreadable coverImg upload"))
		return
	}
	defer closeCover()

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username:   r.FormValue("username"),
		Email:      r.FormValue("email"),
		GithubID:   r.FormValue("githubId"),
		Password:   r.FormValue("password"),
		ProfilePic: profilePic,
		CoverImg:   coverImg,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, result, "verification code sent")
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegistrationID string `json:"registrationId"`
		Email          string `json:"email"`
		OTP            string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	user, err := h.auth.VerifyOTP(r.Context(), service.VerifyOTPInput{
		RegistrationID: req.RegistrationID,
		Email:          req.Email,
		OTP:            req.OTP,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "user created")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		identifier = req.Email
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	respond.JSON(w, http.StatusOK, authResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "logged in")
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil {
		token = cookie.Value
	}
	if token == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		// Body is optional when the cookie is present.
		_ = json.NewDecoder(r.Body).Decode(&req)
		token = req.RefreshToken
	}

	result, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		respond.Error(w, err)
		return
	}

	h.setAuthCookies(w, result.AccessToken, result.RefreshToken)
	respond.JSON(w, http.StatusOK, authResponse{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "tokens refreshed")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("authentication required"))
		return
	}

	if err := h.auth.Logout(r.Context(), userID); err != nil {
		respond.Error(w, err)
		return
	}

	h.clearAuthCookies(w)
	respond.JSON(w, http.StatusOK, nil, "logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("authentication required"))
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "profile")
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
