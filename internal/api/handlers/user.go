package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/anish/devshowcase/internal/api/middleware"
	"github.com/anish/devshowcase/internal/api/respond"
	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/service"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("authentication required"))
		return
	}

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

	input := service.UpdateProfileInput{
		ProfilePic: profilePic,
		CoverImg:   coverImg,
	}
	// Only fields present in the form are updated.
	if values, ok := r.MultipartForm.Value["techStack"]; ok && len(values) > 0 {
		input.TechStack = splitList(values[0])
	}
	if values, ok := r.MultipartForm.Value["domains"]; ok && len(values) > 0 {
		input.Domains = splitList(values[0])
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, user, "profile updated")
}

func (h *UserHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, domain.Validation("invalid request body"))
		return
	}

	err := h.users.Contact(r.Context(), chi.URLParam(r, "username"), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, nil, "message sent")
}
