package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/anish/devshowcase/internal/api/middleware"
	"github.com/anish/devshowcase/internal/api/respond"
	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/service"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectHandler struct {
	projects *service.ProjectService
}

func NewProjectHandler(projects *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respond.Error(w, domain.Validation("expected multipart form data"))
		return
	}

	videos, closeVideos, err := formFiles(r, "videos")
	if err != nil {
		respond.Error(w, domain.Validation("unreadable video upload"))
		return
	}
	defer closeVideos()

	images, closeImages, err := formFiles(r, "images")
	if err != nil {
		respond.Error(w, domain.Validation("unreadable image upload"))
		return
	}
	defer closeImages()

	thumbnail, closeThumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		respond.Error(w, domain.Validation("unreadable thumbnail upload"))
		return
	}
	defer closeThumbnail()

	stars := 0
	if s := r.FormValue("stars"); s != "" {
		if stars, err = strconv.Atoi(s); err != nil {
			respond.Error(w, domain.Validation("stars must be a number"))
			return
		}
	}

	detail, err := h.projects.Create(r.Context(), userID, service.CreateProjectInput{
		Name:           r.FormValue("name"),
		RepoID:         r.FormValue("repoId"),
		URL:            r.FormValue("url"),
		Description:    r.FormValue("description"),
		Domain:         r.FormValue("domain"),
		TechStacks:     splitList(r.FormValue("techStacks")),
		Stars:          stars,
		OwnerUsernames: splitList(r.FormValue("owners")),
		Videos:         videos,
		Images:         images,
		Thumbnail:      thumbnail,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, detail, "project created")
}

func (h *ProjectHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	details, err := h.projects.ListByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, details, "projects")
}

func (h *ProjectHandler) GetByName(w http.ResponseWriter, r *http.Request) {
	detail, err := h.projects.GetByUsernameAndName(r.Context(),
		chi.URLParam(r, "username"), chi.URLParam(r, "projectName"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, detail, "project")
}

func (h *ProjectHandler) Watch(w http.ResponseWriter, r *http.Request) {
	h.updateWatchList(w, r, h.projects.Watch)
}

func (h *ProjectHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.updateWatchList(w, r, h.projects.Unwatch)
}

func (h *ProjectHandler) updateWatchList(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, projectID primitive.ObjectID) error) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, domain.Unauthorized("authentication required"))
		return
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectId"))
	if err != nil {
		respond.Error(w, domain.Validation("invalid project id"))
		return
	}

	if err := op(r.Context(), userID, projectID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, nil, "watch list updated")
}
