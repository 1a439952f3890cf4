package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/storage"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProjectService struct {
	projects repository.ProjectRepository
	users    repository.UserRepository
	uploader storage.Uploader
}

func NewProjectService(projects repository.ProjectRepository, users repository.UserRepository, uploader storage.Uploader) *ProjectService {
	return &ProjectService{projects: projects, users: users, uploader: uploader}
}

type CreateProjectInput struct {
	Name           string
	RepoID         string
	URL            string
	Description    string
	Domain         string
	TechStacks     []string
	Stars          int
	OwnerUsernames []string // additional owners; the creator is always included
	Videos         []storage.File
	Images         []storage.File
	Thumbnail      *storage.File
}

// Create resolves owners, uploads media and persists the project, then
// appends its id to the creator's project list. The two writes are not
// transactional: a crash in between leaves a project no user references.
func (s *ProjectService) Create(ctx context.Context, creatorID primitive.ObjectID, input CreateProjectInput) (*domain.ProjectDetail, error) {
	if input.Name == "" || input.Description == "" {
		return nil, domain.Validation("name and description are required")
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Unauthorized("user not found")
		}
		return nil, domain.Internal(err)
	}

	owners := []*domain.User{creator}
	for _, username := range input.OwnerUsernames {
		username = strings.ToLower(strings.TrimSpace(username))
		if username == "" || username == creator.Username {
			continue
		}
		owner, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NotFound(fmt.Sprintf("owner %q not found", username))
			}
			return nil, domain.Internal(err)
		}
		owners = append(owners, owner)
	}

	videos, err := s.uploadAll(ctx, "projects/videos", input.Videos)
	if err != nil {
		return nil, err
	}
	images, err := s.uploadAll(ctx, "projects/images", input.Images)
	if err != nil {
		return nil, err
	}
	thumbnail := ""
	if input.Thumbnail != nil {
		urls, err := s.uploadAll(ctx, "projects/thumbnails", []storage.File{*input.Thumbnail})
		if err != nil {
			return nil, err
		}
		thumbnail = urls[0]
	}

	ownerIDs := make([]primitive.ObjectID, len(owners))
	for i, owner := range owners {
		ownerIDs[i] = owner.ID
	}

	now := time.Now()
	project := &domain.Project{
		Name:        input.Name,
		RepoID:      input.RepoID,
		URL:         input.URL,
		Description: input.Description,
		Domain:      input.Domain,
		TechStacks:  input.TechStacks,
		Stars:       input.Stars,
		OwnerIDs:    ownerIDs,
		Videos:      videos,
		Images:      images,
		Thumbnail:   thumbnail,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, domain.Internal(err)
	}

	if err := s.users.AppendProject(ctx, creator.ID, project.ID); err != nil {
		return nil, domain.Internal(err)
	}

	return &domain.ProjectDetail{Project: project, Owners: owners}, nil
}

func (s *ProjectService) ListByUsername(ctx context.Context, username string) ([]*domain.ProjectDetail, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	projects, err := s.projects.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, domain.Internal(err)
	}

	details := make([]*domain.ProjectDetail, 0, len(projects))
	for _, project := range projects {
		detail, err := s.resolveOwners(ctx, project)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (s *ProjectService) GetByUsernameAndName(ctx context.Context, username, projectName string) (*domain.ProjectDetail, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByOwnerAndName(ctx, user.ID, projectName)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("project not found")
		}
		return nil, domain.Internal(err)
	}
	return s.resolveOwners(ctx, project)
}

func (s *ProjectService) Watch(ctx context.Context, userID, projectID primitive.ObjectID) error {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NotFound("project not found")
		}
		return domain.Internal(err)
	}
	if err := s.users.AddToWatchList(ctx, userID, projectID); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func (s *ProjectService) Unwatch(ctx context.Context, userID, projectID primitive.ObjectID) error {
	if err := s.users.RemoveFromWatchList(ctx, userID, projectID); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func (s *ProjectService) userByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("user not found")
		}
		return nil, domain.Internal(err)
	}
	return user, nil
}

func (s *ProjectService) resolveOwners(ctx context.Context, project *domain.Project) (*domain.ProjectDetail, error) {
	owners := make([]*domain.User, 0, len(project.OwnerIDs))
	for _, id := range project.OwnerIDs {
		owner, err := s.users.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // owner account gone; skip rather than fail the read
			}
			return nil, domain.Internal(err)
		}
		owners = append(owners, owner)
	}
	return &domain.ProjectDetail{Project: project, Owners: owners}, nil
}

// uploadAll uploads files in order and fails the whole batch on the first
// error; already-uploaded objects are left in storage.
func (s *ProjectService) uploadAll(ctx context.Context, prefix string, files []storage.File) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, file := range files {
		if s.uploader == nil {
			return nil, domain.Internal(errors.New("object storage is not configured"))
		}
		url, err := s.uploader.Upload(ctx, prefix, file)
		if err != nil {
			return nil, domain.Internal(err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
