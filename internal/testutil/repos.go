package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NewRepositories returns a fully in-memory repository set mirroring the
// MongoDB implementations' semantics (not-found errors, unique constraints,
// upsert-by-email).
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepo(),
		Pending: NewPendingRepo(),
		Project: NewProjectRepo(),
	}
}

type UserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email || existing.GithubID == user.GithubID {
			return domain.Conflict("username, email or github id already in use")
		}
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.NotFound("user not found")
	}
	clone := *user
	return &clone, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	identifier = strings.ToLower(identifier)
	return r.find(func(u *domain.User) bool {
		return u.Username == identifier || u.Email == identifier
	})
}

func (r *UserRepo) ExistsByAny(ctx context.Context, username, email, githubID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username || u.Email == email || u.GithubID == githubID {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return r.update(id, func(u *domain.User) {
		u.RefreshToken = token
	})
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.ProfileUpdate) error {
	return r.update(id, func(u *domain.User) {
		if update.TechStack != nil {
			u.TechStack = update.TechStack
		}
		if update.Domains != nil {
			u.Domains = update.Domains
		}
		if update.ProfilePic != "" {
			u.ProfilePic = update.ProfilePic
		}
		if update.CoverImg != "" {
			u.CoverImg = update.CoverImg
		}
	})
}

func (r *UserRepo) AppendProject(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.update(id, func(u *domain.User) {
		for _, existing := range u.Projects {
			if existing == projectID {
				return
			}
		}
		u.Projects = append(u.Projects, projectID)
	})
}

func (r *UserRepo) AddToWatchList(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.update(id, func(u *domain.User) {
		for _, existing := range u.WatchList {
			if existing == projectID {
				return
			}
		}
		u.WatchList = append(u.WatchList, projectID)
	})
}

func (r *UserRepo) RemoveFromWatchList(ctx context.Context, id, projectID primitive.ObjectID) error {
	return r.update(id, func(u *domain.User) {
		filtered := u.WatchList[:0]
		for _, existing := range u.WatchList {
			if existing != projectID {
				filtered = append(filtered, existing)
			}
		}
		u.WatchList = filtered
	})
}

func (r *UserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.NotFound("user not found")
}

func (r *UserRepo) update(id primitive.ObjectID, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.NotFound("user not found")
	}
	fn(user)
	user.UpdatedAt = time.Now()
	return nil
}

type PendingRepo struct {
	mu      sync.Mutex
	pending map[string]*domain.PendingRegistration
}

func NewPendingRepo() *PendingRepo {
	return &PendingRepo{pending: make(map[string]*domain.PendingRegistration)}
}

func (r *PendingRepo) Upsert(ctx context.Context, pending *domain.PendingRegistration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.pending {
		if existing.Email == pending.Email {
			delete(r.pending, id)
		}
	}
	clone := *pending
	r.pending[pending.ID] = &clone
	return nil
}

func (r *PendingRepo) GetByID(ctx context.Context, id string) (*domain.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pending, ok := r.pending[id]
	if !ok {
		return nil, domain.NotFound("no pending registration found")
	}
	clone := *pending
	return &clone, nil
}

func (r *PendingRepo) GetByEmail(ctx context.Context, email string) (*domain.PendingRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pending := range r.pending {
		if pending.Email == email {
			clone := *pending
			return &clone, nil
		}
	}
	return nil, domain.NotFound("no pending registration found")
}

func (r *PendingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.pending, id)
	return nil
}

// ExpireAll backdates every staged registration, for expiry tests.
func (r *PendingRepo) ExpireAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pending := range r.pending {
		pending.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

type ProjectRepo struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]*domain.Project
}

func NewProjectRepo() *ProjectRepo {
	return &ProjectRepo{projects: make(map[primitive.ObjectID]*domain.Project)}
}

func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	clone := *project
	r.projects[project.ID] = &clone
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, ok := r.projects[id]
	if !ok {
		return nil, domain.NotFound("project not found")
	}
	clone := *project
	return &clone, nil
}

func (r *ProjectRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Project
	for _, project := range r.projects {
		for _, id := range project.OwnerIDs {
			if id == ownerID {
				clone := *project
				out = append(out, &clone)
				break
			}
		}
	}
	return out, nil
}

func (r *ProjectRepo) GetByOwnerAndName(ctx context.Context, ownerID primitive.ObjectID, name string) (*domain.Project, error) {
	projects, _ := r.GetByOwner(ctx, ownerID)
	for _, project := range projects {
		if project.Name == name {
			return project, nil
		}
	}
	return nil, domain.NotFound("project not found")
}

// Count reports how many projects are stored, for no-partial-write checks.
func (r *ProjectRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.projects)
}
