package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/anish/devshowcase/internal/domain"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/service"
	"github.com/anish/devshowcase/internal/storage"
	"github.com/anish/devshowcase/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type projectFixture struct {
	repos    *repository.Repositories
	uploader *testutil.MemoryUploader
	projects *service.ProjectService
}

func newProjectFixture() *projectFixture {
	repos := testutil.NewRepositories()
	uploader := testutil.NewMemoryUploader()
	return &projectFixture{
		repos:    repos,
		uploader: uploader,
		projects: service.NewProjectService(repos.Project, repos.User, uploader),
	}
}

func (f *projectFixture) projectRepo() *testutil.ProjectRepo {
	return f.repos.Project.(*testutil.ProjectRepo)
}

func textFile(name, content string) storage.File {
	return storage.File{
		Name:        name,
		ContentType: "application/octet-stream",
		Size:        int64(len(content)),
		Reader:      strings.NewReader(content),
	}
}

func TestCreateProject(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	detail, err := f.projects.Create(ctx, creator.ID, service.CreateProjectInput{
		Name:        "devshowcase",
		Description: "a portfolio backend",
		TechStacks:  []string{"go", "mongodb"},
		Stars:       42,
	})
	require.NoError(t, err)

	assert.False(t, detail.ID.IsZero())
	assert.Equal(t, "devshowcase", detail.Name)
	assert.Equal(t, 42, detail.Stars)
	require.Len(t, detail.Owners, 1)
	assert.Equal(t, creator.ID, detail.Owners[0].ID)

	// The project id lands on the creator's record.
	stored, err := f.repos.User.GetByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Projects, detail.ID)
}

func TestCreateProjectWithCoOwners(t *testing.T) {
	f := newProjectFixture()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)
	coOwner, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	detail, err := f.projects.Create(context.Background(), creator.ID, service.CreateProjectInput{
		Name:        "shared",
		Description: "co-owned project",
		// The creator's own username and blank entries are ignored.
		OwnerUsernames: []string{coOwner.Username, creator.Username, "", "  "},
	})
	require.NoError(t, err)

	require.Len(t, detail.Owners, 2)
	assert.Equal(t, creator.ID, detail.Owners[0].ID)
	assert.Equal(t, coOwner.ID, detail.Owners[1].ID)
}

func TestCreateProjectMissingOwnerPersistsNothing(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	_, err := f.projects.Create(ctx, creator.ID, service.CreateProjectInput{
		Name:           "doomed",
		Description:    "references a ghost",
		OwnerUsernames: []string{"ghost"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Zero(t, f.projectRepo().Count(), "no project should be written")
	stored, err := f.repos.User.GetByID(ctx, creator.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Projects)
}

func TestCreateProjectValidation(t *testing.T) {
	f := newProjectFixture()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	_, err := f.projects.Create(context.Background(), creator.ID, service.CreateProjectInput{Name: "no description"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.projects.Create(context.Background(), primitive.NewObjectID(), service.CreateProjectInput{
		Name:        "orphan",
		Description: "creator does not exist",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateProjectUploadsMedia(t *testing.T) {
	f := newProjectFixture()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	thumb := textFile("thumb.png", "thumbnail-bytes")
	detail, err := f.projects.Create(context.Background(), creator.ID, service.CreateProjectInput{
		Name:        "media",
		Description: "with uploads",
		Images:      []storage.File{textFile("a.png", "img-a"), textFile("b.png", "img-b")},
		Videos:      []storage.File{textFile("demo.mp4", "vid")},
		Thumbnail:   &thumb,
	})
	require.NoError(t, err)

	assert.Len(t, detail.Images, 2)
	assert.Len(t, detail.Videos, 1)
	assert.True(t, strings.HasPrefix(detail.Thumbnail, "mem://projects/thumbnails/"))
	assert.Len(t, f.uploader.Objects, 4)
}

func TestListByUsername(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	for _, name := range []string{"first", "second"} {
		_, err := f.projects.Create(ctx, creator.ID, service.CreateProjectInput{Name: name, Description: "d"})
		require.NoError(t, err)
	}

	details, err := f.projects.ListByUsername(ctx, creator.Username)
	require.NoError(t, err)
	assert.Len(t, details, 2)

	_, err = f.projects.ListByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByUsernameAndName(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	created, err := f.projects.Create(ctx, creator.ID, service.CreateProjectInput{Name: "findme", Description: "d"})
	require.NoError(t, err)

	detail, err := f.projects.GetByUsernameAndName(ctx, creator.Username, "findme")
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)

	_, err = f.projects.GetByUsernameAndName(ctx, creator.Username, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWatchAndUnwatch(t *testing.T) {
	f := newProjectFixture()
	ctx := context.Background()
	creator, _ := testutil.NewUserBuilder().Build(t, f.repos.User)
	watcher, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	detail, err := f.projects.Create(ctx, creator.ID, service.CreateProjectInput{Name: "watched", Description: "d"})
	require.NoError(t, err)

	require.NoError(t, f.projects.Watch(ctx, watcher.ID, detail.ID))
	require.NoError(t, f.projects.Watch(ctx, watcher.ID, detail.ID)) // idempotent

	stored, err := f.repos.User.GetByID(ctx, watcher.ID)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{detail.ID}, stored.WatchList)

	require.NoError(t, f.projects.Unwatch(ctx, watcher.ID, detail.ID))
	stored, err = f.repos.User.GetByID(ctx, watcher.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.WatchList)
}

func TestWatchUnknownProject(t *testing.T) {
	f := newProjectFixture()
	watcher, _ := testutil.NewUserBuilder().Build(t, f.repos.User)

	err := f.projects.Watch(context.Background(), watcher.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
