package testutil

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anish/devshowcase/internal/api"
	"github.com/anish/devshowcase/internal/config"
	"github.com/anish/devshowcase/internal/repository"
	"github.com/anish/devshowcase/internal/service"
)

// TestConfig returns a configuration suitable for testing.
func TestConfig() *config.Config {
	return &config.Config{
		Port:          "0",
		Environment:   "test",
		JWTSecret:     "test-jwt-secret-key-for-testing-only",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		AllowedOrigin: "http://localhost:5173",
	}
}

// TestServer wires the full HTTP stack over in-memory repositories and fakes.
type TestServer struct {
	Server   *httptest.Server
	Client   *http.Client
	Repos    *repository.Repositories
	Services *service.Services
	Mailer   *FakeMailer
	Uploader *MemoryUploader
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies. The
// returned client carries a cookie jar so auth cookies flow like a browser's.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	repos := NewRepositories()
	mail := NewFakeMailer()
	uploader := NewMemoryUploader()

	services := service.NewServices(repos, cfg, mail, uploader)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	ts := &TestServer{
		Server:   server,
		Client:   &http.Client{Jar: jar},
		Repos:    repos,
		Services: services,
		Mailer:   mail,
		Uploader: uploader,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

// UserRepo returns the in-memory user repository for direct fixture setup.
func (ts *TestServer) UserRepo() *UserRepo {
	return ts.Repos.User.(*UserRepo)
}

// PendingRepo returns the in-memory pending-registration repository.
func (ts *TestServer) PendingRepo() *PendingRepo {
	return ts.Repos.Pending.(*PendingRepo)
}

// ProjectRepo returns the in-memory project repository.
func (ts *TestServer) ProjectRepo() *ProjectRepo {
	return ts.Repos.Project.(*ProjectRepo)
}
