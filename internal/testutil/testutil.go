package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/blog-api/internal/api"
	"github.com/dom/blog-api/internal/auth"
	"github.com/dom/blog-api/internal/config"
	"github.com/dom/blog-api/internal/repository"
	repoPostgres "github.com/dom/blog-api/internal/repository/postgres"
	"github.com/dom/blog-api/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in -short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_blog"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	if err := db.AutoMigrate(repoPostgres.Models...); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup closes the pool and terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.DB != nil {
		_ = repoPostgres.Close(tdb.DB)
	}
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"comments",
		"posts",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		CORSOrigin:         "http://localhost:5173",
		AccessTokenSecret:  "test-access-secret-for-testing-only",
		RefreshTokenSecret: "test-refresh-secret-for-testing-only",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		BcryptCost:         4, // Fast hashing for tests
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Store    *MemoryStore
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a test server backed by in-memory repositories
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	repos, store := NewMemoryRepositories()
	ts := newTestServer(t, repos, TestConfig())
	ts.Store = store
	return ts
}

// NewTestServerWithClock is NewTestServer with tokens signed and verified
// against now.
func NewTestServerWithClock(t *testing.T, now func() time.Time) *TestServer {
	t.Helper()

	repos, store := NewMemoryRepositories()
	ts := newTestServer(t, repos, TestConfig(), auth.WithClock(now))
	ts.Store = store
	return ts
}

// NewPostgresTestServer creates a test server backed by a postgres container
func NewPostgresTestServer(t *testing.T) (*TestServer, *TestDB) {
	t.Helper()

	testDB := NewTestDB(t)
	return newTestServer(t, repoPostgres.NewRepositories(testDB.DB), TestConfig()), testDB
}

func newTestServer(t *testing.T, repos *repository.Repositories, cfg *config.Config, tokenOpts ...auth.Option) *TestServer {
	t.Helper()

	services, err := service.NewServices(repos, cfg, tokenOpts...)
	if err != nil {
		t.Fatalf("failed to build services: %v", err)
	}
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
