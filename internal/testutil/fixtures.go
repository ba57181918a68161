package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	username string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "Test User",
		username: fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build stores the user and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, repo repository.UserRepository) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         domain.DefaultRole,
	}

	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// Session is the pair of cookies handed out by login.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// BuildAndLogin stores the user, logs in through the API and returns the
// cookies the server set.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, *Session) {
	t.Helper()

	user, password := b.Build(t, ts.Repos.User)

	body, _ := json.Marshal(map[string]string{
		"email":    user.Email,
		"password": password,
	})

	resp, err := http.Post(ts.APIURL("/users/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	session := &Session{}
	for _, c := range resp.Cookies() {
		switch c.Name {
		case "accessToken":
			session.AccessToken = c.Value
		case "refreshToken":
			session.RefreshToken = c.Value
		}
	}
	if session.AccessToken == "" || session.RefreshToken == "" {
		t.Fatalf("login did not set both token cookies")
	}

	return user, session
}

// PostBuilder creates test posts with a builder pattern
type PostBuilder struct {
	owner     *domain.User
	title     string
	blog      string
	published bool
}

func NewPostBuilder(owner *domain.User) *PostBuilder {
	return &PostBuilder{
		owner: owner,
		title: fmt.Sprintf("Post %s", uuid.New().String()[:8]),
		blog:  "Lorem ipsum dolor sit amet.",
	}
}

func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.title = title
	return b
}

func (b *PostBuilder) Published() *PostBuilder {
	b.published = true
	return b
}

func (b *PostBuilder) Build(t *testing.T, repo repository.PostRepository) *domain.Post {
	t.Helper()

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    b.owner.ID,
		Title:     b.title,
		Blog:      b.blog,
		Published: b.published,
	}

	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return post
}

// CreateComment stores a comment by author on post
func CreateComment(t *testing.T, repo repository.CommentRepository, author *domain.User, post *domain.Post, text string) *domain.Comment {
	t.Helper()

	comment := &domain.Comment{
		ID:     uuid.New(),
		UserID: author.ID,
		PostID: post.ID,
		Text:   text,
	}

	if err := repo.Create(context.Background(), comment); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	return comment
}

// CreateAuthenticatedRequest creates an HTTP request with a bearer token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// Do sends req with the default client
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
