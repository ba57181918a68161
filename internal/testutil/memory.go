package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemoryStore backs in-memory repositories that follow the same error
// contract as the postgres ones (gorm.ErrRecordNotFound, gorm.ErrDuplicatedKey).
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	users    map[uuid.UUID]domain.User
	posts    map[uuid.UUID]storedPost
	comments map[uuid.UUID]storedComment

	// FailWith, when set, is returned by every repository call.
	FailWith error
}

type storedPost struct {
	post domain.Post
	seq  int64
}

type storedComment struct {
	comment domain.Comment
	seq     int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]domain.User),
		posts:    make(map[uuid.UUID]storedPost),
		comments: make(map[uuid.UUID]storedComment),
	}
}

// NewMemoryRepositories returns repositories sharing one fresh store.
func NewMemoryRepositories() (*repository.Repositories, *MemoryStore) {
	store := NewMemoryStore()
	return &repository.Repositories{
		User:    &memoryUserRepository{store},
		Post:    &memoryPostRepository{store},
		Comment: &memoryCommentRepository{store},
	}, store
}

// Reset drops all rows.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[uuid.UUID]domain.User)
	s.posts = make(map[uuid.UUID]storedPost)
	s.comments = make(map[uuid.UUID]storedComment)
	s.FailWith = nil
}

// DeleteUser removes a user row, as an operator might after tokens were issued.
func (s *MemoryStore) DeleteUser(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

func (s *MemoryStore) author(id uuid.UUID) *domain.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

type memoryUserRepository struct {
	s *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email || u.Username == username })
}

func (r *memoryUserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	for _, u := range r.s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memoryPostRepository struct {
	s *MemoryStore
}

func (r *memoryPostRepository) Create(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	now := time.Now()
	post.CreatedAt, post.UpdatedAt = now, now
	r.s.seq++
	stored := *post
	stored.User = nil
	r.s.posts[post.ID] = storedPost{post: stored, seq: r.s.seq}
	return nil
}

func (r *memoryPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	sp, ok := r.s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	post := sp.post
	post.User = r.s.author(post.UserID)
	return &post, nil
}

func (r *memoryPostRepository) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	rows := make([]storedPost, 0, len(r.s.posts))
	for _, sp := range r.s.posts {
		if sp.post.Published {
			rows = append(rows, sp)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	posts := make([]*domain.Post, len(rows))
	for i, sp := range rows {
		post := sp.post
		post.User = r.s.author(post.UserID)
		posts[i] = &post
	}
	return posts, nil
}

func (r *memoryPostRepository) Update(ctx context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	sp, ok := r.s.posts[post.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sp.post.Title = post.Title
	sp.post.Blog = post.Blog
	sp.post.Published = post.Published
	sp.post.UpdatedAt = time.Now()
	r.s.posts[post.ID] = sp
	return nil
}

func (r *memoryPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	delete(r.s.posts, id)
	for cid, sc := range r.s.comments {
		if sc.comment.PostID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type memoryCommentRepository struct {
	s *MemoryStore
}

func (r *memoryCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	if _, ok := r.s.posts[comment.PostID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	now := time.Now()
	comment.CreatedAt, comment.UpdatedAt = now, now
	r.s.seq++
	stored := *comment
	stored.User, stored.Post = nil, nil
	r.s.comments[comment.ID] = storedComment{comment: stored, seq: r.s.seq}
	return nil
}

func (r *memoryCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	sc, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	comment := sc.comment
	comment.User = r.s.author(comment.UserID)
	return &comment, nil
}

func (r *memoryCommentRepository) ListByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.FailWith != nil {
		return nil, r.s.FailWith
	}
	rows := make([]storedComment, 0)
	for _, sc := range r.s.comments {
		if sc.comment.PostID == postID {
			rows = append(rows, sc)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })

	comments := make([]*domain.Comment, len(rows))
	for i, sc := range rows {
		comment := sc.comment
		comment.User = r.s.author(comment.UserID)
		comments[i] = &comment
	}
	return comments, nil
}

func (r *memoryCommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	sc, ok := r.s.comments[comment.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sc.comment.Text = comment.Text
	sc.comment.UpdatedAt = time.Now()
	r.s.comments[comment.ID] = sc
	return nil
}

func (r *memoryCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailWith != nil {
		return r.s.FailWith
	}
	delete(r.s.comments, id)
	return nil
}
