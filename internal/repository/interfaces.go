package repository

import (
	"context"

	"github.com/dom/blog-api/internal/domain"
	"github.com/google/uuid"
)

// Implementations return gorm.ErrRecordNotFound for missing rows and
// gorm.ErrDuplicatedKey for unique violations.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListPublished(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListByPostID(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User    UserRepository
	Post    PostRepository
	Comment CommentRepository
}
