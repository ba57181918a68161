package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPostNotFound = domain.NotFound("Post not found")

type PostService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

type CreatePostInput struct {
	Title     string
	Blog      string
	Published bool
}

func (s *PostService) Create(ctx context.Context, requester *domain.UserProfile, input CreatePostInput) (*domain.Post, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.Validation("Title is required")
	}

	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    requester.ID,
		Title:     input.Title,
		Blog:      input.Blog,
		Published: input.Published,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, domain.Internal(fmt.Errorf("create post: %w", err))
	}

	// re-read so timestamps and author are populated
	return s.find(ctx, post.ID)
}

func (s *PostService) ListPublished(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.postRepo.ListPublished(ctx)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list published posts: %w", err))
	}
	return posts, nil
}

// Get returns a post if it is published or owned by requester.
// A nil requester is anonymous.
func (s *PostService) Get(ctx context.Context, requester *domain.UserProfile, id uuid.UUID) (*domain.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.VisibleTo(requester) {
		return nil, domain.Forbidden("Not Authorized to view this Post")
	}

	return post, nil
}

func (s *PostService) Update(ctx context.Context, requester *domain.UserProfile, id uuid.UUID, update domain.PostUpdate) (*domain.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsOwnedBy(requester.ID) {
		return nil, domain.Forbidden("You are not authorized to update this post")
	}

	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, domain.Validation("Title cannot be empty")
	}

	update.Apply(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, domain.Internal(fmt.Errorf("update post: %w", err))
	}

	return s.find(ctx, post.ID)
}

func (s *PostService) Delete(ctx context.Context, requester *domain.UserProfile, id uuid.UUID) (*domain.Post, error) {
	post, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !post.IsOwnedBy(requester.ID) {
		return nil, domain.Forbidden("You are not authorized to delete this post")
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return nil, domain.Internal(fmt.Errorf("delete post: %w", err))
	}

	return post, nil
}

func (s *PostService) find(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, domain.Internal(fmt.Errorf("get post: %w", err))
	}
	return post, nil
}
