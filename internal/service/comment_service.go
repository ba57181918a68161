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

var ErrCommentNotFound = domain.NotFound("Comment not found")

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

type CreateCommentInput struct {
	PostID uuid.UUID
	Text   string
}

func (s *CommentService) Create(ctx context.Context, requester *domain.UserProfile, input CreateCommentInput) (*domain.Comment, error) {
	if input.PostID == uuid.Nil || strings.TrimSpace(input.Text) == "" {
		return nil, domain.Validation("Post ID and comment text are required.")
	}

	if _, err := s.postRepo.GetByID(ctx, input.PostID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, domain.Internal(fmt.Errorf("get post: %w", err))
	}

	comment := &domain.Comment{
		ID:     uuid.New(),
		UserID: requester.ID,
		PostID: input.PostID,
		Text:   input.Text,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, domain.Internal(fmt.Errorf("create comment: %w", err))
	}

	return s.find(ctx, comment.ID)
}

// ListByPost returns every comment on a post, newest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]*domain.Comment, error) {
	comments, err := s.commentRepo.ListByPostID(ctx, postID)
	if err != nil {
		return nil, domain.Internal(fmt.Errorf("list comments: %w", err))
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, requester *domain.UserProfile, id uuid.UUID, text string) (*domain.Comment, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !comment.IsOwnedBy(requester.ID) {
		return nil, domain.Forbidden("You are not allowed to edit this comment")
	}

	if strings.TrimSpace(text) == "" {
		return nil, domain.Validation("Comment text is required")
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, domain.Internal(fmt.Errorf("update comment: %w", err))
	}

	return s.find(ctx, id)
}

func (s *CommentService) Delete(ctx context.Context, requester *domain.UserProfile, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if !comment.IsOwnedBy(requester.ID) {
		return nil, domain.Forbidden("You are not allowed to delete this comment")
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return nil, domain.Internal(fmt.Errorf("delete comment: %w", err))
	}

	return comment, nil
}

func (s *CommentService) find(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, domain.Internal(fmt.Errorf("get comment: %w", err))
	}
	return comment, nil
}
