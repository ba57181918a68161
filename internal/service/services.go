package service

import (
	"github.com/dom/blog-api/internal/auth"
	"github.com/dom/blog-api/internal/config"
	"github.com/dom/blog-api/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Post    *PostService
	Comment *CommentService
	Tokens  *auth.TokenIssuer
}

// NewServices wires every service. tokenOpts are passed to the token issuer.
func NewServices(repos *repository.Repositories, cfg *config.Config, tokenOpts ...auth.Option) (*Services, error) {
	tokens := auth.NewTokenIssuer(
		cfg.AccessTokenSecret,
		cfg.RefreshTokenSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
		tokenOpts...,
	)

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:    NewAuthService(repos.User, tokens, hasher),
		Post:    NewPostService(repos.Post),
		Comment: NewCommentService(repos.Comment, repos.Post),
		Tokens:  tokens,
	}, nil
}
