package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/service"
	"github.com/dom/blog-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPostService_Create(t *testing.T) {
	services, repos, _ := newServices(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)

	t.Run("creates post owned by requester", func(t *testing.T) {
		post, err := services.Post.Create(ctx, owner.Profile(), service.CreatePostInput{
			Title:     "Hello",
			Blog:      "World",
			Published: true,
		})
		require.NoError(t, err)
		assert.Equal(t, owner.ID, post.UserID)
		assert.Equal(t, "Hello", post.Title)
		assert.True(t, post.Published)
		assert.False(t, post.CreatedAt.IsZero())
		require.NotNil(t, post.User)
		assert.Equal(t, owner.Username, post.User.Username)
	})

	t.Run("defaults to unpublished", func(t *testing.T) {
		post, err := services.Post.Create(ctx, owner.Profile(), service.CreatePostInput{Title: "Draft"})
		require.NoError(t, err)
		assert.False(t, post.Published)
	})

	t.Run("title required", func(t *testing.T) {
		_, err := services.Post.Create(ctx, owner.Profile(), service.CreatePostInput{Title: "   ", Blog: "x"})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})
}

func TestPostService_ListPublished(t *testing.T) {
	services, repos, _ := newServices(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	older := testutil.NewPostBuilder(owner).WithTitle("older").Published().Build(t, repos.Post)
	testutil.NewPostBuilder(owner).WithTitle("hidden").Build(t, repos.Post)
	newer := testutil.NewPostBuilder(owner).WithTitle("newer").Published().Build(t, repos.Post)

	posts, err := services.Post.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
	for _, p := range posts {
		assert.True(t, p.Published)
	}
}

func TestPostService_GetVisibility(t *testing.T) {
	services, repos, _ := newServices(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	other, _ := testutil.NewUserBuilder().Build(t, repos.User)
	published := testutil.NewPostBuilder(owner).Published().Build(t, repos.Post)
	draft := testutil.NewPostBuilder(owner).Build(t, repos.Post)

	tests := []struct {
		name      string
		requester *domain.UserProfile
		postID    uuid.UUID
		wantKind  domain.ErrorKind
		wantErr   bool
	}{
		{name: "published visible to anonymous", postID: published.ID},
		{name: "published visible to other user", requester: other.Profile(), postID: published.ID},
		{name: "draft visible to owner", requester: owner.Profile(), postID: draft.ID},
		{name: "draft hidden from anonymous", postID: draft.ID, wantErr: true, wantKind: domain.KindAuthorization},
		{name: "draft hidden from other user", requester: other.Profile(), postID: draft.ID, wantErr: true, wantKind: domain.KindAuthorization},
		{name: "missing post", requester: owner.Profile(), postID: uuid.New(), wantErr: true, wantKind: domain.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := services.Post.Get(ctx, tt.requester, tt.postID)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.postID, post.ID)
		})
	}
}

func TestPostService_Update(t *testing.T) {
	services, repos, _ := newServices(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	other, _ := testutil.NewUserBuilder().Build(t, repos.User)
	post := testutil.NewPostBuilder(owner).WithTitle("original").Build(t, repos.Post)

	t.Run("other user forbidden", func(t *testing.T) {
		_, err := services.Post.Update(ctx, other.Profile(), post.ID, domain.PostUpdate{Title: strPtr("hijack")})
		assert.True(t, domain.IsKind(err, domain.KindAuthorization))

		stored, err := repos.Post.GetByID(ctx, post.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", stored.Title)
	})

	t.Run("owner partial update keeps other fields", func(t *testing.T) {
		updated, err := services.Post.Update(ctx, owner.Profile(), post.ID, domain.PostUpdate{Published: boolPtr(true)})
		require.NoError(t, err)
		assert.Equal(t, "original", updated.Title)
		assert.Equal(t, post.Blog, updated.Blog)
		assert.True(t, updated.Published)
	})

	t.Run("owner changes title", func(t *testing.T) {
		updated, err := services.Post.Update(ctx, owner.Profile(), post.ID, domain.PostUpdate{Title: strPtr("renamed")})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Title)
		assert.True(t, updated.Published)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		_, err := services.Post.Update(ctx, owner.Profile(), post.ID, domain.PostUpdate{Title: strPtr("")})
		assert.True(t, domain.IsKind(err, domain.KindValidation))
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := services.Post.Update(ctx, owner.Profile(), uuid.New(), domain.PostUpdate{})
		assert.ErrorIs(t, err, service.ErrPostNotFound)
	})
}

func TestPostService_Delete(t *testing.T) {
	services, repos, store := newServices(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	other, _ := testutil.NewUserBuilder().Build(t, repos.User)
	post := testutil.NewPostBuilder(owner).Published().Build(t, repos.Post)
	testutil.CreateComment(t, repos.Comment, other, post, "nice")

	t.Run("other user forbidden", func(t *testing.T) {
		_, err := services.Post.Delete(ctx, other.Profile(), post.ID)
		assert.True(t, domain.IsKind(err, domain.KindAuthorization))
	})

	t.Run("owner deletes and comments go with it", func(t *testing.T) {
		deleted, err := services.Post.Delete(ctx, owner.Profile(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, deleted.ID)

		_, err = services.Post.Get(ctx, owner.Profile(), post.ID)
		assert.ErrorIs(t, err, service.ErrPostNotFound)

		comments, err := services.Comment.ListByPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := services.Post.Delete(ctx, owner.Profile(), uuid.New())
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("store failure is internal", func(t *testing.T) {
		store.FailWith = errors.New("disk full")
		defer func() { store.FailWith = nil }()

		_, err := services.Post.ListPublished(ctx)
		assert.True(t, domain.IsKind(err, domain.KindInternal))
	})
}
