package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/repository/postgres"
	"github.com/dom/blog-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	post := testutil.NewPostBuilder(owner).WithTitle("stored").Build(t, repos.Post)

	got, err := repos.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "stored", got.Title)
	assert.False(t, got.Published)
	require.NotNil(t, got.User)
	assert.Equal(t, owner.Username, got.User.Username)

	_, err = repos.Post.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_ListPublished(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	base := time.Now().Add(-time.Hour)

	create := func(title string, published bool, offset time.Duration) *domain.Post {
		post := &domain.Post{
			ID:        uuid.New(),
			UserID:    owner.ID,
			Title:     title,
			Published: published,
			CreatedAt: base.Add(offset),
		}
		require.NoError(t, repos.Post.Create(ctx, post))
		return post
	}

	oldest := create("oldest", true, 0)
	create("draft", false, time.Minute)
	newest := create("newest", true, 2*time.Minute)

	posts, err := repos.Post.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newest.ID, posts[0].ID)
	assert.Equal(t, oldest.ID, posts[1].ID)
	assert.NotNil(t, posts[0].User)
}

func TestPostRepository_Update(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	other, _ := testutil.NewUserBuilder().Build(t, repos.User)
	post := testutil.NewPostBuilder(owner).Published().Build(t, repos.Post)

	post.Title = "changed"
	post.Published = false
	post.UserID = other.ID // owner column is not written
	require.NoError(t, repos.Post.Update(ctx, post))

	got, err := repos.Post.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "changed", got.Title)
	assert.False(t, got.Published)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestPostRepository_DeleteCascadesComments(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, repos.User)
	post := testutil.NewPostBuilder(owner).Published().Build(t, repos.Post)
	comment := testutil.CreateComment(t, repos.Comment, owner, post, "bye")

	require.NoError(t, repos.Post.Delete(ctx, post.ID))

	_, err := repos.Post.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repos.Comment.GetByID(ctx, comment.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
