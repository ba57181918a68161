package handlers_test

import (
	"net/http"
	"testing"

	"github.com/dom/blog-api/internal/api/handlers"
	"github.com/dom/blog-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostHandler_List(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, _ := testutil.NewUserBuilder().Build(t, ts.Repos.User)

	first := testutil.NewPostBuilder(owner).Published().Build(t, ts.Repos.Post)
	testutil.NewPostBuilder(owner).Build(t, ts.Repos.Post)
	second := testutil.NewPostBuilder(owner).Published().Build(t, ts.Repos.Post)

	resp, err := http.Get(ts.APIURL("/posts"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []handlers.PostResponse
	env := testutil.AssertSuccessData(t, resp, &posts)
	assert.Equal(t, "Posts fetched successfully", env.Message)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID.String(), posts[0].ID)
	assert.Equal(t, first.ID.String(), posts[1].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, owner.Username, posts[0].Author.Username)
}

func TestPostHandler_ListEmpty(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/posts"))
	require.NoError(t, err)
	defer resp.Body.Close()

	env := testutil.AssertSuccessData(t, resp, nil)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestPostHandler_Get(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, ownerSession := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, otherSession := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	published := testutil.NewPostBuilder(owner).Published().Build(t, ts.Repos.Post)
	draft := testutil.NewPostBuilder(owner).Build(t, ts.Repos.Post)

	tests := []struct {
		name           string
		id             string
		token          string
		expectedStatus int
	}{
		{name: "published anonymous", id: published.ID.String(), expectedStatus: http.StatusOK},
		{name: "draft anonymous", id: draft.ID.String(), expectedStatus: http.StatusForbidden},
		{name: "draft other user", id: draft.ID.String(), token: otherSession.AccessToken, expectedStatus: http.StatusForbidden},
		{name: "draft owner", id: draft.ID.String(), token: ownerSession.AccessToken, expectedStatus: http.StatusOK},
		{name: "invalid token", id: published.ID.String(), token: "garbage", expectedStatus: http.StatusUnauthorized},
		{name: "unknown id", id: uuid.New().String(), expectedStatus: http.StatusNotFound},
		{name: "malformed id", id: "not-a-uuid", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/posts/"+tt.id), nil, tt.token)
			resp := testutil.Do(t, req)

			if tt.expectedStatus != http.StatusOK {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, "")
				return
			}

			var post handlers.PostResponse
			testutil.AssertSuccessData(t, resp, &post)
			assert.Equal(t, tt.id, post.ID)
		})
	}
}

func TestPostHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, session := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	t.Run("authenticated", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/posts"), map[string]interface{}{
			"title":     "My first post",
			"blog":      "Hello there",
			"published": true,
		}, session.AccessToken)
		resp := testutil.Do(t, req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var post handlers.PostResponse
		testutil.AssertSuccessData(t, resp, &post)
		assert.Equal(t, owner.ID.String(), post.UserID)
		assert.Equal(t, "My first post", post.Title)
		assert.True(t, post.Published)
	})

	t.Run("cookie credential", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/posts"), map[string]interface{}{
			"title": "Via cookie",
		}, "")
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: session.AccessToken})
		resp := testutil.Do(t, req)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("missing title", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/posts"), map[string]interface{}{
			"blog": "no title",
		}, session.AccessToken)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "Title is required")
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/posts"), map[string]interface{}{
			"title": "nope",
		}, "")
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Unauthorized request")
	})
}

func TestPostHandler_UpdateAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	owner, ownerSession := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	_, otherSession := testutil.NewUserBuilder().BuildAndLogin(t, ts)

	post := testutil.NewPostBuilder(owner).WithTitle("before").Build(t, ts.Repos.Post)
	url := ts.APIURL("/posts/" + post.ID.String())

	t.Run("non owner cannot update", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, url, map[string]interface{}{"title": "stolen"}, otherSession.AccessToken)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "")
	})

	t.Run("owner updates only given fields", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, url, map[string]interface{}{"published": true}, ownerSession.AccessToken)
		resp := testutil.Do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated handlers.PostResponse
		testutil.AssertSuccessData(t, resp, &updated)
		assert.Equal(t, "before", updated.Title)
		assert.True(t, updated.Published)
	})

	t.Run("update unknown post", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodPut, ts.APIURL("/posts/"+uuid.New().String()),
			map[string]interface{}{"title": "x"}, ownerSession.AccessToken)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Post not found")
	})

	t.Run("non owner cannot delete", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, url, nil, otherSession.AccessToken)
		resp := testutil.Do(t, req)
		testutil.AssertErrorResponse(t, resp, http.StatusForbidden, "")
	})

	t.Run("owner deletes", func(t *testing.T) {
		req := testutil.CreateAuthenticatedRequest(t, http.MethodDelete, url, nil, ownerSession.AccessToken)
		resp := testutil.Do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var deleted handlers.PostResponse
		testutil.AssertSuccessData(t, resp, &deleted)
		assert.Equal(t, post.ID.String(), deleted.ID)

		again := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, url, nil, ownerSession.AccessToken))
		testutil.AssertErrorResponse(t, again, http.StatusNotFound, "")
	})
}

func TestRouter_NotFoundAndHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.BaseURL() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	missing, err := http.Get(ts.APIURL("/nothing-here"))
	require.NoError(t, err)
	defer missing.Body.Close()
	testutil.AssertErrorResponse(t, missing, http.StatusNotFound, "Route not found")
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	ts := testutil.NewTestServer(t)

	for _, path := range []string{"/posts/", "/users/login", "/comments/" + uuid.New().String()} {
		t.Run(path, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPatch, ts.APIURL(path), nil)
			require.NoError(t, err)

			resp := testutil.Do(t, req)
			testutil.AssertErrorResponse(t, resp, http.StatusMethodNotAllowed, "Method not allowed")
		})
	}
}
