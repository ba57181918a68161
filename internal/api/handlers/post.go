package handlers

import (
	"net/http"
	"time"

	"github.com/dom/blog-api/internal/api/middleware"
	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

type CreatePostRequest struct {
	Title     string `json:"title"`
	Blog      string `json:"blog"`
	Published bool   `json:"published"`
}

// UpdatePostRequest fields left out of the body keep their stored value.
type UpdatePostRequest struct {
	Title     *string `json:"title"`
	Blog      *string `json:"blog"`
	Published *bool   `json:"published"`
}

type PostResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Title     string         `json:"title"`
	Blog      string         `json:"blog"`
	Published bool           `json:"published"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Author    *domain.Author `json:"author,omitempty"`
}

func toPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID.String(),
		UserID:    p.UserID.String(),
		Title:     p.Title,
		Blog:      p.Blog,
		Published: p.Published,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Author:    p.User.Author(),
	}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListPublished(r.Context())
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i, p := range posts {
		resp[i] = toPostResponse(p)
	}

	response.JSON(w, http.StatusOK, "Posts fetched successfully", resp)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	// anonymous when the gate found no credential
	requester, _ := middleware.GetUser(r.Context())

	post, err := h.postService.Get(r.Context(), requester, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, "Post retrieved", toPostResponse(post))
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Error(w, r, middleware.ErrMissingCredential)
		return
	}

	var req CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := h.postService.Create(r.Context(), requester, service.CreatePostInput{
		Title:     req.Title,
		Blog:      req.Blog,
		Published: req.Published,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, "Post created successfully", toPostResponse(post))
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Error(w, r, middleware.ErrMissingCredential)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	var req UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := h.postService.Update(r.Context(), requester, id, domain.PostUpdate{
		Title:     req.Title,
		Blog:      req.Blog,
		Published: req.Published,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, "Post updated", toPostResponse(post))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Error(w, r, middleware.ErrMissingCredential)
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	post, err := h.postService.Delete(r.Context(), requester, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, "Post deleted", toPostResponse(post))
}

func parseID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, domain.Validation("Invalid " + param)
	}
	return id, nil
}
