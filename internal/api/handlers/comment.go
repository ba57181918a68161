package handlers

import (
	"net/http"
	"time"

	"github.com/dom/blog-api/internal/api/middleware"
	"github.com/dom/blog-api/internal/api/response"
	"github.com/dom/blog-api/internal/domain"
	"github.com/dom/blog-api/internal/service"
	"github.com/google/uuid"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type CreateCommentRequest struct {
	PostID string `json:"postId"`
	Text   string `json:"text"`
}

type UpdateCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID        string         `json:"id"`
	PostID    string         `json:"postId"`
	UserID    string         `json:"userId"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Author    *domain.Author `json:"author,omitempty"`
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		UserID:    c.UserID.String(),
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Author:    c.User.Author(),
	}
}

func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := parseID(r, "postId")
	if err != nil {
		response.Error(w, r, err)
		return
	}

	comments, err := h.commentService.ListByPost(r.Context(), postID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = toCommentResponse(c)
	}

	response.JSON(w, http.StatusOK, "Comments retrieved successfully", resp)
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetUser(r.Context())
	if !ok {
		response.Error(w, r, middleware.ErrMissingCredential)
		return
	}

	var req CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	var postID uuid.UUID
	if req.PostID != "" {
		var err error
		if postID, err = uuid.Parse(req.PostID); err != nil {
			response.Error(w, r, domain.Validation("Invalid postId"))
			return
		}
	}

	comment, err := h.commentService.Create(r.Context(), requester, service.CreateCommentInput{
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, "Comment created successfully", toCommentResponse(comment))
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, r, err)
		return
	}

	comment, err := h.commentService.Update(r.Context(), requester, id, req.Text)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, "Comment updated successfully", toCommentResponse(comment))
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	comment, err := h.commentService.Delete(r.Context(), requester, id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, "Comment deleted successfully", toCommentResponse(comment))
}
