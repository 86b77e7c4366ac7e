package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

type CommentCreator interface {
	Create(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error)
}

type CommentHandler struct {
	commentService CommentCreator
}

func NewCommentHandler(commentService CommentCreator) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /posts/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	comment, err := h.commentService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentFieldsRequired):
			httputil.WriteBadRequest(w, "Content, postId, and author are required")
		case errors.Is(err, model.ErrInvalidPostID):
			httputil.WriteBadRequest(w, "Invalid post ID")
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrAuthorNotFound):
			httputil.WriteBadRequest(w, "Author does not exist")
		default:
			log.Printf("[ERROR] Create comment handler: post=%q author=%q err=%v", req.PostID, req.Author, err)
			httputil.WriteInternalError(w, "Failed to create comment")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, comment)
}
