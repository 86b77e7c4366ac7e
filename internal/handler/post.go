package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

// FeedLister serves the paginated post listing.
type FeedLister interface {
	ListPosts(ctx context.Context, filter model.PostFilter, limit, skip int) (*model.PostListResponse, error)
}

// PostCreator stores single posts and batches.
type PostCreator interface {
	Create(ctx context.Context, req model.CreatePostRequest) (*model.FeedPost, error)
	CreateBulk(ctx context.Context, inputs []model.BulkPostInput) (*model.BulkCreateResponse, error)
}

type PostHandler struct {
	feedService FeedLister
	postService PostCreator
}

func NewPostHandler(feedService FeedLister, postService PostCreator) *PostHandler {
	return &PostHandler{
		feedService: feedService,
		postService: postService,
	}
}

// List handles GET /posts?author=&limit=&skip=
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.PostFilter{Author: r.URL.Query().Get("author")}
	limit := httputil.QueryInt(r, "limit", model.DefaultPostListLimit)
	skip := httputil.QueryInt(r, "skip", model.DefaultPostListSkip)

	resp, err := h.feedService.ListPosts(r.Context(), filter, limit, skip)
	if err != nil {
		log.Printf("[ERROR] List posts handler: author=%q limit=%d skip=%d err=%v", filter.Author, limit, skip, err)
		httputil.WriteInternalError(w, "Failed to fetch posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	post, err := h.postService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPostFieldsRequired):
			httputil.WriteBadRequest(w, "Content and author are required")
		case errors.Is(err, model.ErrAuthorNotFound):
			httputil.WriteBadRequest(w, "Author does not exist")
		default:
			log.Printf("[ERROR] Create post handler: author=%q err=%v", req.Author, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, post)
}

type bulkCreateRequest struct {
	Posts json.RawMessage `json:"posts"`
}

// Bulk handles POST /posts/bulk with body {"posts": [...]}
func (h *PostHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req bulkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	raw := bytes.TrimSpace(req.Posts)
	if len(raw) == 0 || raw[0] != '[' {
		httputil.WriteBadRequest(w, "Posts must be an array")
		return
	}

	var inputs []model.BulkPostInput
	if err := json.Unmarshal(raw, &inputs); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.postService.CreateBulk(r.Context(), inputs)
	if err != nil {
		var bulkErr *model.BulkPostError
		var missingErr *model.MissingAuthorsError
		switch {
		case errors.Is(err, model.ErrPostsEmpty):
			httputil.WriteBadRequest(w, "Posts array cannot be empty")
		case errors.As(err, &bulkErr):
			httputil.WriteBadRequest(w, bulkErr.Error())
		case errors.As(err, &missingErr):
			httputil.WriteBadRequest(w, missingErr.Error())
		default:
			log.Printf("[ERROR] Bulk create posts handler: count=%d err=%v", len(inputs), err)
			httputil.WriteInternalError(w, "Failed to create posts")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}
