package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a stored post. Comments live in their own collection and are
// attached at read time through FeedPost.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Likes     int                `bson:"likes" json:"likes"`
}

// FeedPost is a post with its comments joined in.
type FeedPost struct {
	Post
	Comments []Comment `json:"comments"`
}

// NewFeedPost wraps a post with an empty, non-nil comments slice.
func NewFeedPost(p Post) FeedPost {
	return FeedPost{Post: p, Comments: []Comment{}}
}

// PostFilter narrows the feed listing. An empty Author matches every post.
type PostFilter struct {
	Author string
}

// Pagination describes an offset page.
type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Skip    int   `json:"skip"`
	HasMore bool  `json:"hasMore"`
}

// NewPagination computes hasMore for an offset page.
func NewPagination(total int64, limit, skip int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Skip:    skip,
		HasMore: int64(skip)+int64(limit) < total,
	}
}

// PostListResponse is the paginated feed response.
type PostListResponse struct {
	Posts      []FeedPost `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// CreatePostRequest is the request body for POST /posts.
type CreatePostRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// BulkPostInput is one element of a bulk create batch.
type BulkPostInput struct {
	Content string `json:"content"`
	Author  string `json:"author"`
	Likes   int    `json:"likes"`
}

// BulkCreateResponse is the response for POST /posts/bulk.
type BulkCreateResponse struct {
	Posts []FeedPost `json:"posts"`
	Count int        `json:"count"`
}

// Post constants
const (
	DefaultPostListLimit = 100
	DefaultPostListSkip  = 0
	BulkInsertChunkSize  = 1000
)

// Post errors
var (
	ErrPostFieldsRequired = errors.New("content and author are required")
	ErrAuthorNotFound     = errors.New("author does not exist")
	ErrPostNotFound       = errors.New("post not found")
	ErrInvalidPostID      = errors.New("invalid post ID")
	ErrPostsNotArray      = errors.New("posts must be an array")
	ErrPostsEmpty         = errors.New("posts array cannot be empty")
	ErrInvalidBulkPost    = errors.New("invalid post in batch")
)

// BulkPostError reports the first batch element missing content or author.
type BulkPostError struct {
	Index int
}

func (e *BulkPostError) Error() string {
	return fmt.Sprintf("Post at index %d is missing content or author", e.Index)
}

func (e *BulkPostError) Unwrap() error {
	return ErrInvalidBulkPost
}

// MissingAuthorsError lists every author in a batch that has no user record.
type MissingAuthorsError struct {
	Usernames []string
}

func (e *MissingAuthorsError) Error() string {
	return "Authors do not exist: " + strings.Join(e.Usernames, ", ")
}

func (e *MissingAuthorsError) Unwrap() error {
	return ErrAuthorNotFound
}
