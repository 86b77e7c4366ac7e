package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	Author    string             `bson:"author" json:"author"`
	PostID    primitive.ObjectID `bson:"post_id" json:"post_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateCommentRequest is the request body for POST /posts/comments.
type CreateCommentRequest struct {
	Content string `json:"content"`
	PostID  string `json:"postId"`
	Author  string `json:"author"`
}

// Comment errors
var (
	ErrCommentFieldsRequired = errors.New("content, postId, and author are required")
)
