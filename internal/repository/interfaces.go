package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twutter/internal/model"
)

// Patterns passed to the *Pattern / Search methods are regular expressions
// matched case-insensitively by the storage engine.

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	// FindByUsernameOrEmail returns the first user matching either field, or ErrUserNotFound.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistingUsernames returns the subset of usernames that have a user record.
	ExistingUsernames(ctx context.Context, usernames []string) ([]string, error)
	List(ctx context.Context, usernamePattern string, limit, skip int) ([]model.User, error)
	Count(ctx context.Context, usernamePattern string) (int64, error)
	// FindOneByUsernamePattern returns the newest user whose username matches, or ErrUserNotFound.
	FindOneByUsernamePattern(ctx context.Context, pattern string) (*model.User, error)
	// Search matches username, displayName or bio, newest first.
	Search(ctx context.Context, pattern string, limit int) ([]model.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	// InsertMany inserts one chunk in a single round trip.
	InsertMany(ctx context.Context, posts []model.Post) ([]model.Post, error)
	List(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error)
	Count(ctx context.Context, filter model.PostFilter) (int64, error)
	Exists(ctx context.Context, postID primitive.ObjectID) (bool, error)
	// FindByAuthorPattern returns every post whose author matches, newest first.
	FindByAuthorPattern(ctx context.Context, pattern string) ([]model.Post, error)
	// Search matches content or author, newest first.
	Search(ctx context.Context, pattern string, limit int) ([]model.Post, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListByPostIDs returns all comments on the given posts, newest first.
	ListByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]model.Comment, error)
}
