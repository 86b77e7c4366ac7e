package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twutter/internal/model"
	"twutter/internal/queue"
	"twutter/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	publisher   queue.Publisher
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// Create adds a comment to an existing post. Checks run in order: required
// fields, post id format, post existence, author existence.
func (s *CommentService) Create(ctx context.Context, req model.CreateCommentRequest) (*model.Comment, error) {
	if req.Content == "" || req.PostID == "" || req.Author == "" {
		return nil, model.ErrCommentFieldsRequired
	}

	postID, err := primitive.ObjectIDFromHex(req.PostID)
	if err != nil {
		return nil, model.ErrInvalidPostID
	}

	postExists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if !postExists {
		return nil, model.ErrPostNotFound
	}

	authorExists, err := s.userRepo.ExistsByUsername(ctx, req.Author)
	if err != nil {
		return nil, fmt.Errorf("check author: %w", err)
	}
	if !authorExists {
		return nil, model.ErrAuthorNotFound
	}

	comment := &model.Comment{
		Content: req.Content,
		Author:  req.Author,
		PostID:  postID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	publish(ctx, s.publisher, "CommentService",
		queue.NewCommentCreatedEvent(comment.ID.Hex(), req.PostID, comment.Author))

	return comment, nil
}
