package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twutter/internal/model"
	"twutter/internal/repository"
)

// FeedService serves the paginated post listing with comments joined in.
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
}

func NewFeedService(postRepo repository.PostRepository, commentRepo repository.CommentRepository) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
}

// ListPosts returns one page of posts, newest first. Comments for the whole
// page are loaded with a single query and grouped per post.
func (s *FeedService) ListPosts(ctx context.Context, filter model.PostFilter, limit, skip int) (*model.PostListResponse, error) {
	if limit <= 0 {
		limit = model.DefaultPostListLimit
	}
	if skip < 0 {
		skip = model.DefaultPostListSkip
	}

	posts, err := s.postRepo.List(ctx, filter, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	feed := make([]model.FeedPost, len(posts))
	ids := make([]primitive.ObjectID, len(posts))
	index := make(map[primitive.ObjectID]int, len(posts))
	for i, p := range posts {
		feed[i] = model.NewFeedPost(p)
		ids[i] = p.ID
		index[p.ID] = i
	}

	if len(ids) > 0 {
		comments, err := s.commentRepo.ListByPostIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		// Comments arrive newest first, appending keeps that order per post
		for _, c := range comments {
			if i, ok := index[c.PostID]; ok {
				feed[i].Comments = append(feed[i].Comments, c)
			}
		}
	}

	total, err := s.postRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	return &model.PostListResponse{
		Posts:      feed,
		Pagination: model.NewPagination(total, limit, skip),
	}, nil
}
