package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"twutter/internal/model"
	"twutter/internal/repository"
)

const (
	searchResultPost = "post"
	searchResultUser = "user"
)

// SearchService answers keyword and @handle queries over posts and users.
type SearchService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewSearchService(postRepo repository.PostRepository, userRepo repository.UserRepository) *SearchService {
	return &SearchService{
		postRepo: postRepo,
		userRepo: userRepo,
	}
}

// Search dispatches on the query shape. An empty query never touches storage.
// Keyword queries are handed to the storage engine as regular expressions.
func (s *SearchService) Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	if req.Query == "" {
		resp := model.NewSearchResponse()
		resp.Message = model.NoSearchQueryMessage
		return resp, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = model.DefaultSearchLimit
	}

	if strings.HasPrefix(req.Query, model.HandlePrefix) {
		return s.searchHandle(ctx, strings.TrimPrefix(req.Query, model.HandlePrefix))
	}

	resp := model.NewSearchResponse()

	if req.Type == "" || req.Type == model.SearchTypePosts || req.Type == model.SearchTypeAll {
		posts, err := s.postRepo.Search(ctx, req.Query, limit)
		if err != nil {
			return nil, fmt.Errorf("search posts: %w", err)
		}
		resp.Posts = tagPosts(posts)
	}

	if req.Type == "" || req.Type == model.SearchTypeUsers || req.Type == model.SearchTypeAll {
		users, err := s.userRepo.Search(ctx, req.Query, limit)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		resp.Users = tagUsers(users)
	}

	return resp, nil
}

// searchHandle looks up one user by exact, case-insensitive username and
// returns every post by that author. The limit does not apply here.
func (s *SearchService) searchHandle(ctx context.Context, handle string) (*model.SearchResponse, error) {
	resp := model.NewSearchResponse()
	pattern := "^" + regexp.QuoteMeta(handle) + "$"

	user, err := s.userRepo.FindOneByUsernamePattern(ctx, pattern)
	if errors.Is(err, model.ErrUserNotFound) {
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by handle: %w", err)
	}

	posts, err := s.postRepo.FindByAuthorPattern(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("find posts by handle: %w", err)
	}

	user.FillDefaults()
	resp.User = user
	resp.Users = tagUsers([]model.User{*user})
	resp.Posts = tagPosts(posts)
	return resp, nil
}

func tagPosts(posts []model.Post) []model.SearchPost {
	out := make([]model.SearchPost, len(posts))
	for i, p := range posts {
		out[i] = model.SearchPost{Post: p, Type: searchResultPost}
	}
	return out
}

func tagUsers(users []model.User) []model.SearchUser {
	out := make([]model.SearchUser, len(users))
	for i, u := range users {
		u.FillDefaults()
		out[i] = model.SearchUser{User: u, Type: searchResultUser}
	}
	return out
}
