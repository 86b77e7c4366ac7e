package service

import (
	"context"
	"errors"
	"fmt"

	"twutter/internal/model"
	"twutter/internal/queue"
	"twutter/internal/repository"
)

// UserService handles user registration and listing.
// It depends on the UserRepository interface, not a concrete implementation.
type UserService struct {
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(userRepo repository.UserRepository, publisher queue.Publisher) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Create registers a new user. The username/email check and the insert are
// separate round trips; the unique indexes catch a lost race and the
// repository reports it as ErrUserExists as well.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	if req.Username == "" || req.Email == "" || req.DisplayName == "" {
		return nil, model.ErrUserFieldsRequired
	}

	_, err := s.userRepo.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err == nil {
		return nil, model.ErrUserExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	user := &model.User{
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
		Followers:   []string{},
		Following:   []string{},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	publish(ctx, s.publisher, "UserService", queue.NewUserCreatedEvent(user.Username))

	return user, nil
}

// List returns a page of users, newest first. A non-empty username filter
// is used as a case-insensitive regular expression, like keyword search.
func (s *UserService) List(ctx context.Context, username string, limit, skip int) (*model.UserListResponse, error) {
	if limit <= 0 {
		limit = model.DefaultUserListLimit
	}
	if skip < 0 {
		skip = 0
	}

	users, err := s.userRepo.List(ctx, username, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	total, err := s.userRepo.Count(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	for i := range users {
		users[i].FillDefaults()
	}
	if users == nil {
		users = []model.User{}
	}

	return &model.UserListResponse{
		Users:      users,
		Pagination: model.NewPagination(total, limit, skip),
	}, nil
}
