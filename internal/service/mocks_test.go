package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twutter/internal/model"
	"twutter/internal/queue"
)

// =============================================================================
// MOCK REPOSITORIES
// =============================================================================
//
// Each mock exposes fn fields so a test only defines the calls it cares about.
// Unset fns fall back to a harmless default.

type mockUserRepository struct {
	createFn                   func(ctx context.Context, user *model.User) error
	findByUsernameOrEmailFn    func(ctx context.Context, username, email string) (*model.User, error)
	existsByUsernameFn         func(ctx context.Context, username string) (bool, error)
	existingUsernamesFn        func(ctx context.Context, usernames []string) ([]string, error)
	listFn                     func(ctx context.Context, pattern string, limit, skip int) ([]model.User, error)
	countFn                    func(ctx context.Context, pattern string) (int64, error)
	findOneByUsernamePatternFn func(ctx context.Context, pattern string) (*model.User, error)
	searchFn                   func(ctx context.Context, pattern string, limit int) ([]model.User, error)

	createCalls            []*model.User
	existingUsernamesCalls [][]string
	searchCalls            int
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = primitive.NewObjectID()
	return nil
}

func (m *mockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	if m.findByUsernameOrEmailFn != nil {
		return m.findByUsernameOrEmailFn(ctx, username, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return true, nil
}

func (m *mockUserRepository) ExistingUsernames(ctx context.Context, usernames []string) ([]string, error) {
	m.existingUsernamesCalls = append(m.existingUsernamesCalls, usernames)
	if m.existingUsernamesFn != nil {
		return m.existingUsernamesFn(ctx, usernames)
	}
	return usernames, nil
}

func (m *mockUserRepository) List(ctx context.Context, pattern string, limit, skip int) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, pattern, limit, skip)
	}
	return nil, nil
}

func (m *mockUserRepository) Count(ctx context.Context, pattern string) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, pattern)
	}
	return 0, nil
}

func (m *mockUserRepository) FindOneByUsernamePattern(ctx context.Context, pattern string) (*model.User, error) {
	if m.findOneByUsernamePatternFn != nil {
		return m.findOneByUsernamePatternFn(ctx, pattern)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) Search(ctx context.Context, pattern string, limit int) ([]model.User, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, pattern, limit)
	}
	return nil, nil
}

type mockPostRepository struct {
	createFn              func(ctx context.Context, post *model.Post) error
	insertManyFn          func(ctx context.Context, posts []model.Post) ([]model.Post, error)
	listFn                func(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error)
	countFn               func(ctx context.Context, filter model.PostFilter) (int64, error)
	existsFn              func(ctx context.Context, postID primitive.ObjectID) (bool, error)
	findByAuthorPatternFn func(ctx context.Context, pattern string) ([]model.Post, error)
	searchFn              func(ctx context.Context, pattern string, limit int) ([]model.Post, error)

	createCalls     []*model.Post
	insertManyCalls [][]model.Post
	searchCalls     int
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	m.createCalls = append(m.createCalls, post)
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	post.ID = primitive.NewObjectID()
	return nil
}

func (m *mockPostRepository) InsertMany(ctx context.Context, posts []model.Post) ([]model.Post, error) {
	m.insertManyCalls = append(m.insertManyCalls, posts)
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, posts)
	}
	out := make([]model.Post, len(posts))
	for i, p := range posts {
		p.ID = primitive.NewObjectID()
		out[i] = p
	}
	return out, nil
}

func (m *mockPostRepository) List(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter, limit, skip)
	}
	return nil, nil
}

func (m *mockPostRepository) Count(ctx context.Context, filter model.PostFilter) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, filter)
	}
	return 0, nil
}

func (m *mockPostRepository) Exists(ctx context.Context, postID primitive.ObjectID) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, postID)
	}
	return true, nil
}

func (m *mockPostRepository) FindByAuthorPattern(ctx context.Context, pattern string) ([]model.Post, error) {
	if m.findByAuthorPatternFn != nil {
		return m.findByAuthorPatternFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockPostRepository) Search(ctx context.Context, pattern string, limit int) ([]model.Post, error) {
	m.searchCalls++
	if m.searchFn != nil {
		return m.searchFn(ctx, pattern, limit)
	}
	return nil, nil
}

type mockCommentRepository struct {
	createFn        func(ctx context.Context, comment *model.Comment) error
	listByPostIDsFn func(ctx context.Context, postIDs []primitive.ObjectID) ([]model.Comment, error)

	createCalls        []*model.Comment
	listByPostIDsCalls int
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	m.createCalls = append(m.createCalls, comment)
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	comment.ID = primitive.NewObjectID()
	return nil
}

func (m *mockCommentRepository) ListByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]model.Comment, error) {
	m.listByPostIDsCalls++
	if m.listByPostIDsFn != nil {
		return m.listByPostIDsFn(ctx, postIDs)
	}
	return nil, nil
}

// =============================================================================
// MOCK PUBLISHER
// =============================================================================

type mockPublisher struct {
	err     error
	events  []queue.ActivityEvent
	ctxErrs []error
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.ActivityEvent) (string, error) {
	m.events = append(m.events, event)
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	if m.err != nil {
		return "", m.err
	}
	return "1-0", nil
}
