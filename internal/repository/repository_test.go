package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twutter/internal/database"
	"twutter/internal/model"
	"twutter/internal/repository"
)

// =============================================================================
// Test Helpers
// =============================================================================

// setupTestMongo connects to TEST_MONGO_URI (default localhost) and returns a
// throwaway database. Tests are skipped when MongoDB is not reachable.
func setupTestMongo(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("MongoDB not available, skipping test: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("MongoDB not available, skipping test: %v", err)
	}

	db := client.Database(fmt.Sprintf("twutter_test_%d", time.Now().UnixNano()))
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	return db
}

func createUser(t *testing.T, repo repository.UserRepository, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return u
}

// =============================================================================
// User Repository
// =============================================================================

func TestUserRepository_CreateAndLookup(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "alice")
	if alice.ID.IsZero() {
		t.Fatal("expected generated id")
	}
	if alice.Followers == nil || alice.Following == nil {
		t.Error("follower lists should default to empty")
	}

	found, err := repo.FindByUsernameOrEmail(ctx, "nobody", "alice@example.com")
	if err != nil {
		t.Fatalf("FindByUsernameOrEmail: %v", err)
	}
	if found.Username != "alice" {
		t.Errorf("username = %q, want alice", found.Username)
	}

	_, err = repo.FindByUsernameOrEmail(ctx, "nobody", "nobody@example.com")
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}

	exists, err := repo.ExistsByUsername(ctx, "alice")
	if err != nil || !exists {
		t.Errorf("ExistsByUsername(alice) = %v, %v", exists, err)
	}
}

func TestUserRepository_DuplicateKeyIsConflict(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewUserRepository(db)

	createUser(t, repo, "alice")

	dup := &model.User{Username: "alice", Email: "other@example.com", DisplayName: "Other"}
	err := repo.Create(context.Background(), dup)
	if !errors.Is(err, model.ErrUserExists) {
		t.Errorf("error = %v, want ErrUserExists", err)
	}
}

func TestUserRepository_ExistingUsernames(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewUserRepository(db)

	createUser(t, repo, "alice")
	createUser(t, repo, "bob")

	found, err := repo.ExistingUsernames(context.Background(), []string{"alice", "bob", "ghost"})
	if err != nil {
		t.Fatalf("ExistingUsernames: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("found %v, want alice and bob", found)
	}
}

func TestUserRepository_ListAndSearch(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	createUser(t, repo, "alice")
	time.Sleep(2 * time.Millisecond)
	createUser(t, repo, "alicia")
	time.Sleep(2 * time.Millisecond)
	createUser(t, repo, "bob")

	users, err := repo.List(ctx, "ALI", 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 2 || users[0].Username != "alicia" {
		t.Errorf("List(ALI) = %v, want [alicia alice]", usernames(users))
	}

	total, err := repo.Count(ctx, "")
	if err != nil || total != 3 {
		t.Errorf("Count() = %d, %v, want 3", total, err)
	}

	hit, err := repo.FindOneByUsernamePattern(ctx, "^BOB$")
	if err != nil || hit.Username != "bob" {
		t.Errorf("FindOneByUsernamePattern(^BOB$) = %v, %v", hit, err)
	}

	results, err := repo.Search(ctx, "bo", 10)
	if err != nil || len(results) != 1 {
		t.Errorf("Search(bo) = %v, %v", usernames(results), err)
	}
}

// =============================================================================
// Post and Comment Repositories
// =============================================================================

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		p := &model.Post{
			Content:   fmt.Sprintf("post %d", i),
			Author:    "alice",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}
	if err := repo.Create(ctx, &model.Post{Content: "other", Author: "bob", CreatedAt: base}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	page, err := repo.List(ctx, model.PostFilter{Author: "alice"}, 2, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 2 || page[0].Content != "post 3" || page[1].Content != "post 2" {
		t.Errorf("page = %+v, want post 3, post 2", page)
	}

	total, err := repo.Count(ctx, model.PostFilter{Author: "alice"})
	if err != nil || total != 5 {
		t.Errorf("Count(alice) = %d, %v, want 5", total, err)
	}

	all, err := repo.Count(ctx, model.PostFilter{})
	if err != nil || all != 6 {
		t.Errorf("Count() = %d, %v, want 6", all, err)
	}
}

func TestPostRepository_InsertMany(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	batch := []model.Post{
		{Content: "one", Author: "alice"},
		{Content: "two", Author: "bob", Likes: 4},
	}
	inserted, err := repo.InsertMany(ctx, batch)
	if err != nil {
		t.Fatalf("InsertMany: %v", err)
	}
	if len(inserted) != 2 || inserted[0].ID.IsZero() || inserted[1].Likes != 4 {
		t.Errorf("inserted = %+v", inserted)
	}

	exists, err := repo.Exists(ctx, inserted[1].ID)
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v", exists, err)
	}
	exists, err = repo.Exists(ctx, primitive.NewObjectID())
	if err != nil || exists {
		t.Errorf("Exists(random) = %v, %v", exists, err)
	}
}

func TestCommentRepository_ListByPostIDs(t *testing.T) {
	db := setupTestMongo(t)
	repo := repository.NewCommentRepository(db)
	ctx := context.Background()

	postA := primitive.NewObjectID()
	postB := primitive.NewObjectID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, pid := range []primitive.ObjectID{postA, postA, postB} {
		c := &model.Comment{
			Content:   fmt.Sprintf("c%d", i),
			Author:    "alice",
			PostID:    pid,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Create(ctx, c); err != nil {
			t.Fatalf("create comment: %v", err)
		}
	}

	comments, err := repo.ListByPostIDs(ctx, []primitive.ObjectID{postA})
	if err != nil {
		t.Fatalf("ListByPostIDs: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "c1" {
		t.Errorf("comments = %+v, want [c1 c0]", comments)
	}
}

func usernames(users []model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}
