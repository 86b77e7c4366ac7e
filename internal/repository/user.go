package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twutter/internal/database"
	"twutter/internal/model"
)

// userRepository implements UserRepository on the users collection
type userRepository struct {
	col *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{col: db.Collection(database.UsersCollection)}
}

// Create inserts a new user. A unique index violation is reported as
// ErrUserExists so a lost check-then-insert race looks like a normal conflict.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now()
	}
	u.FillDefaults()

	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *userRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}

	var u model.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username or email: %w", err)
	}

	u.FillDefaults()
	return &u, nil
}

// ExistsByUsername checks if a username has a user record
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return n > 0, nil
}

func (r *userRepository) ExistingUsernames(ctx context.Context, usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return []string{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1})
	cur, err := r.col.Find(ctx, bson.M{"username": bson.M{"$in": usernames}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find existing usernames: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Username string `bson:"username"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode usernames: %w", err)
	}

	found := make([]string, len(rows))
	for i, row := range rows {
		found[i] = row.Username
	}
	return found, nil
}

func (r *userRepository) List(ctx context.Context, usernamePattern string, limit, skip int) ([]model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return r.find(ctx, usernameFilter(usernamePattern), opts)
}

func (r *userRepository) Count(ctx context.Context, usernamePattern string) (int64, error) {
	n, err := r.col.CountDocuments(ctx, usernameFilter(usernamePattern))
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *userRepository) FindOneByUsernamePattern(ctx context.Context, pattern string) (*model.User, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var u model.User
	err := r.col.FindOne(ctx, bson.M{"username": regex(pattern)}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}

	u.FillDefaults()
	return &u, nil
}

func (r *userRepository) Search(ctx context.Context, pattern string, limit int) ([]model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": regex(pattern)},
		bson.M{"displayName": regex(pattern)},
		bson.M{"bio": regex(pattern)},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

func (r *userRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.User, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cur.Close(ctx)

	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for i := range users {
		users[i].FillDefaults()
	}
	return users, nil
}

func usernameFilter(pattern string) bson.M {
	if pattern == "" {
		return bson.M{}
	}
	return bson.M{"username": regex(pattern)}
}

// regex builds a case-insensitive match; the pattern is not escaped.
func regex(pattern string) primitive.Regex {
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

// now is truncated to the millisecond precision BSON dates store, so a
// freshly inserted document compares equal to its stored copy.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
