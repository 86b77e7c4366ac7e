package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"twutter/internal/database"
	"twutter/internal/model"
)

type postRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) PostRepository {
	return &postRepository{col: db.Collection(database.PostsCollection)}
}

// newestFirst is the only ordering the feed uses; ties fall back to natural order.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// Create inserts a single post.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}

	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// InsertMany inserts a chunk of posts with one ordered insertMany. IDs are
// assigned client-side so the returned slice matches what was stored.
func (r *postRepository) InsertMany(ctx context.Context, posts []model.Post) ([]model.Post, error) {
	if len(posts) == 0 {
		return []model.Post{}, nil
	}

	inserted := make([]model.Post, len(posts))
	docs := make([]interface{}, len(posts))
	for i, p := range posts {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now()
		}
		inserted[i] = p
		docs[i] = p
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert posts: %w", err)
	}

	return inserted, nil
}

// List returns one offset page of posts, newest first.
func (r *postRepository) List(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error) {
	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	return r.find(ctx, postFilter(filter), opts)
}

// Count counts posts matching the filter, ignoring pagination.
func (r *postRepository) Count(ctx context.Context, filter model.PostFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, postFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Exists checks if a post with the given id is stored.
func (r *postRepository) Exists(ctx context.Context, postID primitive.ObjectID) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check post exists: %w", err)
	}
	return n > 0, nil
}

func (r *postRepository) FindByAuthorPattern(ctx context.Context, pattern string) ([]model.Post, error) {
	opts := options.Find().SetSort(newestFirst)
	return r.find(ctx, bson.M{"author": regex(pattern)}, opts)
}

func (r *postRepository) Search(ctx context.Context, pattern string, limit int) ([]model.Post, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"content": regex(pattern)},
		bson.M{"author": regex(pattern)},
	}}
	opts := options.Find().
		SetSort(newestFirst).
		SetLimit(int64(limit))

	return r.find(ctx, filter, opts)
}

func (r *postRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Post, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := []model.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func postFilter(f model.PostFilter) bson.M {
	if f.Author == "" {
		return bson.M{}
	}
	return bson.M{"author": f.Author}
}
