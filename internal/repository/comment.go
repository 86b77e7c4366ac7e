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

type commentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{col: db.Collection(database.CommentsCollection)}
}

// Create inserts a new comment.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}

	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ListByPostIDs fetches every comment on the given posts in one query.
func (r *commentRepository) ListByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]model.Comment, error) {
	if len(postIDs) == 0 {
		return []model.Comment{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"post_id": bson.M{"$in": postIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	defer cur.Close(ctx)

	comments := []model.Comment{}
	if err := cur.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}
