package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"twutter/internal/model"
)

func TestFeedService_ListPosts_GroupsComments(t *testing.T) {
	now := time.Now()
	p1 := model.Post{ID: primitive.NewObjectID(), Content: "newest", Author: "alice", CreatedAt: now}
	p2 := model.Post{ID: primitive.NewObjectID(), Content: "older", Author: "bob", CreatedAt: now.Add(-time.Minute)}

	c1 := model.Comment{ID: primitive.NewObjectID(), PostID: p1.ID, Content: "second", CreatedAt: now.Add(2 * time.Second)}
	c2 := model.Comment{ID: primitive.NewObjectID(), PostID: p1.ID, Content: "first", CreatedAt: now.Add(time.Second)}
	stray := model.Comment{ID: primitive.NewObjectID(), PostID: primitive.NewObjectID(), Content: "other page"}

	var gotLimit, gotSkip int
	postRepo := &mockPostRepository{
		listFn: func(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error) {
			gotLimit, gotSkip = limit, skip
			return []model.Post{p1, p2}, nil
		},
		countFn: func(ctx context.Context, filter model.PostFilter) (int64, error) {
			return 5, nil
		},
	}
	commentRepo := &mockCommentRepository{
		listByPostIDsFn: func(ctx context.Context, ids []primitive.ObjectID) ([]model.Comment, error) {
			if len(ids) != 2 || ids[0] != p1.ID || ids[1] != p2.ID {
				t.Errorf("comment lookup ids = %v", ids)
			}
			return []model.Comment{c1, c2, stray}, nil
		},
	}
	svc := NewFeedService(postRepo, commentRepo)

	resp, err := svc.ListPosts(context.Background(), model.PostFilter{}, 2, 1)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}

	if gotLimit != 2 || gotSkip != 1 {
		t.Errorf("repo called with limit=%d skip=%d", gotLimit, gotSkip)
	}
	if len(resp.Posts) != 2 || resp.Posts[0].Content != "newest" {
		t.Fatalf("unexpected posts: %+v", resp.Posts)
	}
	if got := resp.Posts[0].Comments; len(got) != 2 || got[0].Content != "second" || got[1].Content != "first" {
		t.Errorf("comments on newest = %+v, want [second first]", got)
	}
	if resp.Posts[1].Comments == nil || len(resp.Posts[1].Comments) != 0 {
		t.Errorf("post without comments should have [], got %v", resp.Posts[1].Comments)
	}

	want := model.Pagination{Total: 5, Limit: 2, Skip: 1, HasMore: true}
	if resp.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", resp.Pagination, want)
	}
}

func TestFeedService_ListPosts_Defaults(t *testing.T) {
	var gotLimit, gotSkip int
	var gotFilter model.PostFilter
	postRepo := &mockPostRepository{
		listFn: func(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error) {
			gotFilter, gotLimit, gotSkip = filter, limit, skip
			return nil, nil
		},
	}
	commentRepo := &mockCommentRepository{}
	svc := NewFeedService(postRepo, commentRepo)

	resp, err := svc.ListPosts(context.Background(), model.PostFilter{Author: "alice"}, 0, -3)
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}

	if gotLimit != model.DefaultPostListLimit || gotSkip != 0 {
		t.Errorf("defaults not applied: limit=%d skip=%d", gotLimit, gotSkip)
	}
	if gotFilter.Author != "alice" {
		t.Errorf("filter = %+v", gotFilter)
	}
	if resp.Posts == nil {
		t.Error("posts should be an empty slice, not nil")
	}
	if commentRepo.listByPostIDsCalls != 0 {
		t.Error("comment lookup should be skipped for an empty page")
	}
}

func TestFeedService_ListPosts_StorageError(t *testing.T) {
	postRepo := &mockPostRepository{
		listFn: func(ctx context.Context, filter model.PostFilter, limit, skip int) ([]model.Post, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewFeedService(postRepo, &mockCommentRepository{})

	if _, err := svc.ListPosts(context.Background(), model.PostFilter{}, 10, 0); err == nil {
		t.Fatal("expected error")
	}
}
