package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"twutter/internal/model"
	"twutter/internal/queue"
	"twutter/internal/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	userRepo  repository.UserRepository
	publisher queue.Publisher
	chunkSize int
}

func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		userRepo:  userRepo,
		publisher: publisher,
		chunkSize: model.BulkInsertChunkSize,
	}
}

// Create stores a post for an existing author and publishes an activity event.
func (s *PostService) Create(ctx context.Context, req model.CreatePostRequest) (*model.FeedPost, error) {
	if req.Content == "" || req.Author == "" {
		return nil, model.ErrPostFieldsRequired
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, req.Author)
	if err != nil {
		return nil, fmt.Errorf("check author: %w", err)
	}
	if !exists {
		return nil, model.ErrAuthorNotFound
	}

	post := &model.Post{
		Content: req.Content,
		Author:  req.Author,
		Likes:   0,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	publish(ctx, s.publisher, "PostService", queue.NewPostCreatedEvent(post.ID.Hex(), post.Author))

	feedPost := model.NewFeedPost(*post)
	return &feedPost, nil
}

// CreateBulk validates the whole batch before writing anything, then inserts
// it in sequential chunks. A failing chunk aborts the remaining ones; chunks
// already written stay.
func (s *PostService) CreateBulk(ctx context.Context, inputs []model.BulkPostInput) (*model.BulkCreateResponse, error) {
	if len(inputs) == 0 {
		return nil, model.ErrPostsEmpty
	}

	for i, in := range inputs {
		if in.Content == "" || in.Author == "" {
			return nil, &model.BulkPostError{Index: i}
		}
	}

	authors := distinctAuthors(inputs)
	existing, err := s.userRepo.ExistingUsernames(ctx, authors)
	if err != nil {
		return nil, fmt.Errorf("check authors: %w", err)
	}
	if missing := missingUsernames(authors, existing); len(missing) > 0 {
		return nil, &model.MissingAuthorsError{Usernames: missing}
	}

	startTime := time.Now()
	created := make([]model.FeedPost, 0, len(inputs))
	counts := make(map[string]int64, len(authors))

	for start := 0; start < len(inputs); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(inputs) {
			end = len(inputs)
		}

		chunk := make([]model.Post, 0, end-start)
		for _, in := range inputs[start:end] {
			chunk = append(chunk, model.Post{
				Content: in.Content,
				Author:  in.Author,
				Likes:   in.Likes,
			})
		}

		inserted, err := s.postRepo.InsertMany(ctx, chunk)
		if err != nil {
			log.Printf("[PostService] CreateBulk chunk FAILED: offset=%d size=%d inserted_before=%d err=%v",
				start, len(chunk), len(created), err)
			s.publishBulk(ctx, counts)
			return nil, fmt.Errorf("insert posts chunk at %d: %w", start, err)
		}

		for _, p := range inserted {
			created = append(created, model.NewFeedPost(p))
			counts[p.Author]++
		}
	}

	log.Printf("[PostService] CreateBulk OK: count=%d authors=%d duration=%v",
		len(created), len(authors), time.Since(startTime))

	s.publishBulk(ctx, counts)

	return &model.BulkCreateResponse{
		Posts: created,
		Count: len(created),
	}, nil
}

func (s *PostService) publishBulk(ctx context.Context, counts map[string]int64) {
	if len(counts) == 0 {
		return
	}
	publish(ctx, s.publisher, "PostService", queue.NewPostsBulkCreatedEvent(counts))
}

// distinctAuthors keeps the first-seen order of authors in the batch.
func distinctAuthors(inputs []model.BulkPostInput) []string {
	seen := make(map[string]struct{}, len(inputs))
	authors := make([]string, 0)
	for _, in := range inputs {
		if _, ok := seen[in.Author]; ok {
			continue
		}
		seen[in.Author] = struct{}{}
		authors = append(authors, in.Author)
	}
	return authors
}

func missingUsernames(wanted, existing []string) []string {
	found := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		found[u] = struct{}{}
	}

	var missing []string
	for _, u := range wanted {
		if _, ok := found[u]; !ok {
			missing = append(missing, u)
		}
	}
	return missing
}

// publish sends an activity event. Failures are logged only: the write
// already succeeded and the stream feeds derived data. The event outlives
// the request, so a client disconnect does not cancel it.
func publish(ctx context.Context, publisher queue.Publisher, component string, event queue.ActivityEvent) {
	msgID, err := publisher.Publish(context.WithoutCancel(ctx), queue.StreamActivity, event)
	if err != nil {
		log.Printf("[%s] Failed to publish %s event: err=%v", component, event.Type, err)
		return
	}
	if msgID != "" {
		log.Printf("[%s] Published %s: msgID=%s", component, event.Type, msgID)
	}
}
