package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"twutter/internal/cache"
	"twutter/internal/queue"
)

// Handler processes activity events from the queue.
type Handler struct {
	leaderboard cache.Leaderboard
}

// NewHandler creates a new event handler.
func NewHandler(leaderboard cache.Leaderboard) *Handler {
	return &Handler{leaderboard: leaderboard}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.ActivityEvent) error {
	startTime := time.Now()
	var err error

	switch event.Type {
	case queue.EventUserCreated:
		err = h.handleUserCreated(ctx, event)
	case queue.EventPostCreated:
		err = h.handlePostCreated(ctx, event)
	case queue.EventPostsBulkCreated:
		err = h.handlePostsBulkCreated(ctx, event)
	case queue.EventCommentCreated:
		err = h.handleCommentCreated(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handleUserCreated puts a new user on the board with a zero score.
func (h *Handler) handleUserCreated(ctx context.Context, event queue.ActivityEvent) error {
	if event.Username == "" {
		return fmt.Errorf("user_created event without username")
	}
	return h.leaderboard.Register(ctx, event.Username)
}

func (h *Handler) handlePostCreated(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] PostCreated: post=%s author=%s", event.PostID, event.Author)

	if event.Author == "" {
		return fmt.Errorf("post_created event without author")
	}
	return h.leaderboard.Incr(ctx, event.Author, 1)
}

func (h *Handler) handlePostsBulkCreated(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] PostsBulkCreated: authors=%d", len(event.AuthorCounts))

	if err := h.leaderboard.IncrMany(ctx, event.AuthorCounts); err != nil {
		return fmt.Errorf("apply bulk counts: %w", err)
	}
	return nil
}

// handleCommentCreated credits the commenter, not the post author.
func (h *Handler) handleCommentCreated(ctx context.Context, event queue.ActivityEvent) error {
	log.Printf("[Worker] CommentCreated: comment=%s post=%s author=%s", event.CommentID, event.PostID, event.Author)

	if event.Author == "" {
		return fmt.Errorf("comment_created event without author")
	}
	return h.leaderboard.Incr(ctx, event.Author, 1)
}
