package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventUserCreated      = "user_created"
	EventPostCreated      = "post_created"
	EventPostsBulkCreated = "posts_bulk_created"
	EventCommentCreated   = "comment_created"
)

// Stream names
const (
	StreamActivity = "stream:activity"
)

// Consumer group name for activity workers
const (
	ConsumerGroupActivity = "activity_workers"
)

// ActivityEvent is published after a successful mutation. Consumers derive
// statistics from it; nothing on the request path reads it back.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	// UserCreated
	Username string `json:"username,omitempty"`

	// PostCreated, CommentCreated
	Author    string `json:"author,omitempty"`
	PostID    string `json:"post_id,omitempty"`
	CommentID string `json:"comment_id,omitempty"`

	// PostsBulkCreated: author -> posts inserted
	AuthorCounts map[string]int64 `json:"author_counts,omitempty"`
}

func NewUserCreatedEvent(username string) ActivityEvent {
	return ActivityEvent{
		Type:      EventUserCreated,
		Timestamp: time.Now().Unix(),
		Username:  username,
	}
}

func NewPostCreatedEvent(postID, author string) ActivityEvent {
	return ActivityEvent{
		Type:      EventPostCreated,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		Author:    author,
	}
}

// NewPostsBulkCreatedEvent summarises one bulk insert as per-author counts
// instead of one event per post.
func NewPostsBulkCreatedEvent(authorCounts map[string]int64) ActivityEvent {
	return ActivityEvent{
		Type:         EventPostsBulkCreated,
		Timestamp:    time.Now().Unix(),
		AuthorCounts: authorCounts,
	}
}

func NewCommentCreatedEvent(commentID, postID, author string) ActivityEvent {
	return ActivityEvent{
		Type:      EventCommentCreated,
		Timestamp: time.Now().Unix(),
		CommentID: commentID,
		PostID:    postID,
		Author:    author,
	}
}

// ToMap converts the event to a map for Redis XADD.
// The full event is serialized to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
