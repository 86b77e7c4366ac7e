package model

import "errors"

// AuthorScore is one leaderboard entry: posts plus comments written.
type AuthorScore struct {
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// TopAuthorsResponse is returned by GET /stats/authors.
type TopAuthorsResponse struct {
	Authors []AuthorScore `json:"authors"`
}

const (
	DefaultTopAuthorsLimit = 10
	MaxTopAuthorsLimit     = 100
)

var ErrStatsDisabled = errors.New("activity stats are not configured")
