package service

import (
	"context"
	"fmt"

	"twutter/internal/cache"
	"twutter/internal/model"
)

// StatsService reads the author activity leaderboard maintained by workers.
type StatsService struct {
	leaderboard cache.Leaderboard
}

// NewStatsService accepts a nil leaderboard; every call then reports ErrStatsDisabled.
func NewStatsService(leaderboard cache.Leaderboard) *StatsService {
	return &StatsService{leaderboard: leaderboard}
}

func (s *StatsService) TopAuthors(ctx context.Context, limit int) (*model.TopAuthorsResponse, error) {
	if s.leaderboard == nil {
		return nil, model.ErrStatsDisabled
	}

	if limit <= 0 {
		limit = model.DefaultTopAuthorsLimit
	}
	if limit > model.MaxTopAuthorsLimit {
		limit = model.MaxTopAuthorsLimit
	}

	authors, err := s.leaderboard.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	if authors == nil {
		authors = []model.AuthorScore{}
	}

	return &model.TopAuthorsResponse{Authors: authors}, nil
}
