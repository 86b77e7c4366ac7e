package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

type TopAuthorsReader interface {
	TopAuthors(ctx context.Context, limit int) (*model.TopAuthorsResponse, error)
}

type StatsHandler struct {
	statsService TopAuthorsReader
}

func NewStatsHandler(statsService TopAuthorsReader) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// TopAuthors handles GET /stats/authors?limit=
func (h *StatsHandler) TopAuthors(w http.ResponseWriter, r *http.Request) {
	limit := httputil.QueryInt(r, "limit", model.DefaultTopAuthorsLimit)

	resp, err := h.statsService.TopAuthors(r.Context(), limit)
	if err != nil {
		if errors.Is(err, model.ErrStatsDisabled) {
			httputil.WriteServiceUnavailable(w, "Activity stats are not configured")
			return
		}
		log.Printf("[ERROR] Top authors handler: limit=%d err=%v", limit, err)
		httputil.WriteInternalError(w, "Failed to fetch author stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
