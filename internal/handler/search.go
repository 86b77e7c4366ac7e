package handler

import (
	"context"
	"log"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

type Searcher interface {
	Search(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
}

type SearchHandler struct {
	searchService Searcher
}

func NewSearchHandler(searchService Searcher) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /search?q=&type=&limit=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := model.SearchRequest{
		Query: q.Get("q"),
		Type:  q.Get("type"),
		Limit: httputil.QueryInt(r, "limit", model.DefaultSearchLimit),
	}

	resp, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		log.Printf("[ERROR] Search handler: q=%q type=%q err=%v", req.Query, req.Type, err)
		httputil.WriteInternalError(w, "Failed to search")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
