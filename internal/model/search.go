package model

// Search result types
const (
	SearchTypePosts = "posts"
	SearchTypeUsers = "users"
	SearchTypeAll   = "all"
)

const (
	DefaultSearchLimit = 10

	// HandlePrefix marks a query as an exact username lookup.
	HandlePrefix = "@"

	NoSearchQueryMessage = "No search query provided"
)

// SearchPost is a post hit, tagged with its result type.
type SearchPost struct {
	Post
	Type string `json:"type"`
}

// SearchUser is a user hit, tagged with its result type.
type SearchUser struct {
	User
	Type string `json:"type"`
}

// SearchRequest holds parsed /search query parameters.
type SearchRequest struct {
	Query string
	Type  string
	Limit int
}

// SearchResponse is returned by GET /search. User is only set for @handle
// lookups that matched.
type SearchResponse struct {
	Posts   []SearchPost `json:"posts"`
	Users   []SearchUser `json:"users"`
	User    *User        `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

// NewSearchResponse returns a response with empty, non-nil result lists.
func NewSearchResponse() *SearchResponse {
	return &SearchResponse{
		Posts: []SearchPost{},
		Users: []SearchUser{},
	}
}
