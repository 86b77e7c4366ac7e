package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

const defaultRequestTimeout = 60 * time.Second

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// AlreadyExists reports a username/email conflict from POST /users.
func (e *APIError) AlreadyExists() bool {
	return strings.Contains(e.Message, "already exists")
}

// Client talks to the feed API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/users", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) CreatePost(ctx context.Context, req model.CreatePostRequest) (*model.FeedPost, error) {
	var post model.FeedPost
	if err := c.do(ctx, http.MethodPost, "/posts", req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePostsBulk(ctx context.Context, posts []model.BulkPostInput) (*model.BulkCreateResponse, error) {
	body := struct {
		Posts []model.BulkPostInput `json:"posts"`
	}{Posts: posts}

	var resp model.BulkCreateResponse
	if err := c.do(ctx, http.MethodPost, "/posts/bulk", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListPosts(ctx context.Context, limit int) (*model.PostListResponse, error) {
	var resp model.PostListResponse
	if err := c.do(ctx, http.MethodGet, "/posts?limit="+strconv.Itoa(limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr httputil.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error, Code: apiErr.Code}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
