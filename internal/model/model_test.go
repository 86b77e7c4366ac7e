package model

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name    string
		total   int64
		limit   int
		skip    int
		hasMore bool
	}{
		{"first page with more", 25, 10, 0, true},
		{"exact end", 20, 10, 10, false},
		{"past end", 5, 10, 10, false},
		{"empty collection", 0, 100, 0, false},
		{"one remaining", 21, 10, 10, true},
		{"huge skip past end", 5, 100, math.MaxInt - 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.limit, tt.skip)
			if p.HasMore != tt.hasMore {
				t.Errorf("HasMore = %v, want %v", p.HasMore, tt.hasMore)
			}
			if p.Total != tt.total || p.Limit != tt.limit || p.Skip != tt.skip {
				t.Errorf("pagination fields not echoed: %+v", p)
			}
		})
	}
}

func TestMissingAuthorsError(t *testing.T) {
	err := &MissingAuthorsError{Usernames: []string{"ghost", "nobody"}}

	if !errors.Is(err, ErrAuthorNotFound) {
		t.Error("MissingAuthorsError should unwrap to ErrAuthorNotFound")
	}
	if got := err.Error(); got != "Authors do not exist: ghost, nobody" {
		t.Errorf("Error() = %q", got)
	}
}

func TestBulkPostError(t *testing.T) {
	err := &BulkPostError{Index: 3}

	if !errors.Is(err, ErrInvalidBulkPost) {
		t.Error("BulkPostError should unwrap to ErrInvalidBulkPost")
	}
	if !strings.Contains(err.Error(), "index 3") {
		t.Errorf("Error() = %q, want index in message", err.Error())
	}
}

func TestFeedPost_EncodesEmptyComments(t *testing.T) {
	fp := NewFeedPost(Post{Content: "hello", Author: "alice"})

	data, err := json.Marshal(fp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"comments":[]`) {
		t.Errorf("expected empty comments array, got %s", data)
	}
	if !strings.Contains(string(data), `"author":"alice"`) {
		t.Errorf("expected embedded post fields, got %s", data)
	}
}

func TestUser_FillDefaults(t *testing.T) {
	u := User{Username: "alice"}
	u.FillDefaults()

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"followers":[]`) || !strings.Contains(string(data), `"following":[]`) {
		t.Errorf("expected empty follower lists, got %s", data)
	}
}

func TestIsAllowedImageType(t *testing.T) {
	if !IsAllowedImageType(ContentTypePNG) {
		t.Error("png should be allowed")
	}
	if IsAllowedImageType("application/pdf") {
		t.Error("pdf should not be allowed")
	}
}
