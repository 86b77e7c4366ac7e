package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Followers and Following are part of the
// stored shape but nothing in the API mutates them.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username    string             `bson:"username" json:"username"`
	Email       string             `bson:"email" json:"email"`
	DisplayName string             `bson:"displayName" json:"displayName"`
	Bio         string             `bson:"bio" json:"bio"`
	Avatar      string             `bson:"avatar" json:"avatar"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	Followers   []string           `bson:"followers" json:"followers"`
	Following   []string           `bson:"following" json:"following"`
}

// FillDefaults replaces nil follower lists so they encode as [] instead of null.
func (u *User) FillDefaults() {
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
}

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
}

// UserListResponse is the paginated user list response.
type UserListResponse struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}

// DefaultUserListLimit is the page size for GET /users when limit is omitted.
const DefaultUserListLimit = 10

var (
	// ErrUserFieldsRequired is returned when username, email or displayName is missing
	ErrUserFieldsRequired = errors.New("missing required fields")

	// ErrUserExists is returned when the username or email is already taken
	ErrUserExists = errors.New("username or email already exists")

	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")
)
