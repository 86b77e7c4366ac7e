package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

type UserManager interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	List(ctx context.Context, username string, limit, skip int) (*model.UserListResponse, error)
}

type UserHandler struct {
	userService UserManager
}

func NewUserHandler(userService UserManager) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /users?username=&limit=&skip=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	limit := httputil.QueryInt(r, "limit", model.DefaultUserListLimit)
	skip := httputil.QueryInt(r, "skip", 0)

	resp, err := h.userService.List(r.Context(), username, limit, skip)
	if err != nil {
		log.Printf("[ERROR] List users handler: username=%q err=%v", username, err)
		httputil.WriteInternalError(w, "Failed to fetch users")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserFieldsRequired):
			httputil.WriteBadRequest(w, "Missing required fields")
		case errors.Is(err, model.ErrUserExists):
			httputil.WriteConflict(w, "Username or email already exists")
		default:
			log.Printf("[ERROR] Create user handler: username=%q err=%v", req.Username, err)
			httputil.WriteInternalError(w, "Failed to create user")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, user)
}
