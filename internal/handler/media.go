package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"

	"twutter/internal/httputil"
	"twutter/internal/model"
)

type AvatarUploader interface {
	UploadAvatar(ctx context.Context, file io.Reader, header *multipart.FileHeader) (*model.UploadResult, error)
}

type MediaHandler struct {
	mediaService AvatarUploader
}

// NewMediaHandler accepts a nil uploader; uploads then answer 503.
func NewMediaHandler(mediaService AvatarUploader) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// UploadAvatar handles POST /media/avatar (multipart field "file").
// The returned url is meant for the avatar field of POST /users.
func (h *MediaHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if h.mediaService == nil {
		httputil.WriteServiceUnavailable(w, "Avatar upload is not configured")
		return
	}

	// Leave room for multipart framing around the file
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxAvatarSizeBytes+1<<20)
	if err := r.ParseMultipartForm(model.MaxAvatarSizeBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
			return
		}
		httputil.WriteBadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile(model.AvatarFormField)
	if err != nil {
		httputil.WriteBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	res, err := h.mediaService.UploadAvatar(r.Context(), file, header)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrFileTooLarge):
			httputil.WriteBadRequest(w, "Avatar exceeds 5MB limit")
		case errors.Is(err, model.ErrInvalidImageType):
			httputil.WriteBadRequest(w, "Unsupported image type. Allowed: jpeg, png, gif")
		default:
			log.Printf("[ERROR] Upload avatar handler: file=%q err=%v", header.Filename, err)
			httputil.WriteInternalError(w, "Failed to upload avatar")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}
