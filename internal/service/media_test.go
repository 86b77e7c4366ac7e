package service

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"twutter/internal/model"
)

type mockObjectStore struct {
	err  error
	puts []putCall
}

type putCall struct {
	Key          string
	Body         []byte
	ContentType  string
	CacheControl string
}

func (m *mockObjectStore) PutObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	m.puts = append(m.puts, putCall{Key: key, Body: body, ContentType: contentType, CacheControl: cacheControl})
	return m.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestMediaService_UploadAvatar(t *testing.T) {
	store := &mockObjectStore{}
	svc := NewMediaService(store, "https://cdn.example.com/")

	data := pngBytes(t, 640, 480)
	header := &multipart.FileHeader{Filename: "me.png", Size: int64(len(data))}

	result, err := svc.UploadAvatar(context.Background(), bytes.NewReader(data), header)
	if err != nil {
		t.Fatalf("UploadAvatar: %v", err)
	}

	if !strings.HasPrefix(result.Key, model.AvatarFolder+"/") || !strings.HasSuffix(result.Key, model.AvatarExt) {
		t.Errorf("key = %q", result.Key)
	}
	if result.URL != "https://cdn.example.com/"+result.Key {
		t.Errorf("url = %q", result.URL)
	}

	if len(store.puts) != 1 {
		t.Fatalf("PutObject called %d times, want 1", len(store.puts))
	}
	put := store.puts[0]
	if put.ContentType != model.ContentTypeJPEG || put.CacheControl != model.AvatarCacheControl {
		t.Errorf("metadata = %q / %q", put.ContentType, put.CacheControl)
	}

	img, err := imaging.Decode(bytes.NewReader(put.Body))
	if err != nil {
		t.Fatalf("stored body is not an image: %v", err)
	}
	if b := img.Bounds(); b.Dx() != model.AvatarWidth || b.Dy() != model.AvatarHeight {
		t.Errorf("stored size = %dx%d, want %dx%d", b.Dx(), b.Dy(), model.AvatarWidth, model.AvatarHeight)
	}
}

func TestMediaService_UploadAvatar_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		size    int64
		wantErr error
	}{
		{"declared too large", []byte("x"), model.MaxAvatarSizeBytes + 1, model.ErrFileTooLarge},
		{"actually too large", bytes.Repeat([]byte{0}, model.MaxAvatarSizeBytes+1), 10, model.ErrFileTooLarge},
		{"not an image", []byte("plain text, definitely not a picture"), 36, model.ErrInvalidImageType},
		{"empty", nil, 0, model.ErrInvalidImageType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockObjectStore{}
			svc := NewMediaService(store, "https://cdn.example.com")

			_, err := svc.UploadAvatar(context.Background(), bytes.NewReader(tt.data), &multipart.FileHeader{Size: tt.size})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if len(store.puts) != 0 {
				t.Error("nothing should be uploaded")
			}
		})
	}
}

func TestMediaService_UploadAvatar_StoreError(t *testing.T) {
	store := &mockObjectStore{err: errors.New("bucket unavailable")}
	svc := NewMediaService(store, "https://cdn.example.com")

	data := pngBytes(t, 10, 10)
	_, err := svc.UploadAvatar(context.Background(), bytes.NewReader(data), &multipart.FileHeader{Size: int64(len(data))})
	if err == nil {
		t.Fatal("expected error")
	}
}
