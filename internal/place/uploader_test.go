package place

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/maruizc/arrienda-host/internal/api"
)

func TestUploadBuildsOneMultipartRequest(t *testing.T) {
	type part struct {
		filename    string
		contentType string
		body        string
	}
	var requests int
	var parts []part

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/lugares/7/foto" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		for _, fh := range r.MultipartForm.File["foto[]"] {
			f, err := fh.Open()
			if err != nil {
				t.Fatal(err)
			}
			buf, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				t.Fatal(err)
			}
			parts = append(parts, part{
				filename:    fh.Filename,
				contentType: fh.Header.Get("Content-Type"),
				body:        string(buf),
			})
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	refs := []string{
		tempPhoto(t, "frente.jpg"),
		tempPhoto(t, "patio.png"),
		tempPhoto(t, "croquis"), // no extension
	}

	u := NewUploader(api.NewClient(srv.URL, time.Second, discardLogger()))
	if err := u.Upload(context.Background(), 7, refs); err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if requests != 1 {
		t.Fatalf("all refs must travel in one request, saw %d", requests)
	}
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	want := []part{
		{"frente.jpg", "image/jpeg", "not really a jpeg"},
		{"patio.png", "image/png", "not really a jpeg"},
		{"croquis", "application/octet-stream", "not really a jpeg"},
	}
	for i, w := range want {
		if parts[i] != w {
			t.Errorf("part %d = %+v, want %+v", i, parts[i], w)
		}
	}
}

func TestUploadMissingFileFailsBeforePosting(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	u := NewUploader(api.NewClient(srv.URL, time.Second, discardLogger()))
	if err := u.Upload(context.Background(), 7, []string{"/does/not/exist.jpg"}); err == nil {
		t.Fatal("expected an error for an unreadable reference")
	}
	if requests != 0 {
		t.Errorf("nothing should have been posted, saw %d requests", requests)
	}
}
