package media

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPUploaderUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		if hdr.Filename != "pic.jpg" || string(data) != "jpegbytes" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(Asset{PublicID: "assets/pic", URL: "https://cdn.example/pic.jpg"})
	}))
	defer srv.Close()

	t.Setenv("MEDIA_UPLOAD_URL", srv.URL)
	t.Setenv("MEDIA_API_KEY", "key-1")
	u, err := NewHTTPUploader()
	if err != nil {
		t.Fatalf("NewHTTPUploader: %v", err)
	}

	a, err := u.Upload(context.Background(), "pic.jpg", []byte("jpegbytes"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if a.PublicID != "assets/pic" || a.URL != "https://cdn.example/pic.jpg" {
		t.Errorf("asset = %+v", a)
	}
}

func TestHTTPUploaderRejectsIncompleteAsset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Asset{PublicID: "", URL: ""})
	}))
	defer srv.Close()

	t.Setenv("MEDIA_UPLOAD_URL", srv.URL)
	u, err := NewHTTPUploader()
	if err != nil {
		t.Fatalf("NewHTTPUploader: %v", err)
	}
	if _, err := u.Upload(context.Background(), "x.jpg", []byte("x")); err == nil {
		t.Fatal("expected an error for an incomplete asset reference")
	}
}

func TestHTTPUploaderHostError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	t.Setenv("MEDIA_UPLOAD_URL", srv.URL)
	u, err := NewHTTPUploader()
	if err != nil {
		t.Fatalf("NewHTTPUploader: %v", err)
	}
	if _, err := u.Upload(context.Background(), "x.jpg", []byte("x")); err == nil {
		t.Fatal("expected an error for a 500 from the host")
	}
}

func TestNewHTTPUploaderRequiresURL(t *testing.T) {
	t.Setenv("MEDIA_UPLOAD_URL", "")
	if _, err := NewHTTPUploader(); err == nil {
		t.Fatal("expected an error when MEDIA_UPLOAD_URL is unset")
	}
}
