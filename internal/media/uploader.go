// Package media uploads profile pictures to the external asset host. The
// host is treated as an opaque HTTP service that stores a file and returns
// a public identifier plus a delivery URL.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

// Asset references an uploaded image on the external host.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// Uploader stores an image and returns its asset reference. Handlers
// depend on this interface so tests can stub the external host.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (Asset, error)
}

// HTTPUploader posts images as multipart form data to the asset host's
// upload endpoint. Uploads are not retried: a transient failure surfaces
// to the caller as a generic server error and no artist record is created.
type HTTPUploader struct {
	http      *http.Client
	uploadURL string
	apiKey    string
}

// NewHTTPUploader builds the uploader from environment variables
// MEDIA_UPLOAD_URL and MEDIA_API_KEY.
func NewHTTPUploader() (*HTTPUploader, error) {
	uploadURL := os.Getenv("MEDIA_UPLOAD_URL")
	if uploadURL == "" {
		return nil, fmt.Errorf("media: MEDIA_UPLOAD_URL must be set")
	}
	return &HTTPUploader{
		http:      &http.Client{Timeout: 60 * time.Second},
		uploadURL: uploadURL,
		apiKey:    os.Getenv("MEDIA_API_KEY"),
	}, nil
}

// Upload sends the image bytes and decodes the host's asset reference.
func (u *HTTPUploader) Upload(ctx context.Context, filename string, data []byte) (Asset, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Asset{}, err
	}
	if _, err := fw.Write(data); err != nil {
		return Asset{}, err
	}
	if err := mw.Close(); err != nil {
		return Asset{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &buf)
	if err != nil {
		return Asset{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("media upload: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Asset{}, fmt.Errorf("media upload: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Asset{}, fmt.Errorf("media upload: host returned %d: %s", resp.StatusCode, raw)
	}
	var a Asset
	if err := json.Unmarshal(raw, &a); err != nil {
		return Asset{}, fmt.Errorf("media upload: unexpected response: %w", err)
	}
	if a.PublicID == "" || a.URL == "" {
		return Asset{}, fmt.Errorf("media upload: host returned incomplete asset reference")
	}
	return a, nil
}
