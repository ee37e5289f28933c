package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jinford/blog-agent/internal/core/images"
)

const defaultTimeout = 60 * time.Second

// Uploader は Supabase Storage 互換のオブジェクトストレージへアップロードします
// フォルダはアップロード時に暗黙に作成されるため、パス作成の前処理は不要です。
type Uploader struct {
	baseURL    string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewUploader は Uploader を作成します
func NewUploader(baseURL, serviceKey, bucket string) (*Uploader, error) {
	if baseURL == "" || serviceKey == "" || bucket == "" {
		return nil, fmt.Errorf("storage base URL, service key, and bucket are required")
	}
	return &Uploader{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// インターフェース実装の確認
var _ images.Uploader = (*Uploader)(nil)

// Upload はオブジェクトをアップロードし、公開 URL を返します
// 同一パスへの再アップロードは上書きになります。
func (u *Uploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload failed with HTTP %d: %s", resp.StatusCode, string(body))
	}

	return u.PublicURL(path), nil
}

// PublicURL はアップロード済みオブジェクトの公開 URL を返します
func (u *Uploader) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, path)
}
