package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jinford/blog-agent/internal/core/shopsync"
)

const defaultTimeout = 30 * time.Second

// Client は Shopify Admin REST API のクライアントです
// カテゴリは Blog リソース、記事は Article リソースに対応します。
type Client struct {
	storeDomain string
	accessToken string
	apiVersion  string
	httpClient  *http.Client
}

// NewClient は Client を作成します
func NewClient(storeDomain, accessToken, apiVersion string) (*Client, error) {
	if storeDomain == "" || accessToken == "" {
		return nil, fmt.Errorf("shopify store domain and access token are required")
	}
	return &Client{
		storeDomain: storeDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}, nil
}

// インターフェース実装の確認
var _ shopsync.RemoteCMS = (*Client)(nil)

type blogPayload struct {
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title"`
	Handle string `json:"handle,omitempty"`
}

type articleImagePayload struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

type articlePayload struct {
	ID          int64                `json:"id,omitempty"`
	Title       string               `json:"title"`
	Handle      string               `json:"handle,omitempty"`
	Author      string               `json:"author,omitempty"`
	BodyHTML    string               `json:"body_html"`
	SummaryHTML string               `json:"summary_html,omitempty"`
	Tags        string               `json:"tags,omitempty"`
	Published   bool                 `json:"published"`
	Image       *articleImagePayload `json:"image,omitempty"`
}

// CreateBlog は Blog を作成し、その id を返します
func (c *Client) CreateBlog(ctx context.Context, input shopsync.BlogInput) (string, error) {
	body := map[string]blogPayload{"blog": {Title: input.Title, Handle: input.Handle}}

	var resp struct {
		Blog struct {
			ID int64 `json:"id"`
		} `json:"blog"`
	}
	if err := c.do(ctx, http.MethodPost, "blogs.json", body, &resp); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.Blog.ID), nil
}

// UpdateBlog は既存の Blog を更新します
func (c *Client) UpdateBlog(ctx context.Context, id string, input shopsync.BlogInput) (string, error) {
	body := map[string]blogPayload{"blog": {Title: input.Title, Handle: input.Handle}}

	var resp struct {
		Blog struct {
			ID int64 `json:"id"`
		} `json:"blog"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("blogs/%s.json", id), body, &resp); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.Blog.ID), nil
}

// CreateArticle は Blog 配下に Article を作成し、その id を返します
func (c *Client) CreateArticle(ctx context.Context, input shopsync.ArticleInput) (string, error) {
	body := map[string]articlePayload{"article": toArticlePayload(input)}

	var resp struct {
		Article struct {
			ID int64 `json:"id"`
		} `json:"article"`
	}
	path := fmt.Sprintf("blogs/%s/articles.json", input.BlogID)
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.Article.ID), nil
}

// UpdateArticle は既存の Article を更新します
func (c *Client) UpdateArticle(ctx context.Context, id string, input shopsync.ArticleInput) (string, error) {
	body := map[string]articlePayload{"article": toArticlePayload(input)}

	var resp struct {
		Article struct {
			ID int64 `json:"id"`
		} `json:"article"`
	}
	path := fmt.Sprintf("blogs/%s/articles/%s.json", input.BlogID, id)
	if err := c.do(ctx, http.MethodPut, path, body, &resp); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", resp.Article.ID), nil
}

func toArticlePayload(input shopsync.ArticleInput) articlePayload {
	payload := articlePayload{
		Title:       input.Title,
		Handle:      input.Handle,
		Author:      input.Author,
		BodyHTML:    input.BodyHTML,
		SummaryHTML: input.Summary,
		Tags:        strings.Join(input.Tags, ", "),
		Published:   input.Published,
	}
	if input.ImageSrc != "" {
		payload.Image = &articleImagePayload{Src: input.ImageSrc, Alt: input.ImageAlt}
	}
	return payload
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("https://%s/admin/api/%s/%s", c.storeDomain, c.apiVersion, path)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &shopsync.RemoteError{Kind: shopsync.ErrKindNetwork, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &shopsync.RemoteError{Kind: shopsync.ErrKindNetwork, Err: err}
	}

	if resp.StatusCode >= 400 {
		return classifyStatus(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// classifyStatus は HTTP ステータスをエラー分類に対応付けます
func classifyStatus(status int, body []byte) error {
	message := extractErrorMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &shopsync.RemoteError{Kind: shopsync.ErrKindAuth, Message: message}
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return &shopsync.RemoteError{Kind: shopsync.ErrKindValidation, Message: message}
	case status == http.StatusTooManyRequests:
		return &shopsync.RemoteError{Kind: shopsync.ErrKindRateLimit, Message: message}
	default:
		return &shopsync.RemoteError{Kind: shopsync.ErrKindNetwork, Message: fmt.Sprintf("HTTP %d: %s", status, message)}
	}
}

// extractErrorMessage は Shopify のエラーレスポンスから本文を取り出します
// {"errors": "..."} と {"errors": {"field": ["..."]}} の両形式に対応します。
func extractErrorMessage(body []byte) string {
	var withErrors struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &withErrors); err != nil || len(withErrors.Errors) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(withErrors.Errors, &s); err == nil {
		return s
	}

	var fields map[string][]string
	if err := json.Unmarshal(withErrors.Errors, &fields); err == nil {
		var parts []string
		for field, messages := range fields {
			for _, m := range messages {
				parts = append(parts, field+" "+m)
			}
		}
		return strings.Join(parts, "; ")
	}
	return string(withErrors.Errors)
}
