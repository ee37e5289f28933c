package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PostStatus はブログ記事の公開状態を表します
type PostStatus string

const (
	// PostStatusDraft はレビュー前の下書き
	PostStatusDraft PostStatus = "draft"
	// PostStatusPublished は公開済みの記事
	PostStatusPublished PostStatus = "published"
	// PostStatusArchived は非公開アーカイブ
	PostStatusArchived PostStatus = "archived"
)

// ValidPostStatus は status 文字列が既知の値かどうかを返します
func ValidPostStatus(s string) bool {
	switch PostStatus(s) {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// ContentBlock は記事本文を構成する型付きブロックです
// Data の中身はレンダリング側の契約であり、本コアは内容に関与しません。
type ContentBlock struct {
	ID   string         `json:"id"`
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Post はブログ記事を表します
// Shopify* の3カラムは Sync Reconciler のみが書き込みます。
type Post struct {
	ID               uuid.UUID
	Slug             string
	Title            string
	Excerpt          string
	Content          []ContentBlock
	AuthorID         uuid.UUID
	CategoryID       *uuid.UUID
	FeaturedImage    *string
	FeaturedImageAlt *string
	ReadingTime      *int
	Featured         bool
	SEO              json.RawMessage
	Status           PostStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time

	ShopifyArticleID *string
	ShopifySyncedAt  *time.Time
	ShopifySyncError *string
}

// NewPost は記事作成の入力です
type NewPost struct {
	Slug             string
	Title            string
	Excerpt          string
	Content          []ContentBlock
	AuthorID         uuid.UUID
	CategoryID       *uuid.UUID
	FeaturedImage    *string
	FeaturedImageAlt *string
	ReadingTime      *int
	Featured         bool
	SEO              json.RawMessage
	Status           PostStatus
}

// EstimateReadingTime は本文ブロックから読了時間（分）を概算します
// 目安は200語/分。1分未満は1分に切り上げます。
func EstimateReadingTime(blocks []ContentBlock) int {
	raw, err := json.Marshal(blocks)
	if err != nil {
		return 1
	}
	words := len(strings.Fields(string(raw)))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// PostRef は重複チェック用の記事参照です
type PostRef struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}
