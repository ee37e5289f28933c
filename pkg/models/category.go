package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Category はブログカテゴリを表します
// Shopify 側では Blog リソースに対応します。ShopifyBlogGID と
// ShopifySyncedAt は Sync Reconciler のみが書き込みます。
type Category struct {
	ID          uuid.UUID
	Slug        string
	Name        string
	Description *string
	SEO         json.RawMessage
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ShopifyBlogGID  *string
	ShopifySyncedAt *time.Time
}

// NewCategory はカテゴリ作成の入力です
type NewCategory struct {
	Slug        string
	Name        string
	Description *string
	SEO         json.RawMessage
}

// Tag はブログタグを表します
type Tag struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	CreatedAt time.Time
}

// NewTag はタグ作成の入力です
type NewTag struct {
	Slug string
	Name string
}

// Author はブログ著者を表します
type Author struct {
	ID   uuid.UUID
	Slug string
	Name string
	Bio  *string
}

// BlogContext は生成前にエージェントへ渡す既存コンテンツの要約です
type BlogContext struct {
	Categories  []*Category `json:"categories"`
	Tags        []*Tag      `json:"tags"`
	Authors     []*Author   `json:"authors"`
	RecentPosts []PostRef   `json:"recent_posts"`
}
