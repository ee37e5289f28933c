// Package agenttools はエージェントに公開するツール群を組み立てます。
// 各ツールは構造化された成功・エラー結果を返し、決して panic しません。
package agenttools

import (
	"context"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/pkg/models"
)

// ContextReader は既存コンテンツの参照系です。
type ContextReader interface {
	BlogContext(ctx context.Context) (*models.BlogContext, error)
	SamplePost(ctx context.Context) (*models.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// PostWriter は記事の作成・更新系です。
type PostWriter interface {
	CreatePost(ctx context.Context, input models.NewPost) (*models.Post, error)
	LinkTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error
	UpdatePostStatus(ctx context.Context, postID uuid.UUID, status models.PostStatus) error
	SetPostImage(ctx context.Context, postID uuid.UUID, imageURL, altText string) error
}

// TaxonomyWriter はカテゴリ・タグの作成系です。
type TaxonomyWriter interface {
	CreateCategory(ctx context.Context, input models.NewCategory) (*models.Category, error)
	CreateTag(ctx context.Context, input models.NewTag) (*models.Tag, error)
}

// IdeaQueue はアイデアキューの claim と終端記録です。
type IdeaQueue interface {
	ClaimNext(ctx context.Context) (*models.Idea, error)
	Complete(ctx context.Context, ideaID, postID uuid.UUID) error
	Fail(ctx context.Context, ideaID uuid.UUID, reason string) error
	Skip(ctx context.Context, ideaID uuid.UUID, reason string) error
	Status(ctx context.Context) (*models.QueueStatus, error)
}

// ImageMaker はアイキャッチ画像の生成・アップロードです。
type ImageMaker interface {
	GenerateFor(ctx context.Context, categorySlug, postSlug, prompt string) (string, error)
}
