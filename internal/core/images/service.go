package images

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/pkg/models"
)

// Generator は画像生成モデルの抽象です。
type Generator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Uploader はオブジェクトストレージへのアップロードの抽象です。
// フォルダは初回アップロード時に暗黙に作成されます。
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// PostStore はバックフィル対象の記事を読み書きするストアの抽象です。
type PostStore interface {
	ListPostsWithoutImages(ctx context.Context, limit int) ([]*models.Post, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SetPostImage(ctx context.Context, postID uuid.UUID, imageURL, altText string) error
}

// Service はアイキャッチ画像のない記事へ画像を補完します。
type Service struct {
	generator Generator
	uploader  Uploader
	posts     PostStore
	logger    *slog.Logger
}

// NewService は Service を作ります。
func NewService(generator Generator, uploader Uploader, posts PostStore, logger *slog.Logger) *Service {
	return &Service{
		generator: generator,
		uploader:  uploader,
		posts:     posts,
		logger:    logger,
	}
}

// GenerateFor は1記事分の画像を生成・アップロードし、公開 URL を返します。
// 記事への反映は行いません（エージェントツールから使う場合は呼び出し側が行います）。
func (s *Service) GenerateFor(ctx context.Context, categorySlug, postSlug, prompt string) (string, error) {
	data, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate image: %w", err)
	}

	path := fmt.Sprintf("%s/%s.png", categorySlug, postSlug)
	url, err := s.uploader.Upload(ctx, path, data, "image/png")
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return url, nil
}

// Backfill は画像のない記事を最大 limit 件処理します。
// 個別の失敗は次の記事へ進み、集計に計上されます。
func (s *Service) Backfill(ctx context.Context, limit int) (*models.BackfillReport, error) {
	posts, err := s.posts.ListPostsWithoutImages(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts without images: %w", err)
	}

	report := &models.BackfillReport{}
	for _, p := range posts {
		report.Processed++

		categorySlug := "general"
		if p.CategoryID != nil {
			category, err := s.posts.GetCategoryByID(ctx, *p.CategoryID)
			if err == nil && category != nil {
				categorySlug = category.Slug
			}
		}

		prompt := ScenePrompt(p.Title, p.Excerpt)
		s.logger.Info("画像を生成します",
			slog.String("slug", p.Slug), slog.String("category", categorySlug))

		url, err := s.GenerateFor(ctx, categorySlug, p.Slug, prompt)
		if err != nil {
			s.logger.Error("画像の生成に失敗しました",
				slog.String("slug", p.Slug), slog.String("error", err.Error()))
			report.Failed++
			continue
		}

		altText := "Featured image for " + p.Title
		if err := s.posts.SetPostImage(ctx, p.ID, url, altText); err != nil {
			s.logger.Error("画像 URL の記録に失敗しました",
				slog.String("slug", p.Slug), slog.String("error", err.Error()))
			report.Failed++
			continue
		}

		s.logger.Info("画像を設定しました", slog.String("slug", p.Slug), slog.String("url", url))
		report.Succeeded++
	}
	return report, nil
}
