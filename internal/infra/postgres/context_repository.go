package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/blog-agent/internal/agenttools"
	"github.com/jinford/blog-agent/pkg/models"
)

// ContextRepository はエージェントへ渡すブログ全体の文脈を組み立てます
type ContextRepository struct {
	pool       *pgxpool.Pool
	posts      *PostRepository
	categories *CategoryRepository
	tags       *TagRepository
	authors    *AuthorRepository
}

// NewContextRepository は新しいContextRepositoryを作成します
func NewContextRepository(pool *pgxpool.Pool) *ContextRepository {
	return &ContextRepository{
		pool:       pool,
		posts:      NewPostRepository(pool),
		categories: NewCategoryRepository(pool),
		tags:       NewTagRepository(pool),
		authors:    NewAuthorRepository(pool),
	}
}

var _ agenttools.ContextReader = (*ContextRepository)(nil)

const recentPostLimit = 20

// BlogContext はカテゴリ・タグ・著者・直近の記事タイトルをまとめて返します
func (r *ContextRepository) BlogContext(ctx context.Context) (*models.BlogContext, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := r.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := r.authors.List(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT slug, title FROM blog_posts ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, recentPostLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	defer rows.Close()

	var recent []models.PostRef
	for rows.Next() {
		var ref models.PostRef
		if err := rows.Scan(&ref.Slug, &ref.Title); err != nil {
			return nil, fmt.Errorf("failed to scan post ref: %w", err)
		}
		recent = append(recent, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.BlogContext{
		Categories:  categories,
		Tags:        tags,
		Authors:     authors,
		RecentPosts: recent,
	}, nil
}

// SamplePost は構造の参考として直近の記事を1件返します。なければ (nil, nil)。
func (r *ContextRepository) SamplePost(ctx context.Context) (*models.Post, error) {
	posts, err := r.posts.ListRecent(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

// SlugExists は記事 slug が既に使われているかを返します
func (r *ContextRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE slug = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}
