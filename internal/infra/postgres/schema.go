package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements はテーブル定義です。冪等に実行できます。
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS blog_authors (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		bio TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS blog_categories (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		seo JSONB,
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		shopify_blog_gid TEXT,
		shopify_synced_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS blog_tags (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		excerpt TEXT NOT NULL DEFAULT '',
		content JSONB NOT NULL DEFAULT '[]',
		author_id UUID NOT NULL REFERENCES blog_authors(id),
		category_id UUID REFERENCES blog_categories(id),
		featured_image TEXT,
		featured_image_alt TEXT,
		reading_time INTEGER,
		featured BOOLEAN NOT NULL DEFAULT FALSE,
		seo JSONB,
		status TEXT NOT NULL DEFAULT 'draft'
			CHECK (status IN ('draft', 'published', 'archived')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		shopify_article_id TEXT,
		shopify_synced_at TIMESTAMPTZ,
		shopify_sync_error TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS blog_post_tags (
		post_id UUID NOT NULL REFERENCES blog_posts(id) ON DELETE CASCADE,
		tag_id UUID NOT NULL REFERENCES blog_tags(id) ON DELETE CASCADE,
		PRIMARY KEY (post_id, tag_id)
	)`,
	`CREATE TABLE IF NOT EXISTS blog_ideas (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		topic TEXT NOT NULL,
		description TEXT,
		notes TEXT,
		target_category_slug TEXT,
		suggested_tags TEXT[] NOT NULL DEFAULT '{}',
		target_word_count INTEGER,
		priority INTEGER,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'in_progress', 'completed', 'failed', 'skipped')),
		source TEXT NOT NULL DEFAULT 'manual',
		attempts INTEGER NOT NULL DEFAULT 0,
		blog_post_id UUID REFERENCES blog_posts(id),
		error_message TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		started_at TIMESTAMPTZ,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_blog_ideas_pending
		ON blog_ideas (priority DESC NULLS LAST, created_at ASC)
		WHERE status = 'pending'`,
}

// EnsureSchema はテーブルが存在しなければ作成します
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
