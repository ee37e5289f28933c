package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/blog-agent/internal/core/shopsync"
	"github.com/jinford/blog-agent/pkg/models"
)

// TagRepository はブログタグのデータベース操作を提供します
type TagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository は新しいTagRepositoryを作成します
func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

var _ shopsync.TagStore = (*TagRepository)(nil)

// Create は新しいタグを登録します（同名 slug は既存を返す）
func (r *TagRepository) Create(ctx context.Context, input models.NewTag) (*models.Tag, error) {
	query := `
		INSERT INTO blog_tags (slug, name)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, slug, name, created_at
	`

	var tag models.Tag
	err := r.pool.QueryRow(ctx, query, input.Slug, input.Name).Scan(
		&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &tag, nil
}

// List は全タグを名前順に返します
func (r *TagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	query := `SELECT id, slug, name, created_at FROM blog_tags ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []*models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Slug, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// NamesForPost は記事に付与されたタグ名を返します
func (r *TagRepository) NamesForPost(ctx context.Context, postID uuid.UUID) ([]string, error) {
	query := `
		SELECT t.name
		FROM blog_tags t
		JOIN blog_post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name
	`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
