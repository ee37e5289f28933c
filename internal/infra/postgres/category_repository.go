package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/blog-agent/internal/core/shopsync"
	"github.com/jinford/blog-agent/pkg/models"
)

// CategoryRepository はブログカテゴリのデータベース操作を提供します
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository は新しいCategoryRepositoryを作成します
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

var _ shopsync.CategoryStore = (*CategoryRepository)(nil)

const categoryColumns = `
	id, slug, name, description, seo, sort_order, created_at, updated_at,
	shopify_blog_gid, shopify_synced_at
`

// Create は新しいカテゴリを登録します
func (r *CategoryRepository) Create(ctx context.Context, input models.NewCategory) (*models.Category, error) {
	query := `
		INSERT INTO blog_categories (slug, name, description, seo)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	category, err := scanCategory(r.pool.QueryRow(ctx, query, input.Slug, input.Name, input.Description, input.SEO))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

// List は全カテゴリを表示順に返します
func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories ORDER BY sort_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetBySlug は slug でカテゴリを検索します。なければ (nil, nil)。
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories WHERE slug = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	return category, nil
}

// GetByID は ID でカテゴリを検索します。なければ (nil, nil)。
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM blog_categories WHERE id = $1`

	category, err := scanCategory(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", err)
	}
	return category, nil
}

// SetSynced は同期成功を記録します
func (r *CategoryRepository) SetSynced(ctx context.Context, categoryID uuid.UUID, blogGID string) error {
	query := `
		UPDATE blog_categories
		SET shopify_blog_gid = $2, shopify_synced_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, categoryID, blogGID); err != nil {
		return fmt.Errorf("failed to record category sync: %w", err)
	}
	return nil
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var category models.Category
	err := row.Scan(
		&category.ID,
		&category.Slug,
		&category.Name,
		&category.Description,
		&category.SEO,
		&category.SortOrder,
		&category.CreatedAt,
		&category.UpdatedAt,
		&category.ShopifyBlogGID,
		&category.ShopifySyncedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}
