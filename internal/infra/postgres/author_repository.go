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

// AuthorRepository はブログ著者のデータベース操作を提供します
type AuthorRepository struct {
	pool *pgxpool.Pool
}

// NewAuthorRepository は新しいAuthorRepositoryを作成します
func NewAuthorRepository(pool *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{pool: pool}
}

var _ shopsync.AuthorStore = (*AuthorRepository)(nil)

// Get は ID で著者を検索します。なければ (nil, nil)。
func (r *AuthorRepository) Get(ctx context.Context, id uuid.UUID) (*models.Author, error) {
	query := `SELECT id, slug, name, bio FROM blog_authors WHERE id = $1`

	var author models.Author
	err := r.pool.QueryRow(ctx, query, id).Scan(&author.ID, &author.Slug, &author.Name, &author.Bio)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &author, nil
}

// GetBySlug は slug で著者を検索します。なければ (nil, nil)。
func (r *AuthorRepository) GetBySlug(ctx context.Context, slug string) (*models.Author, error) {
	query := `SELECT id, slug, name, bio FROM blog_authors WHERE slug = $1`

	var author models.Author
	err := r.pool.QueryRow(ctx, query, slug).Scan(&author.ID, &author.Slug, &author.Name, &author.Bio)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get author by slug: %w", err)
	}
	return &author, nil
}

// List は全著者を返します
func (r *AuthorRepository) List(ctx context.Context) ([]*models.Author, error) {
	query := `SELECT id, slug, name, bio FROM blog_authors ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	var authors []*models.Author
	for rows.Next() {
		var author models.Author
		if err := rows.Scan(&author.ID, &author.Slug, &author.Name, &author.Bio); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, &author)
	}
	return authors, rows.Err()
}
