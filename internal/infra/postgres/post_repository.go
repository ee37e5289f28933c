package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/blog-agent/internal/core/images"
	"github.com/jinford/blog-agent/internal/core/shopsync"
	"github.com/jinford/blog-agent/pkg/models"
)

// PostRepository はブログ記事集約のデータベース操作を提供します
// 集約: Post（ルート）、PostTag（記事-タグ関連）
type PostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository は新しいPostRepositoryを作成します
func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

var _ shopsync.PostStore = (*PostRepository)(nil)
var _ images.PostStore = (*PostRepository)(nil)

const postColumns = `
	id, slug, title, excerpt, content, author_id, category_id,
	featured_image, featured_image_alt, reading_time, featured, seo, status,
	created_at, updated_at, shopify_article_id, shopify_synced_at, shopify_sync_error
`

// CreatePost は新しい記事を登録します
func (r *PostRepository) CreatePost(ctx context.Context, input models.NewPost) (*models.Post, error) {
	content, err := json.Marshal(input.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content blocks: %w", err)
	}

	query := `
		INSERT INTO blog_posts (slug, title, excerpt, content, author_id, category_id,
			featured_image, featured_image_alt, reading_time, featured, seo, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + postColumns

	row := r.pool.QueryRow(ctx, query,
		input.Slug, input.Title, input.Excerpt, content, input.AuthorID, input.CategoryID,
		input.FeaturedImage, input.FeaturedImageAlt, input.ReadingTime, input.Featured,
		input.SEO, input.Status)
	post, err := scanPost(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return post, nil
}

// List は全記事を更新が新しい順に返します
func (r *PostRepository) List(ctx context.Context) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY updated_at DESC`
	return r.queryPosts(ctx, query)
}

// ListRecent は更新が新しい順に最大 n 件の記事を返します
func (r *PostRepository) ListRecent(ctx context.Context, n int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY updated_at DESC LIMIT $1`
	return r.queryPosts(ctx, query, n)
}

// GetBySlug は slug で記事を検索します。なければ (nil, nil)。
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}
	return post, nil
}

// GetByID は ID で記事を検索します。なければ (nil, nil)。
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// SetSynced は同期成功を記録します。remote id と synced_at を設定し、エラーをクリアします。
func (r *PostRepository) SetSynced(ctx context.Context, postID uuid.UUID, articleID string) error {
	query := `
		UPDATE blog_posts
		SET shopify_article_id = $2, shopify_synced_at = CURRENT_TIMESTAMP, shopify_sync_error = NULL
		WHERE id = $1
	`

	if _, err := r.pool.Exec(ctx, query, postID, articleID); err != nil {
		return fmt.Errorf("failed to record sync success: %w", err)
	}
	return nil
}

// SetSyncError は同期失敗を記録します。remote id には触れません。
func (r *PostRepository) SetSyncError(ctx context.Context, postID uuid.UUID, message string) error {
	query := `UPDATE blog_posts SET shopify_sync_error = $2 WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, postID, message); err != nil {
		return fmt.Errorf("failed to record sync error: %w", err)
	}
	return nil
}

// LinkTags は記事にタグを関連付けます（冪等）
func (r *PostRepository) LinkTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	query := `
		INSERT INTO blog_post_tags (post_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, tag_id) DO NOTHING
	`

	for _, tagID := range tagIDs {
		if _, err := r.pool.Exec(ctx, query, postID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %s: %w", tagID, err)
		}
	}
	return nil
}

// UpdatePostStatus は記事の公開状態を更新します
func (r *PostRepository) UpdatePostStatus(ctx context.Context, postID uuid.UUID, status models.PostStatus) error {
	query := `UPDATE blog_posts SET status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, postID, status)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post not found: %s", postID)
	}
	return nil
}

// SetPostImage は記事のアイキャッチ画像を設定します
func (r *PostRepository) SetPostImage(ctx context.Context, postID uuid.UUID, imageURL, altText string) error {
	query := `
		UPDATE blog_posts
		SET featured_image = $2, featured_image_alt = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, postID, imageURL, altText)
	if err != nil {
		return fmt.Errorf("failed to set post image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post not found: %s", postID)
	}
	return nil
}

// ListPostsWithoutImages はアイキャッチ画像のない記事を最大 limit 件返します
func (r *PostRepository) ListPostsWithoutImages(ctx context.Context, limit int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM blog_posts
		WHERE featured_image IS NULL OR featured_image = ''
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.queryPosts(ctx, query, limit)
}

// GetCategoryByID は画像バックフィル用にカテゴリを引きます
func (r *PostRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return NewCategoryRepository(r.pool).GetByID(ctx, id)
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	var content []byte
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&content,
		&post.AuthorID,
		&post.CategoryID,
		&post.FeaturedImage,
		&post.FeaturedImageAlt,
		&post.ReadingTime,
		&post.Featured,
		&post.SEO,
		&post.Status,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.ShopifyArticleID,
		&post.ShopifySyncedAt,
		&post.ShopifySyncError,
	)
	if err != nil {
		return nil, err
	}
	if len(content) > 0 {
		if err := json.Unmarshal(content, &post.Content); err != nil {
			return nil, fmt.Errorf("failed to decode content blocks: %w", err)
		}
	}
	return &post, nil
}
