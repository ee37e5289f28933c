package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jinford/blog-agent/internal/core/queue"
	"github.com/jinford/blog-agent/pkg/models"
)

// IdeaRepository はブログアイデアキューのデータベース操作を提供します
// 集約: Idea（ルートのみ）
type IdeaRepository struct {
	pool *pgxpool.Pool
}

// NewIdeaRepository は新しいIdeaRepositoryを作成します
func NewIdeaRepository(pool *pgxpool.Pool) *IdeaRepository {
	return &IdeaRepository{pool: pool}
}

var _ queue.Store = (*IdeaRepository)(nil)

const ideaColumns = `
	id, topic, description, notes, target_category_slug, suggested_tags,
	target_word_count, priority, status, source, attempts, blog_post_id,
	error_message, created_at, started_at, completed_at
`

// Insert は新しいアイデアを pending で登録します
func (r *IdeaRepository) Insert(ctx context.Context, input models.NewIdea) (*models.Idea, error) {
	source := input.Source
	if source == "" {
		source = "manual"
	}
	query := `
		INSERT INTO blog_ideas (topic, description, notes, target_category_slug, suggested_tags, target_word_count, priority, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending', $8)
		RETURNING ` + ideaColumns

	row := r.pool.QueryRow(ctx, query,
		input.Topic, input.Description, input.Notes, input.TargetCategorySlug,
		input.SuggestedTags, input.TargetWordCount, input.Priority, source)
	idea, err := scanIdea(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert idea: %w", err)
	}
	return idea, nil
}

// NextPending は最優先の pending アイデアを返します
// priority 降順（NULL は最後）、同値は created_at 昇順。なければ (nil, nil)。
func (r *IdeaRepository) NextPending(ctx context.Context) (*models.Idea, error) {
	query := `
		SELECT ` + ideaColumns + `
		FROM blog_ideas
		WHERE status = 'pending'
		ORDER BY priority DESC NULLS LAST, created_at ASC
		LIMIT 1
	`

	idea, err := scanIdea(r.pool.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select pending idea: %w", err)
	}
	return idea, nil
}

// TryClaim は pending → in_progress の条件付き更新を試みます
// 更新行数が0なら別の実行者が先に claim したことを意味します。
func (r *IdeaRepository) TryClaim(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE blog_ideas
		SET status = 'in_progress', started_at = CURRENT_TIMESTAMP, attempts = attempts + 1
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to claim idea: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkCompleted は in_progress → completed の条件付き更新を行います
func (r *IdeaRepository) MarkCompleted(ctx context.Context, id, postID uuid.UUID) (bool, error) {
	query := `
		UPDATE blog_ideas
		SET status = 'completed', completed_at = CURRENT_TIMESTAMP,
			blog_post_id = $2, error_message = NULL
		WHERE id = $1 AND status = 'in_progress'
	`

	tag, err := r.pool.Exec(ctx, query, id, postID)
	if err != nil {
		return false, fmt.Errorf("failed to mark idea completed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFailed は in_progress → failed の条件付き更新を行います
func (r *IdeaRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE blog_ideas
		SET status = 'failed', error_message = $2
		WHERE id = $1 AND status = 'in_progress'
	`

	tag, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark idea failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkSkipped は in_progress → skipped の条件付き更新を行います
func (r *IdeaRepository) MarkSkipped(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	query := `
		UPDATE blog_ideas
		SET status = 'skipped', completed_at = CURRENT_TIMESTAMP, error_message = $2
		WHERE id = $1 AND status = 'in_progress'
	`

	tag, err := r.pool.Exec(ctx, query, id, "Skipped: "+reason)
	if err != nil {
		return false, fmt.Errorf("failed to mark idea skipped: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CountByStatus はステータスごとの件数を返します
func (r *IdeaRepository) CountByStatus(ctx context.Context) (map[models.IdeaStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM blog_ideas GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count ideas: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.IdeaStatus]int)
	for rows.Next() {
		var status models.IdeaStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan idea count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// ListPending は優先度順の pending アイデアを最大 limit 件返します
func (r *IdeaRepository) ListPending(ctx context.Context, limit int) ([]*models.Idea, error) {
	query := `
		SELECT ` + ideaColumns + `
		FROM blog_ideas
		WHERE status = 'pending'
		ORDER BY priority DESC NULLS LAST, created_at ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending ideas: %w", err)
	}
	defer rows.Close()

	var ideas []*models.Idea
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	return ideas, rows.Err()
}

// ResetStuck は in_progress のまま残ったアイデアを pending に戻します
// 自動の stuck 検出は行いません。運用者が明示的に呼び出す復旧手段です。
func (r *IdeaRepository) ResetStuck(ctx context.Context) (int64, error) {
	query := `
		UPDATE blog_ideas
		SET status = 'pending', started_at = NULL
		WHERE status = 'in_progress'
	`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to reset stuck ideas: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanIdea(row pgx.Row) (*models.Idea, error) {
	var idea models.Idea
	err := row.Scan(
		&idea.ID,
		&idea.Topic,
		&idea.Description,
		&idea.Notes,
		&idea.TargetCategorySlug,
		&idea.SuggestedTags,
		&idea.TargetWordCount,
		&idea.Priority,
		&idea.Status,
		&idea.Source,
		&idea.Attempts,
		&idea.BlogPostID,
		&idea.ErrorMessage,
		&idea.CreatedAt,
		&idea.StartedAt,
		&idea.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &idea, nil
}
