package queue

import (
	"context"

	"github.com/google/uuid"
	"github.com/jinford/blog-agent/pkg/models"
)

// Store はアイデアキューの永続化操作を提供します
// 排他制御は行レベルの条件付き更新のみで実現します。トランザクションで
// 複数ステップを括らないため、各操作は単体で原子的である必要があります。
type Store interface {
	// NextPending は最高優先度の pending アイデアを1件返します
	// 順序: priority 降順（NULL は最後）、同値は created_at 昇順。
	// 該当なしの場合は (nil, nil) を返します。
	NextPending(ctx context.Context) (*models.Idea, error)

	// TryClaim は status='pending' を条件に in_progress へ遷移させます
	// started_at を記録し attempts をインクリメントします。
	// 更新行数が1なら true、他プロセスに先を越された場合は false。
	TryClaim(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkCompleted は status='in_progress' を条件に completed へ遷移させます
	// completed_at と blog_post_id を記録し error_message をクリアします。
	MarkCompleted(ctx context.Context, id, postID uuid.UUID) (bool, error)

	// MarkFailed は status='in_progress' を条件に failed へ遷移させます
	// attempts は保持したまま error_message を記録します。
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (bool, error)

	// MarkSkipped は status='in_progress' を条件に skipped へ遷移させます
	MarkSkipped(ctx context.Context, id uuid.UUID, reason string) (bool, error)

	// CountByStatus はステータスごとの件数を返します
	CountByStatus(ctx context.Context) (map[models.IdeaStatus]int, error)

	// ListPending は優先度順に pending アイデアを最大 limit 件返します
	ListPending(ctx context.Context, limit int) ([]*models.Idea, error)
}
