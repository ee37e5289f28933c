package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jinford/blog-agent/pkg/models"
)

// ErrNoPendingIdeas はキューに pending アイデアが存在しないことを示します
// 異常系ではなく、キューが空になった通常の終了条件です。
var ErrNoPendingIdeas = errors.New("no pending ideas in queue")

// upcomingLimit はキュー集計で表示する直近 pending 件数
const upcomingLimit = 5

// Service はアイデアキューのクレームと終了記録を提供します
// 複数プロセスが同時に動いても、1つのアイデアを観測できるのは
// 最大1プロセスであることを条件付き更新で保証します。
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService は新しい Service を作成します
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ClaimNext は次の pending アイデアを1件クレームして返します
// 選択と遷移は別ステップのため、遷移に失敗した場合（他プロセスが先に
// クレームした場合）は選択からやり直します。キューが空になったら
// ErrNoPendingIdeas を返します。
func (s *Service) ClaimNext(ctx context.Context) (*models.Idea, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idea, err := s.store.NextPending(ctx)
		if err != nil {
			return nil, fmt.Errorf("select next pending idea: %w", err)
		}
		if idea == nil {
			return nil, ErrNoPendingIdeas
		}

		claimed, err := s.store.TryClaim(ctx, idea.ID)
		if err != nil {
			return nil, fmt.Errorf("claim idea %s: %w", idea.ID, err)
		}
		if !claimed {
			// 競合は異常ではない。別の pending を探し直す。
			s.logger.Debug("アイデアのクレームに競合、再選択します", "idea_id", idea.ID)
			continue
		}

		idea.Status = models.IdeaStatusInProgress
		idea.Attempts++
		s.logger.Info("アイデアをクレームしました",
			"idea_id", idea.ID,
			"topic", idea.Topic,
			"attempts", idea.Attempts,
		)
		return idea, nil
	}
}

// Complete はアイデアを completed にし、作成した記事へリンクします
// 既に終端状態だった場合は競合が解決済みとみなし、何もしません。
func (s *Service) Complete(ctx context.Context, ideaID, postID uuid.UUID) error {
	updated, err := s.store.MarkCompleted(ctx, ideaID, postID)
	if err != nil {
		return fmt.Errorf("complete idea %s: %w", ideaID, err)
	}
	if !updated {
		s.logger.Debug("アイデアは既に終端状態のため完了記録をスキップ", "idea_id", ideaID)
		return nil
	}
	s.logger.Info("アイデアを完了にしました", "idea_id", ideaID, "post_id", postID)
	return nil
}

// Fail はアイデアを failed にし、エラー内容を記録します
func (s *Service) Fail(ctx context.Context, ideaID uuid.UUID, reason string) error {
	updated, err := s.store.MarkFailed(ctx, ideaID, reason)
	if err != nil {
		return fmt.Errorf("fail idea %s: %w", ideaID, err)
	}
	if !updated {
		s.logger.Debug("アイデアは既に終端状態のため失敗記録をスキップ", "idea_id", ideaID)
		return nil
	}
	s.logger.Info("アイデアを失敗にしました", "idea_id", ideaID, "reason", reason)
	return nil
}

// Skip はアイデアを生成せずに skipped として終了させます
func (s *Service) Skip(ctx context.Context, ideaID uuid.UUID, reason string) error {
	updated, err := s.store.MarkSkipped(ctx, ideaID, reason)
	if err != nil {
		return fmt.Errorf("skip idea %s: %w", ideaID, err)
	}
	if !updated {
		s.logger.Debug("アイデアは既に終端状態のためスキップ記録をスキップ", "idea_id", ideaID)
		return nil
	}
	s.logger.Info("アイデアをスキップしました", "idea_id", ideaID, "reason", reason)
	return nil
}

// Status はキューの集計と直近の pending アイデアを返します
func (s *Service) Status(ctx context.Context) (*models.QueueStatus, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count ideas by status: %w", err)
	}

	upcoming, err := s.store.ListPending(ctx, upcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("list pending ideas: %w", err)
	}

	return &models.QueueStatus{Counts: counts, Upcoming: upcoming}, nil
}
