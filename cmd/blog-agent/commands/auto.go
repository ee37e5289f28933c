package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/jinford/blog-agent/internal/core/agent"
	"github.com/jinford/blog-agent/pkg/models"
)

// AutoAction はアイデアキューから自律的に記事を生成するコマンドのアクション
func AutoAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	count := int(cmd.Int("count"))

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if count <= 0 {
		count = appCtx.Config.Blog.PostsPerRun
	}
	if count <= 0 {
		count = 1
	}

	runner, err := appCtx.NewRunner(true)
	if err != nil {
		return err
	}

	completed, failed, skipped := 0, 0, 0
	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		// 残りの pending がなければ打ち切る
		status, err := appCtx.Queue.Status(ctx)
		if err != nil {
			return fmt.Errorf("キュー状態の取得に失敗: %w", err)
		}
		if status.Counts[models.IdeaStatusPending] == 0 {
			fmt.Println("キューに pending のアイデアがありません")
			break
		}

		fmt.Printf("--- 実行 %d/%d ---\n", i, count)

		instruction := agent.AutonomousInstruction(appCtx.Config.Blog.DefaultAuthorSlug)
		outcome, err := runner.Run(ctx, agent.SystemPrompt, instruction)
		if err != nil {
			return fmt.Errorf("エージェント実行に失敗: %w", err)
		}

		printOutcome(outcome)
		switch outcome.Status {
		case agent.OutcomeCompleted:
			completed++
		case agent.OutcomeSkipped:
			skipped++
		case agent.OutcomeFailed:
			failed++
		case agent.OutcomeExhausted:
			failed++
			// claim されたまま終端記録がないアイデアは failed に戻して解放する
			if outcome.IdeaID != nil {
				reason := "agent exhausted turn budget without recording a result"
				if err := appCtx.Queue.Fail(ctx, *outcome.IdeaID, reason); err != nil {
					appCtx.Logger.Warn("アイデアの解放に失敗しました",
						slog.String("idea_id", outcome.IdeaID.String()),
						slog.String("error", err.Error()),
					)
				}
			}
		}
	}

	fmt.Printf("完了: %d / 失敗: %d / スキップ: %d\n", completed, failed, skipped)
	return nil
}
