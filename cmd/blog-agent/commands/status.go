package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jinford/blog-agent/internal/agenttools"
	"github.com/jinford/blog-agent/pkg/models"
)

// StatusAction はアイデアキューの状態を表示するコマンドのアクション
func StatusAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	status, err := appCtx.Queue.Status(ctx)
	if err != nil {
		return fmt.Errorf("キュー状態の取得に失敗: %w", err)
	}

	fmt.Println(agenttools.FormatQueueStatus(status))
	return nil
}

// QueueAddAction はアイデアをキューに登録するコマンドのアクション
func QueueAddAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	topic := strings.TrimSpace(cmd.Args().First())
	description := cmd.String("description")
	categorySlug := cmd.String("category")
	priority := int(cmd.Int("priority"))

	if topic == "" {
		return fmt.Errorf("トピックを指定してください")
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	input := models.NewIdea{Topic: topic, Source: "manual"}
	if description != "" {
		input.Description = &description
	}
	if categorySlug != "" {
		input.TargetCategorySlug = &categorySlug
	}
	if priority > 0 {
		input.Priority = &priority
	}

	idea, err := appCtx.Ideas.Insert(ctx, input)
	if err != nil {
		return fmt.Errorf("アイデアの登録に失敗: %w", err)
	}

	fmt.Printf("登録しました: %s (%s)\n", idea.Topic, idea.ID)
	return nil
}

// ResetStuckAction はin_progressのまま残ったアイデアをpendingに戻すコマンドのアクション
func ResetStuckAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	n, err := appCtx.Ideas.ResetStuck(ctx)
	if err != nil {
		return fmt.Errorf("アイデアのリセットに失敗: %w", err)
	}

	if n == 0 {
		fmt.Println("in_progress のアイデアはありません")
		return nil
	}
	fmt.Printf("%d 件のアイデアを pending に戻しました\n", n)
	return nil
}
