package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// BackfillImagesAction はアイキャッチ画像が未設定の記事に画像を補完するコマンドのアクション
func BackfillImagesAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	count := int(cmd.Int("count"))

	if count <= 0 {
		count = 5
	}

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	if !appCtx.Config.Blog.EnableImageGeneration {
		return fmt.Errorf("画像生成が無効です (ENABLE_IMAGE_GENERATION を設定してください)")
	}

	service, err := appCtx.NewImageService()
	if err != nil {
		return err
	}

	report, err := service.Backfill(ctx, count)
	if err != nil {
		return err
	}

	fmt.Printf("処理: %d / 成功: %d / 失敗: %d\n", report.Processed, report.Succeeded, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d 件の画像補完に失敗しました", report.Failed)
	}
	return nil
}
