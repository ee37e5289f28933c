package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/jinford/blog-agent/internal/core/shopsync"
	"github.com/jinford/blog-agent/pkg/models"
)

// SyncPostsAction は記事をShopifyへ同期するコマンドのアクション
func SyncPostsAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	slug := cmd.String("slug")
	idStr := cmd.String("id")
	recent := int(cmd.Int("recent"))
	pending := cmd.Bool("pending")
	force := cmd.Bool("force")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	reconciler, err := appCtx.NewReconciler()
	if err != nil {
		return err
	}

	var report *models.SyncReport
	switch {
	case slug != "":
		report, err = reconciler.SyncPostBySlug(ctx, slug, force)
	case idStr != "":
		var id uuid.UUID
		id, err = uuid.Parse(idStr)
		if err != nil {
			return fmt.Errorf("不正な記事IDです: %w", err)
		}
		report, err = reconciler.SyncPostByID(ctx, id, force)
	case recent > 0:
		report, err = reconciler.SyncRecent(ctx, recent, force)
	case pending:
		report, err = reconciler.SyncPendingPosts(ctx)
	default:
		report, err = reconciler.SyncAllPosts(ctx, force)
	}
	if err != nil {
		return err
	}

	printSyncReport(report)
	if report.Failed > 0 {
		return fmt.Errorf("%d 件の記事の同期に失敗しました", report.Failed)
	}
	return nil
}

// SyncCategoriesAction はカテゴリをShopifyブログへ同期するコマンドのアクション
func SyncCategoriesAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	slug := cmd.String("slug")
	force := cmd.Bool("force")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	reconciler, err := appCtx.NewReconciler()
	if err != nil {
		return err
	}

	var report *models.SyncReport
	if slug != "" {
		report, err = reconciler.SyncCategoryBySlug(ctx, slug, force)
	} else {
		report, err = reconciler.SyncAllCategories(ctx, force)
	}
	if err != nil {
		return err
	}

	printSyncReport(report)
	if report.Failed > 0 {
		return fmt.Errorf("%d 件のカテゴリの同期に失敗しました", report.Failed)
	}
	return nil
}

// SyncStatusAction は同期状態の一覧を表示するコマンドのアクション
func SyncStatusAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	verbose := cmd.Bool("verbose")
	categories := cmd.Bool("categories")

	// 共通コンテキストの初期化
	appCtx, err := NewAppContext(ctx, envFile, verbose)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	reconciler, err := appCtx.NewReconciler()
	if err != nil {
		return err
	}

	var rows []shopsync.StatusRow
	if categories {
		rows, err = reconciler.CategoryStatusRows(ctx)
	} else {
		rows, err = reconciler.PostStatusRows(ctx)
	}
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		fmt.Println("対象がありません")
		return nil
	}

	renderStatusTable(rows)
	return nil
}

// renderStatusTable は同期状態をテーブル表示する
func renderStatusTable(rows []shopsync.StatusRow) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Title", "Slug", "State", "Detail", "Synced At")

	for _, row := range rows {
		table.Append(
			truncateString(row.Title, 40),
			row.Slug,
			string(row.State),
			row.Detail,
			row.SyncedAt,
		)
	}

	table.Render()
}

// printSyncReport は同期結果の件数を表示する
func printSyncReport(report *models.SyncReport) {
	fmt.Printf("同期: %d / スキップ: %d / 失敗: %d\n", report.Synced, report.Skipped, report.Failed)
}

// truncateString は文字列を指定長で切り詰める。マルチバイト文字を壊さない。
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
