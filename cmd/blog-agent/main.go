package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jinford/blog-agent/cmd/blog-agent/commands"
	"github.com/urfave/cli/v3"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "デバッグログを出力",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 構造化ログの設定
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := &cli.Command{
		Name:  "blog-agent",
		Usage: "LLMエージェントによるブログ記事生成と Shopify 同期",
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "指定トピックで記事を1本生成",
				ArgsUsage: "<topic>",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
				},
				Action: commands.GenerateAction,
			},
			{
				Name:  "auto",
				Usage: "アイデアキューから自律的に記事を生成",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Usage:   "生成する記事数 (省略時は POSTS_PER_RUN)",
					},
				},
				Action: commands.AutoAction,
			},
			{
				Name:  "batch",
				Usage: "トピックファイルの各トピックで記事を生成",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "トピックファイルパス (1行1トピック)",
						Required: true,
					},
				},
				Action: commands.BatchAction,
			},
			{
				Name:  "interactive",
				Usage: "対話的にトピックを入力して記事を生成",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
				},
				Action: commands.InteractiveAction,
			},
			{
				Name:  "status",
				Usage: "アイデアキューの状態を表示",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
				},
				Action: commands.StatusAction,
			},
			{
				Name:  "queue",
				Usage: "アイデアキュー管理コマンド",
				Commands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "アイデアをキューに登録",
						ArgsUsage: "<topic>",
						Flags: []cli.Flag{
							envFlag(),
							verboseFlag(),
							&cli.StringFlag{
								Name:  "description",
								Usage: "アイデアの補足説明",
							},
							&cli.StringFlag{
								Name:  "category",
								Usage: "対象カテゴリの slug",
							},
							&cli.IntFlag{
								Name:  "priority",
								Usage: "優先度 (大きいほど先に処理)",
							},
						},
						Action: commands.QueueAddAction,
					},
					{
						Name:  "reset-stuck",
						Usage: "in_progress のまま残ったアイデアを pending に戻す",
						Flags: []cli.Flag{
							envFlag(),
							verboseFlag(),
						},
						Action: commands.ResetStuckAction,
					},
				},
			},
			{
				Name:  "sync",
				Usage: "Shopify 同期コマンド",
				Commands: []*cli.Command{
					{
						Name:  "posts",
						Usage: "記事を Shopify へ同期",
						Flags: []cli.Flag{
							envFlag(),
							verboseFlag(),
							&cli.StringFlag{
								Name:  "slug",
								Usage: "slug 指定で1件のみ同期",
							},
							&cli.StringFlag{
								Name:  "id",
								Usage: "ID 指定で1件のみ同期",
							},
							&cli.IntFlag{
								Name:  "recent",
								Usage: "直近 N 件のみ同期",
							},
							&cli.BoolFlag{
								Name:  "pending",
								Usage: "未同期・更新ありの記事のみ同期",
							},
							&cli.BoolFlag{
								Name:  "force",
								Usage: "同期済みでも強制的に再同期",
							},
						},
						Action: commands.SyncPostsAction,
					},
					{
						Name:  "categories",
						Usage: "カテゴリを Shopify ブログへ同期",
						Flags: []cli.Flag{
							envFlag(),
							verboseFlag(),
							&cli.StringFlag{
								Name:  "slug",
								Usage: "slug 指定で1件のみ同期",
							},
							&cli.BoolFlag{
								Name:  "force",
								Usage: "同期済みでも強制的に再同期",
							},
						},
						Action: commands.SyncCategoriesAction,
					},
					{
						Name:  "status",
						Usage: "同期状態の一覧を表示",
						Flags: []cli.Flag{
							envFlag(),
							verboseFlag(),
							&cli.BoolFlag{
								Name:  "categories",
								Usage: "カテゴリの同期状態を表示",
							},
						},
						Action: commands.SyncStatusAction,
					},
				},
			},
			{
				Name:  "backfill-images",
				Usage: "アイキャッチ画像が未設定の記事に画像を補完",
				Flags: []cli.Flag{
					envFlag(),
					verboseFlag(),
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"c"},
						Usage:   "処理する記事数の上限",
						Value:   5,
					},
				},
				Action: commands.BackfillImagesAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
