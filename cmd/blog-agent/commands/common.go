package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jinford/blog-agent/internal/agenttools"
	"github.com/jinford/blog-agent/internal/core/agent"
	"github.com/jinford/blog-agent/internal/core/images"
	"github.com/jinford/blog-agent/internal/core/queue"
	"github.com/jinford/blog-agent/internal/core/shopsync"
	infraopenai "github.com/jinford/blog-agent/internal/infra/openai"
	"github.com/jinford/blog-agent/internal/infra/postgres"
	"github.com/jinford/blog-agent/internal/infra/shopify"
	"github.com/jinford/blog-agent/internal/infra/storage"
	"github.com/jinford/blog-agent/internal/platform/config"
	"github.com/jinford/blog-agent/internal/platform/logger"
	"github.com/jinford/blog-agent/pkg/db"
	"github.com/jinford/blog-agent/pkg/models"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config   *config.Config
	Database *db.DB
	Logger   *slog.Logger

	Ideas      *postgres.IdeaRepository
	Posts      *postgres.PostRepository
	Categories *postgres.CategoryRepository
	Tags       *postgres.TagRepository
	Authors    *postgres.AuthorRepository
	Context    *postgres.ContextRepository

	Queue *queue.Service
}

// NewAppContext は設定を読み込み、DBに接続して AppContext を作成する
func NewAppContext(ctx context.Context, envFile string, verbose bool) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	if verbose {
		logCfg = logger.VerboseConfig()
	}
	appLogger := logger.New(logCfg)

	database, err := db.New(ctx, db.ConnectionParams{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := postgres.EnsureSchema(ctx, database.Pool); err != nil {
		database.Close()
		return nil, err
	}

	ideas := postgres.NewIdeaRepository(database.Pool)

	return &AppContext{
		Config:     cfg,
		Database:   database,
		Logger:     appLogger,
		Ideas:      ideas,
		Posts:      postgres.NewPostRepository(database.Pool),
		Categories: postgres.NewCategoryRepository(database.Pool),
		Tags:       postgres.NewTagRepository(database.Pool),
		Authors:    postgres.NewAuthorRepository(database.Pool),
		Context:    postgres.NewContextRepository(database.Pool),
		Queue:      queue.NewService(ideas, appLogger),
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Database != nil {
		ac.Database.Close()
	}
}

// NewRunner はエージェント実行器を組み立てる
// includeIdeaTools が false のときはキュー系ツールを公開しない。
func (ac *AppContext) NewRunner(includeIdeaTools bool) (*agent.Runner, error) {
	llm, err := infraopenai.NewClient(ac.Config.OpenAI.APIKey, ac.Config.OpenAI.Model)
	if err != nil {
		return nil, err
	}

	deps := agenttools.Deps{
		Reader:   ac.Context,
		Posts:    ac.Posts,
		Taxonomy: &taxonomyWriter{ac: ac},
		Ideas:    ac.Queue,
	}

	if ac.Config.Blog.EnableImageGeneration {
		imageService, err := ac.NewImageService()
		if err != nil {
			return nil, err
		}
		deps.Images = imageService
	}

	counter, err := agent.NewTokenCounter()
	if err != nil {
		// トークン計測は進捗ログ用なので、失敗しても実行は継続する
		ac.Logger.Warn("トークン計測器の初期化に失敗しました", slog.String("error", err.Error()))
		counter = nil
	}

	registry := agenttools.BuildRegistry(deps, includeIdeaTools)
	return agent.NewRunner(llm, registry, ac.Config.OpenAI.MaxTurns, counter, ac.Logger), nil
}

// NewReconciler はShopify同期のReconcilerを組み立てる
func (ac *AppContext) NewReconciler() (*shopsync.Reconciler, error) {
	if err := ac.Config.ValidateShopify(); err != nil {
		return nil, err
	}

	remote, err := shopify.NewClient(
		ac.Config.Shopify.StoreDomain,
		ac.Config.Shopify.AdminToken,
		ac.Config.Shopify.APIVersion,
	)
	if err != nil {
		return nil, err
	}

	return shopsync.NewReconciler(
		ac.Posts,
		ac.Categories,
		ac.Authors,
		ac.Tags,
		remote,
		ac.Config.Shopify.DefaultAuthor,
		ac.Logger,
	), nil
}

// NewImageService は画像生成サービスを組み立てる
func (ac *AppContext) NewImageService() (*images.Service, error) {
	generator, err := infraopenai.NewImageGenerator(ac.Config.OpenAI.APIKey, ac.Config.OpenAI.ImageModel)
	if err != nil {
		return nil, err
	}
	uploader, err := storage.NewUploader(
		ac.Config.Storage.BaseURL,
		ac.Config.Storage.ServiceKey,
		ac.Config.Storage.Bucket,
	)
	if err != nil {
		return nil, err
	}
	return images.NewService(generator, uploader, ac.Posts, ac.Logger), nil
}

// taxonomyWriter はカテゴリとタグのリポジトリを agenttools.TaxonomyWriter に束ねる
type taxonomyWriter struct {
	ac *AppContext
}

var _ agenttools.TaxonomyWriter = (*taxonomyWriter)(nil)

func (w *taxonomyWriter) CreateCategory(ctx context.Context, input models.NewCategory) (*models.Category, error) {
	return w.ac.Categories.Create(ctx, input)
}

func (w *taxonomyWriter) CreateTag(ctx context.Context, input models.NewTag) (*models.Tag, error) {
	return w.ac.Tags.Create(ctx, input)
}
