package shopsync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/pkg/models"
)

// レート制限時の再試行設定。レート制限以外の失敗は同一実行内で再試行しません。
const (
	rateLimitMaxAttempts = 3
	rateLimitBaseDelay   = 2 * time.Second
)

// Reconciler はローカルの記事・カテゴリをリモート CMS へ一方向に同期します。
// リモート側の編集を取り込むことはありません（push のみ）。
type Reconciler struct {
	posts         PostStore
	categories    CategoryStore
	authors       AuthorStore
	tags          TagStore
	remote        RemoteCMS
	defaultAuthor string
	logger        *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewReconciler は Reconciler を作ります。
func NewReconciler(
	posts PostStore,
	categories CategoryStore,
	authors AuthorStore,
	tags TagStore,
	remote RemoteCMS,
	defaultAuthor string,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		posts:         posts,
		categories:    categories,
		authors:       authors,
		tags:          tags,
		remote:        remote,
		defaultAuthor: defaultAuthor,
		logger:        logger,
		sleep:         sleepContext,
	}
}

// NeedsSync は記事が同期対象かどうかを判定します。
// 未同期（remote id なし）、または最終同期より後に更新された記事が対象です。
func NeedsSync(p *models.Post) bool {
	if p.ShopifyArticleID == nil {
		return true
	}
	if p.ShopifySyncedAt == nil {
		return true
	}
	return p.UpdatedAt.After(*p.ShopifySyncedAt)
}

// CategoryNeedsSync はカテゴリが同期対象かどうかを判定します。
func CategoryNeedsSync(c *models.Category) bool {
	if c.ShopifyBlogGID == nil {
		return true
	}
	if c.ShopifySyncedAt == nil {
		return true
	}
	return c.UpdatedAt.After(*c.ShopifySyncedAt)
}

// SyncAllPosts は全記事を同期します。force を指定すると最新の記事も再同期します。
func (r *Reconciler) SyncAllPosts(ctx context.Context, force bool) (*models.SyncReport, error) {
	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return r.syncPosts(ctx, posts, force), nil
}

// SyncPendingPosts は同期が必要な記事のみを同期します。
func (r *Reconciler) SyncPendingPosts(ctx context.Context) (*models.SyncReport, error) {
	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	var pending []*models.Post
	for _, p := range posts {
		if NeedsSync(p) {
			pending = append(pending, p)
		}
	}
	return r.syncPosts(ctx, pending, false), nil
}

// SyncRecent は更新が新しい順に n 件の記事を同期します。
func (r *Reconciler) SyncRecent(ctx context.Context, n int, force bool) (*models.SyncReport, error) {
	posts, err := r.posts.ListRecent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	return r.syncPosts(ctx, posts, force), nil
}

// SyncPostBySlug は slug 指定で1記事を同期します。
// 未知の slug はスコープ解決エラーとして返します（個別失敗とは区別されます）。
func (r *Reconciler) SyncPostBySlug(ctx context.Context, slug string, force bool) (*models.SyncReport, error) {
	post, err := r.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("post not found: %s", slug)
	}
	return r.syncPosts(ctx, []*models.Post{post}, force), nil
}

// SyncPostByID は ID 指定で1記事を同期します。
func (r *Reconciler) SyncPostByID(ctx context.Context, id uuid.UUID, force bool) (*models.SyncReport, error) {
	post, err := r.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("post not found: %s", id)
	}
	return r.syncPosts(ctx, []*models.Post{post}, force), nil
}

// SyncAllCategories は全カテゴリを同期します。
func (r *Reconciler) SyncAllCategories(ctx context.Context, force bool) (*models.SyncReport, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	report := &models.SyncReport{}
	for _, c := range categories {
		if !force && !CategoryNeedsSync(c) {
			report.Skipped++
			continue
		}
		if err := r.syncCategory(ctx, c); err != nil {
			r.logger.Error("カテゴリの同期に失敗しました",
				slog.String("slug", c.Slug), slog.String("error", err.Error()))
			report.Failed++
			continue
		}
		report.Synced++
	}
	return report, nil
}

// SyncCategoryBySlug は slug 指定で1カテゴリを同期します。
func (r *Reconciler) SyncCategoryBySlug(ctx context.Context, slug string, force bool) (*models.SyncReport, error) {
	category, err := r.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get category by slug: %w", err)
	}
	if category == nil {
		return nil, fmt.Errorf("category not found: %s", slug)
	}

	report := &models.SyncReport{}
	if !force && !CategoryNeedsSync(category) {
		report.Skipped++
		return report, nil
	}
	if err := r.syncCategory(ctx, category); err != nil {
		r.logger.Error("カテゴリの同期に失敗しました",
			slog.String("slug", category.Slug), slog.String("error", err.Error()))
		report.Failed++
		return report, nil
	}
	report.Synced++
	return report, nil
}

// syncPosts は記事群を順に同期します。個別の失敗はバッチを中断しません。
func (r *Reconciler) syncPosts(ctx context.Context, posts []*models.Post, force bool) *models.SyncReport {
	report := &models.SyncReport{}
	for _, p := range posts {
		if !force && !NeedsSync(p) {
			r.logger.Debug("記事は最新のためスキップします", slog.String("slug", p.Slug))
			report.Skipped++
			continue
		}
		if err := r.syncPost(ctx, p); err != nil {
			r.logger.Error("記事の同期に失敗しました",
				slog.String("slug", p.Slug), slog.String("error", err.Error()))
			if storeErr := r.posts.SetSyncError(ctx, p.ID, err.Error()); storeErr != nil {
				r.logger.Error("同期エラーの記録に失敗しました",
					slog.String("slug", p.Slug), slog.String("error", storeErr.Error()))
			}
			report.Failed++
			continue
		}
		report.Synced++
	}
	return report
}

// syncPost は1記事をリモートへ push し、成功時に bookkeeping を更新します。
// remote id は成功時以外には決して書き換えません。
func (r *Reconciler) syncPost(ctx context.Context, p *models.Post) error {
	if p.CategoryID == nil {
		return fmt.Errorf("no category assigned")
	}

	// カテゴリが未同期なら先に同期する（カテゴリは記事を参照しないため再帰は深さ1で止まる）
	blogGID, err := r.ensureCategorySynced(ctx, *p.CategoryID)
	if err != nil {
		return fmt.Errorf("category sync failed: %w", err)
	}

	input, err := r.buildArticleInput(ctx, p, blogGID)
	if err != nil {
		return err
	}

	var articleID string
	if p.ShopifyArticleID == nil {
		articleID, err = r.callRemote(ctx, func(ctx context.Context) (string, error) {
			return r.remote.CreateArticle(ctx, input)
		})
	} else {
		articleID, err = r.callRemote(ctx, func(ctx context.Context) (string, error) {
			return r.remote.UpdateArticle(ctx, *p.ShopifyArticleID, input)
		})
	}
	if err != nil {
		return err
	}

	if err := r.posts.SetSynced(ctx, p.ID, articleID); err != nil {
		return fmt.Errorf("failed to record sync result: %w", err)
	}
	r.logger.Info("記事を同期しました",
		slog.String("slug", p.Slug), slog.String("article_id", articleID))
	return nil
}

// ensureCategorySynced はカテゴリの remote id を返し、未同期なら同期してから返します。
func (r *Reconciler) ensureCategorySynced(ctx context.Context, categoryID uuid.UUID) (string, error) {
	category, err := r.categories.GetByID(ctx, categoryID)
	if err != nil {
		return "", fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return "", fmt.Errorf("category not found: %s", categoryID)
	}
	if category.ShopifyBlogGID != nil {
		return *category.ShopifyBlogGID, nil
	}

	r.logger.Info("未同期のカテゴリを先に同期します", slog.String("slug", category.Slug))
	if err := r.syncCategory(ctx, category); err != nil {
		return "", err
	}
	if category.ShopifyBlogGID == nil {
		return "", fmt.Errorf("category sync did not record a remote id")
	}
	return *category.ShopifyBlogGID, nil
}

// syncCategory は1カテゴリをリモートへ push し、成功時に bookkeeping を更新します。
// 成功時は引数のカテゴリにも remote id を反映します。
func (r *Reconciler) syncCategory(ctx context.Context, c *models.Category) error {
	input := BlogInput{Title: c.Name, Handle: c.Slug}

	var blogGID string
	var err error
	if c.ShopifyBlogGID == nil {
		blogGID, err = r.callRemote(ctx, func(ctx context.Context) (string, error) {
			return r.remote.CreateBlog(ctx, input)
		})
	} else {
		blogGID, err = r.callRemote(ctx, func(ctx context.Context) (string, error) {
			return r.remote.UpdateBlog(ctx, *c.ShopifyBlogGID, input)
		})
	}
	if err != nil {
		return err
	}

	if err := r.categories.SetSynced(ctx, c.ID, blogGID); err != nil {
		return fmt.Errorf("failed to record sync result: %w", err)
	}
	c.ShopifyBlogGID = &blogGID
	now := time.Now()
	c.ShopifySyncedAt = &now

	r.logger.Info("カテゴリを同期しました",
		slog.String("slug", c.Slug), slog.String("blog_gid", blogGID))
	return nil
}

// buildArticleInput は記事のリモートペイロードを組み立てます。
func (r *Reconciler) buildArticleInput(ctx context.Context, p *models.Post, blogGID string) (ArticleInput, error) {
	authorName := r.defaultAuthor
	if author, err := r.authors.Get(ctx, p.AuthorID); err == nil && author != nil {
		authorName = author.Name
	}

	tags, err := r.tags.NamesForPost(ctx, p.ID)
	if err != nil {
		return ArticleInput{}, fmt.Errorf("failed to get post tags: %w", err)
	}

	input := ArticleInput{
		BlogID:    blogGID,
		Title:     p.Title,
		Handle:    p.Slug,
		Author:    authorName,
		BodyHTML:  RenderBlocksHTML(p.Content),
		Summary:   p.Excerpt,
		Tags:      tags,
		Published: p.Status == models.PostStatusPublished,
	}
	if p.FeaturedImage != nil {
		input.ImageSrc = *p.FeaturedImage
	}
	if p.FeaturedImageAlt != nil {
		input.ImageAlt = *p.FeaturedImageAlt
	}
	return input, nil
}

// callRemote はリモート呼び出しをレート制限時のみ指数的な待機付きで再試行します。
func (r *Reconciler) callRemote(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	var lastErr error
	delay := rateLimitBaseDelay
	for attempt := 1; attempt <= rateLimitMaxAttempts; attempt++ {
		id, err := call(ctx)
		if err == nil {
			return id, nil
		}
		lastErr = err
		if !IsRateLimit(err) {
			return "", err
		}
		if attempt == rateLimitMaxAttempts {
			break
		}
		r.logger.Warn("レート制限を受けたため待機して再試行します",
			slog.Int("attempt", attempt), slog.Duration("delay", delay))
		if err := r.sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}
	return "", lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
