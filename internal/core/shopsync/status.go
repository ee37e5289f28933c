package shopsync

import (
	"context"
	"fmt"

	"github.com/jinford/blog-agent/pkg/models"
)

// SyncState は表示用の同期状態ラベルです。
type SyncState string

const (
	SyncStateSynced    SyncState = "SYNCED"
	SyncStateStale     SyncState = "STALE"
	SyncStateNotSynced SyncState = "NOT SYNCED"
	SyncStateError     SyncState = "ERROR"
)

// PostSyncState は記事の同期状態と補足情報を返します。
func PostSyncState(p *models.Post) (SyncState, string) {
	if p.ShopifySyncError != nil && *p.ShopifySyncError != "" {
		detail := *p.ShopifySyncError
		if runes := []rune(detail); len(runes) > 30 {
			detail = string(runes[:30])
		}
		return SyncStateError, detail
	}
	if p.ShopifyArticleID == nil {
		return SyncStateNotSynced, ""
	}
	if NeedsSync(p) {
		return SyncStateStale, ""
	}
	return SyncStateSynced, ""
}

// CategorySyncState はカテゴリの同期状態を返します。
func CategorySyncState(c *models.Category) SyncState {
	if c.ShopifyBlogGID == nil {
		return SyncStateNotSynced
	}
	if CategoryNeedsSync(c) {
		return SyncStateStale
	}
	return SyncStateSynced
}

// StatusRow は同期状態一覧の1行です。
type StatusRow struct {
	Title    string
	Slug     string
	State    SyncState
	Detail   string
	SyncedAt string
}

// PostStatusRows は全記事の同期状態一覧を組み立てます。
func (r *Reconciler) PostStatusRows(ctx context.Context) ([]StatusRow, error) {
	posts, err := r.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	rows := make([]StatusRow, 0, len(posts))
	for _, p := range posts {
		state, detail := PostSyncState(p)
		row := StatusRow{Title: p.Title, Slug: p.Slug, State: state, Detail: detail}
		if p.ShopifySyncedAt != nil {
			row.SyncedAt = p.ShopifySyncedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CategoryStatusRows は全カテゴリの同期状態一覧を組み立てます。
func (r *Reconciler) CategoryStatusRows(ctx context.Context) ([]StatusRow, error) {
	categories, err := r.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	rows := make([]StatusRow, 0, len(categories))
	for _, c := range categories {
		row := StatusRow{Title: c.Name, Slug: c.Slug, State: CategorySyncState(c)}
		if c.ShopifySyncedAt != nil {
			row.SyncedAt = c.ShopifySyncedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, row)
	}
	return rows, nil
}
