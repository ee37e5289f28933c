package shopsync

import (
	"context"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/pkg/models"
)

// BlogInput はリモート CMS の Blog（カテゴリに対応）作成・更新のペイロードです。
type BlogInput struct {
	Title  string
	Handle string
}

// ArticleInput はリモート CMS の Article（記事に対応）作成・更新のペイロードです。
type ArticleInput struct {
	BlogID    string
	Title     string
	Handle    string
	Author    string
	BodyHTML  string
	Summary   string
	Tags      []string
	Published bool
	ImageSrc  string
	ImageAlt  string
}

// RemoteCMS はリモート同期先を抽象化します。
// 失敗は *RemoteError として分類付きで返すことを要求します。
type RemoteCMS interface {
	CreateBlog(ctx context.Context, input BlogInput) (string, error)
	UpdateBlog(ctx context.Context, id string, input BlogInput) (string, error)
	CreateArticle(ctx context.Context, input ArticleInput) (string, error)
	UpdateArticle(ctx context.Context, id string, input ArticleInput) (string, error)
}

// PostStore は同期対象の記事を読み書きするストアの抽象です。
// Get 系は見つからない場合 (nil, nil) を返します。
type PostStore interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListRecent(ctx context.Context, n int) ([]*models.Post, error)
	// SetSynced は remote id と last_synced_at を記録し、直前のエラーをクリアします。
	SetSynced(ctx context.Context, postID uuid.UUID, articleID string) error
	SetSyncError(ctx context.Context, postID uuid.UUID, message string) error
}

// CategoryStore は同期対象のカテゴリを読み書きするストアの抽象です。
type CategoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SetSynced(ctx context.Context, categoryID uuid.UUID, blogGID string) error
}

// AuthorStore は記事の著者名を引くためのストアの抽象です。
type AuthorStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Author, error)
}

// TagStore は記事に付与されたタグ名を引くためのストアの抽象です。
type TagStore interface {
	NamesForPost(ctx context.Context, postID uuid.UUID) ([]string, error)
}
