package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/blog-agent/pkg/models"
)

type stubGenerator struct {
	failFor map[string]bool
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if g.failFor[prompt] {
		return nil, fmt.Errorf("model refused")
	}
	return []byte("png-bytes"), nil
}

type stubUploader struct {
	uploads []string
}

func (u *stubUploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	u.uploads = append(u.uploads, path)
	return "https://storage.example.com/public/blog-images/" + path, nil
}

type stubImagePostStore struct {
	posts      []*models.Post
	categories map[uuid.UUID]*models.Category
	images     map[uuid.UUID]string
}

func (s *stubImagePostStore) ListPostsWithoutImages(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit > len(s.posts) {
		limit = len(s.posts)
	}
	return s.posts[:limit], nil
}

func (s *stubImagePostStore) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.categories[id], nil
}

func (s *stubImagePostStore) SetPostImage(ctx context.Context, postID uuid.UUID, imageURL, altText string) error {
	s.images[postID] = imageURL
	return nil
}

func TestScenePrompt_StripsArticleWords(t *testing.T) {
	prompt := ScenePrompt("How to Fix Your Slice: Complete Guide", "")
	assert.NotContains(t, prompt, "how to")
	assert.NotContains(t, prompt, "guide")
	assert.Contains(t, prompt, "fix your slice")
	assert.Contains(t, prompt, "cinematic composition")
}

func TestScenePrompt_FallsBackToExcerpt(t *testing.T) {
	prompt := ScenePrompt("Tips", "Choosing the right putter grip matters more than you think.")
	assert.Contains(t, prompt, "Choosing the right putter grip")
}

func TestScenePrompt_LongMultibyteExcerpt(t *testing.T) {
	prompt := ScenePrompt("Tips", strings.Repeat("正しいパターの選び方。", 20))
	assert.True(t, utf8.ValidString(prompt))
}

func TestBackfill(t *testing.T) {
	categoryID := uuid.New()
	ok := &models.Post{ID: uuid.New(), Slug: "good-post", Title: "Good Post", CategoryID: &categoryID}
	bad := &models.Post{ID: uuid.New(), Slug: "bad-post", Title: "Bad Post"}

	store := &stubImagePostStore{
		posts: []*models.Post{ok, bad},
		categories: map[uuid.UUID]*models.Category{
			categoryID: {ID: categoryID, Slug: "drills"},
		},
		images: map[uuid.UUID]string{},
	}
	generator := &stubGenerator{failFor: map[string]bool{ScenePrompt("Bad Post", ""): true}}
	uploader := &stubUploader{}
	svc := NewService(generator, uploader, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	report, err := svc.Backfill(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	// カテゴリ slug がストレージパスの名前空間になる
	require.Len(t, uploader.uploads, 1)
	assert.Equal(t, "drills/good-post.png", uploader.uploads[0])
	assert.Contains(t, store.images[ok.ID], "drills/good-post.png")
}

func TestBackfill_RespectsLimit(t *testing.T) {
	store := &stubImagePostStore{
		posts: []*models.Post{
			{ID: uuid.New(), Slug: "a", Title: "A"},
			{ID: uuid.New(), Slug: "b", Title: "B"},
		},
		categories: map[uuid.UUID]*models.Category{},
		images:     map[uuid.UUID]string{},
	}
	svc := NewService(&stubGenerator{}, &stubUploader{}, store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	report, err := svc.Backfill(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
}
