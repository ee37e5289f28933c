package agenttools

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/blog-agent/internal/core/agent"
	"github.com/jinford/blog-agent/internal/core/queue"
	"github.com/jinford/blog-agent/pkg/models"
)

type stubReader struct {
	slugs map[string]bool
}

func (s *stubReader) BlogContext(ctx context.Context) (*models.BlogContext, error) {
	return &models.BlogContext{}, nil
}

func (s *stubReader) SamplePost(ctx context.Context) (*models.Post, error) {
	return nil, nil
}

func (s *stubReader) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.slugs[slug], nil
}

type stubPostWriter struct {
	created     []models.NewPost
	linked      map[uuid.UUID][]uuid.UUID
	createError error
}

func (s *stubPostWriter) CreatePost(ctx context.Context, input models.NewPost) (*models.Post, error) {
	if s.createError != nil {
		return nil, s.createError
	}
	s.created = append(s.created, input)
	return &models.Post{ID: uuid.New(), Slug: input.Slug, Title: input.Title}, nil
}

func (s *stubPostWriter) LinkTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if s.linked == nil {
		s.linked = map[uuid.UUID][]uuid.UUID{}
	}
	s.linked[postID] = tagIDs
	return nil
}

func (s *stubPostWriter) UpdatePostStatus(ctx context.Context, postID uuid.UUID, status models.PostStatus) error {
	return nil
}

func (s *stubPostWriter) SetPostImage(ctx context.Context, postID uuid.UUID, imageURL, altText string) error {
	return nil
}

type stubTaxonomy struct{}

func (s *stubTaxonomy) CreateCategory(ctx context.Context, input models.NewCategory) (*models.Category, error) {
	return &models.Category{ID: uuid.New(), Slug: input.Slug, Name: input.Name}, nil
}

func (s *stubTaxonomy) CreateTag(ctx context.Context, input models.NewTag) (*models.Tag, error) {
	return &models.Tag{ID: uuid.New(), Slug: input.Slug, Name: input.Name}, nil
}

type stubIdeaQueue struct {
	idea      *models.Idea
	completed []uuid.UUID
}

func (s *stubIdeaQueue) ClaimNext(ctx context.Context) (*models.Idea, error) {
	if s.idea == nil {
		return nil, queue.ErrNoPendingIdeas
	}
	return s.idea, nil
}

func (s *stubIdeaQueue) Complete(ctx context.Context, ideaID, postID uuid.UUID) error {
	s.completed = append(s.completed, ideaID)
	return nil
}

func (s *stubIdeaQueue) Fail(ctx context.Context, ideaID uuid.UUID, reason string) error { return nil }
func (s *stubIdeaQueue) Skip(ctx context.Context, ideaID uuid.UUID, reason string) error { return nil }

func (s *stubIdeaQueue) Status(ctx context.Context) (*models.QueueStatus, error) {
	return &models.QueueStatus{Counts: map[models.IdeaStatus]int{models.IdeaStatusPending: 1}}, nil
}

func findTool(t *testing.T, tools []agent.Tool, name string) agent.Tool {
	t.Helper()
	for _, tool := range tools {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool not found: %s", name)
	return agent.Tool{}
}

func TestCreateBlogPost(t *testing.T) {
	writer := &stubPostWriter{}
	tool := findTool(t, WriteTools(writer, &stubTaxonomy{}), "create_blog_post")
	authorID := uuid.New()
	tagID := uuid.New()

	input, _ := json.Marshal(map[string]any{
		"slug":    "my-first-post",
		"title":   "My First Post",
		"excerpt": "A short intro.",
		"content": []map[string]any{
			{"id": "b1", "type": "paragraph", "data": map[string]any{"text": "Hello."}},
		},
		"author_id": authorID.String(),
		"tag_ids":   []string{tagID.String()},
	})

	result := tool.Handler(context.Background(), input)
	require.False(t, result.IsError, result.Text)
	assert.Contains(t, result.Text, "Created:")
	assert.NotEmpty(t, result.Data[agent.DataKeyPostID])

	require.Len(t, writer.created, 1)
	assert.Equal(t, models.PostStatusDraft, writer.created[0].Status)
	require.NotNil(t, writer.created[0].ReadingTime)
	assert.Len(t, writer.linked, 1)
}

func TestCreateBlogPost_MissingFields(t *testing.T) {
	tool := findTool(t, WriteTools(&stubPostWriter{}, &stubTaxonomy{}), "create_blog_post")

	result := tool.Handler(context.Background(), json.RawMessage(`{"slug": "only-a-slug"}`))
	assert.True(t, result.IsError)
}

func TestCreateBlogPost_StoreErrorIsToolError(t *testing.T) {
	writer := &stubPostWriter{createError: fmt.Errorf("duplicate key value violates unique constraint")}
	tool := findTool(t, WriteTools(writer, &stubTaxonomy{}), "create_blog_post")
	input, _ := json.Marshal(map[string]any{
		"slug":    "dup",
		"title":   "Dup",
		"excerpt": "x",
		"content": []map[string]any{
			{"id": "b1", "type": "paragraph", "data": map[string]any{"text": "Hello."}},
		},
		"author_id": uuid.New().String(),
	})

	result := tool.Handler(context.Background(), input)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Text, "duplicate key")
}

func TestCheckSlugExists(t *testing.T) {
	reader := &stubReader{slugs: map[string]bool{"taken": true}}
	tool := findTool(t, ContextTools(reader), "check_slug_exists")

	result := tool.Handler(context.Background(), json.RawMessage(`{"slug": "taken"}`))
	assert.Contains(t, result.Text, "already taken")

	result = tool.Handler(context.Background(), json.RawMessage(`{"slug": "free"}`))
	assert.Contains(t, result.Text, "available")
}

func TestGetAndClaimBlogIdea(t *testing.T) {
	idea := &models.Idea{ID: uuid.New(), Topic: "Putter grips", Attempts: 1}
	ideas := &stubIdeaQueue{idea: idea}
	tool := findTool(t, IdeaTools(ideas), "get_and_claim_blog_idea")

	result := tool.Handler(context.Background(), json.RawMessage(`{}`))
	require.False(t, result.IsError)
	assert.Contains(t, result.Text, "Putter grips")
	assert.Equal(t, idea.ID.String(), result.Data[agent.DataKeyIdeaID])
}

func TestGetAndClaimBlogIdea_EmptyQueueIsNotAnError(t *testing.T) {
	tool := findTool(t, IdeaTools(&stubIdeaQueue{}), "get_and_claim_blog_idea")

	result := tool.Handler(context.Background(), json.RawMessage(`{}`))
	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "empty")
}

func TestCompleteBlogIdea_CarriesTerminalOutcome(t *testing.T) {
	ideas := &stubIdeaQueue{}
	tool := findTool(t, IdeaTools(ideas), "complete_blog_idea")
	ideaID := uuid.New()
	postID := uuid.New()

	input, _ := json.Marshal(map[string]string{
		"idea_id":      ideaID.String(),
		"blog_post_id": postID.String(),
	})
	result := tool.Handler(context.Background(), input)

	require.False(t, result.IsError)
	assert.Equal(t, string(agent.OutcomeCompleted), result.Data[agent.DataKeyOutcome])
	assert.Equal(t, postID.String(), result.Data[agent.DataKeyPostID])
	assert.Equal(t, []uuid.UUID{ideaID}, ideas.completed)
}

func TestBuildRegistry_ManualModeExcludesIdeaTools(t *testing.T) {
	deps := Deps{
		Reader:   &stubReader{},
		Posts:    &stubPostWriter{},
		Taxonomy: &stubTaxonomy{},
		Ideas:    &stubIdeaQueue{},
	}

	manual := BuildRegistry(deps, false)
	for _, tool := range manual.Tools() {
		assert.NotContains(t, tool.Name, "idea")
	}

	autonomous := BuildRegistry(deps, true)
	names := make(map[string]bool)
	for _, tool := range autonomous.Tools() {
		names[tool.Name] = true
	}
	assert.True(t, names["get_and_claim_blog_idea"])
	assert.True(t, names["complete_blog_idea"])
	assert.True(t, names["fail_blog_idea"])
	assert.True(t, names["skip_blog_idea"])
}
