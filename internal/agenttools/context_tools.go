package agenttools

import (
	"context"
	"encoding/json"

	"github.com/jinford/blog-agent/internal/core/agent"
)

// ContextTools は既存コンテンツ参照系のツールを組み立てます。
func ContextTools(reader ContextReader) []agent.Tool {
	return []agent.Tool{
		{
			Name: "get_blog_context",
			Description: `Get the current blog context: existing categories, tags, authors, and recent post titles.
Always call this before creating a post so you can reuse existing categories and tags and avoid duplicate topics.`,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				blogCtx, err := reader.BlogContext(ctx)
				if err != nil {
					return agent.ErrorResult("Error getting blog context: %v", err)
				}
				raw, err := json.MarshalIndent(blogCtx, "", "  ")
				if err != nil {
					return agent.ErrorResult("Error encoding blog context: %v", err)
				}
				return agent.Result{Text: string(raw)}
			},
		},
		{
			Name: "get_sample_post",
			Description: `Get one existing post as a structural example of the content block format.
Use this to match the structure and depth of existing content.`,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				post, err := reader.SamplePost(ctx)
				if err != nil {
					return agent.ErrorResult("Error getting sample post: %v", err)
				}
				if post == nil {
					return agent.TextResult("No posts exist yet. Structure your content blocks from scratch.")
				}
				raw, err := json.MarshalIndent(post.Content, "", "  ")
				if err != nil {
					return agent.ErrorResult("Error encoding sample post: %v", err)
				}
				return agent.TextResult("Title: %s\nSlug: %s\nContent blocks:\n%s", post.Title, post.Slug, string(raw))
			},
		},
		{
			Name:        "check_slug_exists",
			Description: "Check whether a post slug is already taken. Always call this before create_blog_post.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slug": map[string]any{
						"type":        "string",
						"description": "The slug to check, e.g. 'how-to-fix-your-slice'",
					},
				},
				"required": []string{"slug"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					Slug string `json:"slug"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				if args.Slug == "" {
					return agent.ErrorResult("slug is required")
				}
				exists, err := reader.SlugExists(ctx, args.Slug)
				if err != nil {
					return agent.ErrorResult("Error checking slug: %v", err)
				}
				if exists {
					return agent.TextResult("Slug '%s' is already taken. Choose a different slug.", args.Slug)
				}
				return agent.TextResult("Slug '%s' is available.", args.Slug)
			},
		},
	}
}
