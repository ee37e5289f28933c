package agenttools

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/internal/core/agent"
	"github.com/jinford/blog-agent/pkg/models"
)

// WriteTools は記事・カテゴリ・タグの作成系ツールを組み立てます。
func WriteTools(posts PostWriter, taxonomy TaxonomyWriter) []agent.Tool {
	return []agent.Tool{
		createBlogPostTool(posts),
		{
			Name:        "create_category",
			Description: "Create a new blog category. Only use when no existing category fits (check get_blog_context first).",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slug":        map[string]any{"type": "string", "description": "URL-friendly slug"},
					"name":        map[string]any{"type": "string", "description": "Display name"},
					"description": map[string]any{"type": "string", "description": "Short description (optional)"},
				},
				"required": []string{"slug", "name"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					Slug        string `json:"slug"`
					Name        string `json:"name"`
					Description string `json:"description"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				if args.Slug == "" || args.Name == "" {
					return agent.ErrorResult("slug and name are required")
				}
				newCategory := models.NewCategory{Slug: args.Slug, Name: args.Name}
				if args.Description != "" {
					newCategory.Description = &args.Description
				}
				category, err := taxonomy.CreateCategory(ctx, newCategory)
				if err != nil {
					return agent.ErrorResult("Error creating category: %v", err)
				}
				return agent.TextResult("Created category: %s (%s)", category.ID, category.Slug)
			},
		},
		{
			Name:        "create_tag",
			Description: "Create a new blog tag. Only use when no existing tag fits.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slug": map[string]any{"type": "string", "description": "URL-friendly slug"},
					"name": map[string]any{"type": "string", "description": "Display name"},
				},
				"required": []string{"slug", "name"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					Slug string `json:"slug"`
					Name string `json:"name"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				if args.Slug == "" || args.Name == "" {
					return agent.ErrorResult("slug and name are required")
				}
				tag, err := taxonomy.CreateTag(ctx, models.NewTag{Slug: args.Slug, Name: args.Name})
				if err != nil {
					return agent.ErrorResult("Error creating tag: %v", err)
				}
				return agent.TextResult("Created tag: %s (%s)", tag.ID, tag.Slug)
			},
		},
		{
			Name:        "link_tags_to_post",
			Description: "Link existing tags to a post by their IDs.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post_id": map[string]any{"type": "string", "description": "UUID of the post"},
					"tag_ids": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "UUIDs of the tags to link",
					},
				},
				"required": []string{"post_id", "tag_ids"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					PostID string   `json:"post_id"`
					TagIDs []string `json:"tag_ids"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				postID, err := uuid.Parse(args.PostID)
				if err != nil {
					return agent.ErrorResult("Invalid post_id: %v", err)
				}
				tagIDs, err := parseUUIDs(args.TagIDs)
				if err != nil {
					return agent.ErrorResult("Invalid tag_ids: %v", err)
				}
				if err := posts.LinkTags(ctx, postID, tagIDs); err != nil {
					return agent.ErrorResult("Error linking tags: %v", err)
				}
				return agent.TextResult("Linked %d tag(s) to post %s", len(tagIDs), postID)
			},
		},
		{
			Name:        "set_featured_image",
			Description: "Set a post's featured image URL and alt text. Use the URL returned by generate_featured_image.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post_id":   map[string]any{"type": "string", "description": "UUID of the post"},
					"image_url": map[string]any{"type": "string", "description": "Public URL of the image"},
					"alt_text":  map[string]any{"type": "string", "description": "Descriptive alt text"},
				},
				"required": []string{"post_id", "image_url", "alt_text"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					PostID   string `json:"post_id"`
					ImageURL string `json:"image_url"`
					AltText  string `json:"alt_text"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				postID, err := uuid.Parse(args.PostID)
				if err != nil {
					return agent.ErrorResult("Invalid post_id: %v", err)
				}
				if args.ImageURL == "" {
					return agent.ErrorResult("image_url is required")
				}
				if err := posts.SetPostImage(ctx, postID, args.ImageURL, args.AltText); err != nil {
					return agent.ErrorResult("Error setting featured image: %v", err)
				}
				return agent.TextResult("Featured image set on post %s", postID)
			},
		},
		{
			Name:        "update_post_status",
			Description: "Update a post's status (draft, published, archived).",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"post_id": map[string]any{"type": "string", "description": "UUID of the post"},
					"status":  map[string]any{"type": "string", "enum": []string{"draft", "published", "archived"}},
				},
				"required": []string{"post_id", "status"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					PostID string `json:"post_id"`
					Status string `json:"status"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				postID, err := uuid.Parse(args.PostID)
				if err != nil {
					return agent.ErrorResult("Invalid post_id: %v", err)
				}
				if !models.ValidPostStatus(args.Status) {
					return agent.ErrorResult("Invalid status: %s", args.Status)
				}
				if err := posts.UpdatePostStatus(ctx, postID, models.PostStatus(args.Status)); err != nil {
					return agent.ErrorResult("Error updating status: %v", err)
				}
				return agent.TextResult("Updated post %s to %s", postID, args.Status)
			},
		},
	}
}

func createBlogPostTool(posts PostWriter) agent.Tool {
	return agent.Tool{
		Name: "create_blog_post",
		Description: `Create a new blog post.

IMPORTANT: Before calling this tool:
1. Call get_blog_context to know existing categories, tags, and authors
2. Check the slug doesn't exist with check_slug_exists
3. Get author_id from the context (use an existing author)
4. Get category_id from the context (use an existing category when appropriate)

Content must be an array of content blocks, each with id, type, and data.
Supported types include: paragraph, heading, quote, list, code, image, callout, divider.
Pass tag_ids to link tags in the same call.`,
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"slug":    map[string]any{"type": "string", "description": "URL-friendly slug (lowercase, hyphens, no spaces)"},
				"title":   map[string]any{"type": "string", "description": "Post title"},
				"excerpt": map[string]any{"type": "string", "description": "Short description (2-3 sentences) for previews and SEO"},
				"content": map[string]any{
					"type":        "array",
					"description": "Array of content blocks",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":   map[string]any{"type": "string"},
							"type": map[string]any{"type": "string"},
							"data": map[string]any{"type": "object"},
						},
						"required": []string{"id", "type", "data"},
					},
				},
				"author_id":   map[string]any{"type": "string", "description": "UUID of the author"},
				"category_id": map[string]any{"type": "string", "description": "UUID of the category (optional)"},
				"tag_ids": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "UUIDs of tags to link (optional)",
				},
				"seo": map[string]any{
					"type":        "object",
					"description": "SEO metadata: title, description (optional)",
				},
				"status": map[string]any{"type": "string", "enum": []string{"draft", "published"}},
			},
			"required": []string{"slug", "title", "excerpt", "content", "author_id"},
		},
		Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
			var args struct {
				Slug       string                `json:"slug"`
				Title      string                `json:"title"`
				Excerpt    string                `json:"excerpt"`
				Content    []models.ContentBlock `json:"content"`
				AuthorID   string                `json:"author_id"`
				CategoryID string                `json:"category_id"`
				TagIDs     []string              `json:"tag_ids"`
				SEO        json.RawMessage       `json:"seo"`
				Status     string                `json:"status"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return agent.ErrorResult("Invalid input: %v", err)
			}
			if args.Slug == "" || args.Title == "" || len(args.Content) == 0 {
				return agent.ErrorResult("slug, title, and content are required")
			}
			authorID, err := uuid.Parse(args.AuthorID)
			if err != nil {
				return agent.ErrorResult("Invalid author_id: %v", err)
			}

			status := models.PostStatusDraft
			if args.Status != "" {
				if !models.ValidPostStatus(args.Status) {
					return agent.ErrorResult("Invalid status: %s", args.Status)
				}
				status = models.PostStatus(args.Status)
			}

			readingTime := models.EstimateReadingTime(args.Content)
			newPost := models.NewPost{
				Slug:        args.Slug,
				Title:       args.Title,
				Excerpt:     args.Excerpt,
				Content:     args.Content,
				AuthorID:    authorID,
				ReadingTime: &readingTime,
				SEO:         args.SEO,
				Status:      status,
			}
			if args.CategoryID != "" {
				categoryID, err := uuid.Parse(args.CategoryID)
				if err != nil {
					return agent.ErrorResult("Invalid category_id: %v", err)
				}
				newPost.CategoryID = &categoryID
			}

			post, err := posts.CreatePost(ctx, newPost)
			if err != nil {
				return agent.ErrorResult("Error creating post: %v", err)
			}

			if len(args.TagIDs) > 0 {
				tagIDs, err := parseUUIDs(args.TagIDs)
				if err != nil {
					return agent.ErrorResult("Post created (%s) but tag_ids are invalid: %v", post.ID, err)
				}
				if err := posts.LinkTags(ctx, post.ID, tagIDs); err != nil {
					return agent.ErrorResult("Post created (%s) but linking tags failed: %v", post.ID, err)
				}
			}

			return agent.Result{
				Text: "Created: " + post.ID.String() + " (" + post.Slug + ")",
				Data: map[string]string{agent.DataKeyPostID: post.ID.String()},
			}
		},
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
