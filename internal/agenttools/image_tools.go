package agenttools

import (
	"context"
	"encoding/json"

	"github.com/jinford/blog-agent/internal/core/agent"
)

// ImageTools はアイキャッチ画像生成のツールを組み立てます。
// 画像生成が無効な構成では呼び出さないでください。
func ImageTools(maker ImageMaker) []agent.Tool {
	return []agent.Tool{
		{
			Name: "generate_featured_image",
			Description: `Generate a featured image for a post and upload it to storage.
Describe a visual scene related to the topic. Avoid words like "article", "blog", or "guide" in the prompt — they cause the model to render text.
Returns the public URL of the uploaded image.`,
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt":        map[string]any{"type": "string", "description": "Scene description for the image model"},
					"category_slug": map[string]any{"type": "string", "description": "Category slug, used as the storage folder"},
					"post_slug":     map[string]any{"type": "string", "description": "Post slug, used as the file name"},
				},
				"required": []string{"prompt", "category_slug", "post_slug"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					Prompt       string `json:"prompt"`
					CategorySlug string `json:"category_slug"`
					PostSlug     string `json:"post_slug"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				if args.Prompt == "" || args.CategorySlug == "" || args.PostSlug == "" {
					return agent.ErrorResult("prompt, category_slug, and post_slug are required")
				}
				url, err := maker.GenerateFor(ctx, args.CategorySlug, args.PostSlug, args.Prompt)
				if err != nil {
					return agent.ErrorResult("Error generating image: %v", err)
				}
				return agent.TextResult("Image generated.\nURL: %s", url)
			},
		},
	}
}
