package shopsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jinford/blog-agent/pkg/models"
)

func TestRenderBlocksHTML(t *testing.T) {
	blocks := []models.ContentBlock{
		{ID: "1", Type: "heading", Data: map[string]any{"level": float64(2), "text": "Getting Started"}},
		{ID: "2", Type: "paragraph", Data: map[string]any{"text": "Hello <world>"}},
		{ID: "3", Type: "list", Data: map[string]any{"style": "ordered", "items": []any{"one", "two"}}},
		{ID: "4", Type: "quote", Data: map[string]any{"text": "Keep it simple"}},
		{ID: "5", Type: "divider", Data: map[string]any{}},
		{ID: "6", Type: "code", Data: map[string]any{"code": "fmt.Println(\"hi\")"}},
	}

	out := RenderBlocksHTML(blocks)

	assert.Contains(t, out, "<h2>Getting Started</h2>")
	assert.Contains(t, out, "<p>Hello &lt;world&gt;</p>")
	assert.Contains(t, out, "<ol>")
	assert.Contains(t, out, "<li>one</li>")
	assert.Contains(t, out, "<blockquote>Keep it simple</blockquote>")
	assert.Contains(t, out, "<hr />")
	assert.Contains(t, out, "<pre><code>fmt.Println(&#34;hi&#34;)</code></pre>")
}

func TestRenderBlocksHTML_UnknownTypeFallsBackToText(t *testing.T) {
	blocks := []models.ContentBlock{
		{ID: "1", Type: "callout", Data: map[string]any{"text": "Note this"}},
		{ID: "2", Type: "stats", Data: map[string]any{"text": "42% improvement"}},
		{ID: "3", Type: "video", Data: map[string]any{"url": "https://example.com/v.mp4"}},
	}

	out := RenderBlocksHTML(blocks)

	assert.Contains(t, out, "<aside>Note this</aside>")
	assert.Contains(t, out, "<p>42% improvement</p>")
	assert.NotContains(t, out, "v.mp4", "blocks without text data are dropped")
}

func TestRenderBlocksHTML_Empty(t *testing.T) {
	assert.Equal(t, "", RenderBlocksHTML(nil))
}
