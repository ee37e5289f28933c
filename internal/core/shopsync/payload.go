package shopsync

import (
	"fmt"
	"html"
	"strings"

	"github.com/jinford/blog-agent/pkg/models"
)

// RenderBlocksHTML は構造化ブロックをリモート CMS 向けの HTML に変換します。
// 未知のブロック型は text データがあれば段落として描画し、なければ無視します。
func RenderBlocksHTML(blocks []models.ContentBlock) string {
	var b strings.Builder
	for _, block := range blocks {
		switch block.Type {
		case "paragraph":
			if text := stringData(block, "text"); text != "" {
				fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(text))
			}
		case "heading":
			level := intData(block, "level")
			if level < 1 || level > 6 {
				level = 2
			}
			if text := stringData(block, "text"); text != "" {
				fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(text), level)
			}
		case "list":
			items := sliceData(block, "items")
			if len(items) == 0 {
				continue
			}
			tag := "ul"
			if stringData(block, "style") == "ordered" {
				tag = "ol"
			}
			fmt.Fprintf(&b, "<%s>\n", tag)
			for _, item := range items {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
			}
			fmt.Fprintf(&b, "</%s>\n", tag)
		case "quote":
			if text := stringData(block, "text"); text != "" {
				fmt.Fprintf(&b, "<blockquote>%s</blockquote>\n", html.EscapeString(text))
			}
		case "code":
			if code := stringData(block, "code"); code != "" {
				fmt.Fprintf(&b, "<pre><code>%s</code></pre>\n", html.EscapeString(code))
			}
		case "image":
			url := stringData(block, "url")
			if url == "" {
				continue
			}
			alt := stringData(block, "alt")
			fmt.Fprintf(&b, "<img src=%q alt=%q />\n", url, alt)
			if caption := stringData(block, "caption"); caption != "" {
				fmt.Fprintf(&b, "<figcaption>%s</figcaption>\n", html.EscapeString(caption))
			}
		case "divider":
			b.WriteString("<hr />\n")
		case "callout":
			if text := stringData(block, "text"); text != "" {
				fmt.Fprintf(&b, "<aside>%s</aside>\n", html.EscapeString(text))
			}
		default:
			if text := stringData(block, "text"); text != "" {
				fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(text))
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stringData(block models.ContentBlock, key string) string {
	v, _ := block.Data[key].(string)
	return v
}

func intData(block models.ContentBlock, key string) int {
	switch v := block.Data[key].(type) {
	case int:
		return v
	case float64:
		// JSON 経由だと数値は float64 になる
		return int(v)
	}
	return 0
}

func sliceData(block models.ContentBlock, key string) []string {
	raw, ok := block.Data[key].([]any)
	if !ok {
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			items = append(items, s)
		}
	}
	return items
}
