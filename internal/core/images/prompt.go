package images

import "strings"

// 記事タイトル特有の定型句。画像プロンプトに残すとモデルが文字を描画しがちなので除去します。
var cleanupWords = []string{
	"complete guide", "guide to", "how to", "what is", "what are",
	"explained", "tips", "tricks", "best", "top", "ultimate",
	": complete", "- complete", "for beginners", "for experts",
}

// ScenePrompt は記事タイトルから情景描写ベースの画像プロンプトを組み立てます。
// タイトルの定型句を除去し、残った主題を写真のシーンとして記述します。
func ScenePrompt(title, excerpt string) string {
	scene := strings.ToLower(title)
	for _, word := range cleanupWords {
		scene = strings.ReplaceAll(scene, word, "")
	}
	scene = strings.Trim(strings.Join(strings.Fields(scene), " "), " :-")

	if scene != "" {
		return "A beautiful photograph depicting " + scene + ", cinematic composition, hero image style"
	}

	if runes := []rune(excerpt); len(runes) > 150 {
		excerpt = string(runes[:150])
	}
	return "A beautiful photograph related to: " + excerpt + ", cinematic composition"
}
