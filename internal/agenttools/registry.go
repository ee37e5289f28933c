package agenttools

import "github.com/jinford/blog-agent/internal/core/agent"

// Deps はツール群の依存をまとめたものです。Images は任意です。
type Deps struct {
	Reader   ContextReader
	Posts    PostWriter
	Taxonomy TaxonomyWriter
	Ideas    IdeaQueue
	Images   ImageMaker
}

// BuildRegistry はモードに応じたツールレジストリを組み立てます。
// 手動モード（トピック指定）ではキュー系ツールを含めません。
func BuildRegistry(deps Deps, includeIdeaTools bool) *agent.Registry {
	registry := agent.NewRegistry()
	for _, t := range ContextTools(deps.Reader) {
		registry.Register(t)
	}
	for _, t := range WriteTools(deps.Posts, deps.Taxonomy) {
		registry.Register(t)
	}
	if includeIdeaTools && deps.Ideas != nil {
		for _, t := range IdeaTools(deps.Ideas) {
			registry.Register(t)
		}
	}
	if deps.Images != nil {
		for _, t := range ImageTools(deps.Images) {
			registry.Register(t)
		}
	}
	return registry
}
