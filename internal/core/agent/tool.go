package agent

import (
	"context"
	"encoding/json"
	"fmt"
)

// Result はツール実行の結果です。Text は LLM に返す本文、
// Data はランナーが解釈する構造化された副次情報（記録された ID など）を運びます。
type Result struct {
	Text    string
	IsError bool
	Data    map[string]string
}

// ErrorResult はエラーを表す Result を作ります。
func ErrorResult(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...), IsError: true}
}

// TextResult は正常終了の Result を作ります。
func TextResult(format string, args ...any) Result {
	return Result{Text: fmt.Sprintf(format, args...)}
}

// Handler はツールの実装本体です。input はツール呼び出しの JSON 引数です。
type Handler func(ctx context.Context, input json.RawMessage) Result

// Tool は LLM に公開する単一のツール定義です。
// InputSchema は JSON Schema をそのまま map で表現します。
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry はツール群を名前で引けるようにした集合です。
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry は与えられたツールを登録した Registry を作ります。
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register はツールを追加します。同名のツールは上書きします。
func (r *Registry) Register(t Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Tools は登録順のツール一覧を返します。
func (r *Registry) Tools() []Tool {
	result := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// Dispatch はツール呼び出しを実行します。
// 未登録のツール名はエラー Result として LLM に返します。
func (r *Registry) Dispatch(ctx context.Context, call ToolCall) Result {
	tool, ok := r.tools[call.Name]
	if !ok {
		return ErrorResult("unknown tool: %s", call.Name)
	}
	return tool.Handler(ctx, call.Input)
}
