package agent

import (
	"context"
	"encoding/json"
)

// Role は会話メッセージの発話者種別です。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// StopReason は LLM が応答を打ち切った理由です。
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopToolUse StopReason = "tool_use"
)

// ToolCall は LLM が要求した単一のツール呼び出しです。
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// Message はエージェントと LLM の間でやり取りされる会話メッセージです。
// RoleTool の場合は ToolCallID で対応する呼び出しを参照します。
type Message struct {
	Role       Role
	Text       string
	ToolCalls  []ToolCall
	ToolCallID string
	IsError    bool
}

// Completion は LLM からの1ターン分の応答です。
type Completion struct {
	StopReason StopReason
	Text       string
	ToolCalls  []ToolCall
	TokensUsed int
}

// LLMClient はツール呼び出し対応のチャット補完を抽象化します。
type LLMClient interface {
	Complete(ctx context.Context, system string, tools []Tool, messages []Message) (*Completion, error)
}
