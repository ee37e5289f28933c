package agent

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM は事前に用意した Completion を順番に返すスタブです。
type scriptedLLM struct {
	completions []*Completion
	calls       int
	received    [][]Message
}

func (s *scriptedLLM) Complete(ctx context.Context, system string, tools []Tool, messages []Message) (*Completion, error) {
	s.received = append(s.received, messages)
	if s.calls >= len(s.completions) {
		// スクリプトが尽きたらツール呼び出しを延々と続ける
		s.calls++
		return &Completion{
			StopReason: StopToolUse,
			ToolCalls:  []ToolCall{{ID: "loop", Name: "noop", Input: json.RawMessage(`{}`)}},
		}, nil
	}
	c := s.completions[s.calls]
	s.calls++
	return c, nil
}

func noopTool() Tool {
	return Tool{
		Name:        "noop",
		Description: "does nothing",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return TextResult("ok")
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_TerminatesOnTerminalTool(t *testing.T) {
	postID := uuid.New()
	ideaID := uuid.New()

	claimTool := Tool{
		Name:        "get_and_claim_blog_idea",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return Result{Text: "claimed", Data: map[string]string{DataKeyIdeaID: ideaID.String()}}
		},
	}
	createTool := Tool{
		Name:        "create_blog_post",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return Result{Text: "created", Data: map[string]string{DataKeyPostID: postID.String()}}
		},
	}
	completeTool := Tool{
		Name:        "complete_blog_idea",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return Result{Text: "completed", Data: map[string]string{DataKeyOutcome: string(OutcomeCompleted)}}
		},
	}

	llm := &scriptedLLM{completions: []*Completion{
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "1", Name: "get_and_claim_blog_idea"}}},
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "2", Name: "create_blog_post"}}},
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "3", Name: "complete_blog_idea"}}},
		// 終端ツールの後は呼ばれないはず
		{StopReason: StopEndTurn, Text: "never reached"},
	}}

	runner := NewRunner(llm, NewRegistry(claimTool, createTool, completeTool), 10, nil, discardLogger())
	outcome, err := runner.Run(context.Background(), SystemPrompt, "process the queue")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome.Status)
	require.NotNil(t, outcome.PostID)
	assert.Equal(t, postID, *outcome.PostID)
	require.NotNil(t, outcome.IdeaID)
	assert.Equal(t, ideaID, *outcome.IdeaID)
	assert.Equal(t, 3, outcome.Turns)
	assert.Equal(t, 3, llm.calls)
}

func TestRun_EndTurnReturnsCompleted(t *testing.T) {
	llm := &scriptedLLM{completions: []*Completion{
		{StopReason: StopEndTurn, Text: "There are no ideas to process."},
	}}

	runner := NewRunner(llm, NewRegistry(noopTool()), 5, nil, discardLogger())
	outcome, err := runner.Run(context.Background(), SystemPrompt, "process the queue")
	require.NoError(t, err)

	assert.Equal(t, OutcomeCompleted, outcome.Status)
	assert.Nil(t, outcome.PostID)
	assert.Equal(t, "There are no ideas to process.", outcome.Message)
	assert.Equal(t, 1, outcome.Turns)
}

func TestRun_ExhaustsTurnLimit(t *testing.T) {
	llm := &scriptedLLM{} // スクリプトなし：常にツール呼び出しを返す
	runner := NewRunner(llm, NewRegistry(noopTool()), 3, nil, discardLogger())

	outcome, err := runner.Run(context.Background(), SystemPrompt, "loop forever")
	require.NoError(t, err)

	assert.Equal(t, OutcomeExhausted, outcome.Status)
	assert.Equal(t, 3, outcome.Turns)
	assert.Equal(t, 3, llm.calls)
}

func TestRun_UnknownToolIsReportedAsError(t *testing.T) {
	llm := &scriptedLLM{completions: []*Completion{
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "1", Name: "no_such_tool"}}},
		{StopReason: StopEndTurn, Text: "giving up"},
	}}

	runner := NewRunner(llm, NewRegistry(noopTool()), 5, nil, discardLogger())
	outcome, err := runner.Run(context.Background(), SystemPrompt, "try a bad tool")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCompleted, outcome.Status)

	// 2ターン目の会話履歴にエラー付きツール結果が含まれること
	require.Len(t, llm.received, 2)
	second := llm.received[1]
	last := second[len(second)-1]
	assert.Equal(t, RoleTool, last.Role)
	assert.True(t, last.IsError)
	assert.Contains(t, last.Text, "unknown tool")
}

func TestRun_ErrorResultDoesNotRecordData(t *testing.T) {
	failing := Tool{
		Name:        "create_blog_post",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return Result{
				Text:    "validation failed",
				IsError: true,
				Data:    map[string]string{DataKeyPostID: uuid.New().String()},
			}
		},
	}
	llm := &scriptedLLM{completions: []*Completion{
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "1", Name: "create_blog_post"}}},
		{StopReason: StopEndTurn, Text: "done"},
	}}

	runner := NewRunner(llm, NewRegistry(failing), 5, nil, discardLogger())
	outcome, err := runner.Run(context.Background(), SystemPrompt, "create a post")
	require.NoError(t, err)
	assert.Nil(t, outcome.PostID)
}

func TestRun_FailedOutcomeCarriesReason(t *testing.T) {
	failTool := Tool{
		Name:        "fail_blog_idea",
		InputSchema: map[string]any{"type": "object"},
		Handler: func(ctx context.Context, input json.RawMessage) Result {
			return Result{Text: "failed", Data: map[string]string{
				DataKeyOutcome: string(OutcomeFailed),
				DataKeyReason:  "content generation error",
			}}
		},
	}
	llm := &scriptedLLM{completions: []*Completion{
		{StopReason: StopToolUse, ToolCalls: []ToolCall{{ID: "1", Name: "fail_blog_idea"}}},
	}}

	runner := NewRunner(llm, NewRegistry(failTool), 5, nil, discardLogger())
	outcome, err := runner.Run(context.Background(), SystemPrompt, "process")
	require.NoError(t, err)

	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Equal(t, "content generation error", outcome.Reason)
}
