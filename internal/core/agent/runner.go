package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// OutcomeStatus はエージェント実行の終端ステータスです。
type OutcomeStatus string

const (
	OutcomeCompleted OutcomeStatus = "completed"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
	// OutcomeExhausted はターン上限に達して終端ツールが呼ばれなかったことを示します。
	OutcomeExhausted OutcomeStatus = "exhausted"
)

// ツール Result の Data に載せる構造化キー。
const (
	DataKeyOutcome = "outcome"
	DataKeyPostID  = "post_id"
	DataKeyIdeaID  = "idea_id"
	DataKeyReason  = "reason"
)

// Outcome はエージェント1回の実行結果です。
type Outcome struct {
	Status  OutcomeStatus
	PostID  *uuid.UUID
	IdeaID  *uuid.UUID
	Reason  string
	Message string
	Turns   int
}

// Runner はツール呼び出しループを上限付きで回すエージェント実行器です。
type Runner struct {
	llm      LLMClient
	registry *Registry
	maxTurns int
	counter  *TokenCounter
	logger   *slog.Logger
}

// NewRunner は Runner を作ります。counter は nil でもかまいません。
func NewRunner(llm LLMClient, registry *Registry, maxTurns int, counter *TokenCounter, logger *slog.Logger) *Runner {
	return &Runner{
		llm:      llm,
		registry: registry,
		maxTurns: maxTurns,
		counter:  counter,
		logger:   logger,
	}
}

// Run はシステムプロンプトと指示を与えてエージェントを実行します。
// 終端ツール（complete/fail/skip）が成功したターンで打ち切り、
// 上限に達した場合は OutcomeExhausted を返します。
func (r *Runner) Run(ctx context.Context, system, instruction string) (*Outcome, error) {
	messages := []Message{{Role: RoleUser, Text: instruction}}
	tools := r.registry.Tools()

	var (
		postID   *uuid.UUID
		ideaID   *uuid.UUID
		terminal OutcomeStatus
		reason   string
		lastText string
	)

	for turn := 1; turn <= r.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		completion, err := r.llm.Complete(ctx, system, tools, messages)
		if err != nil {
			return nil, fmt.Errorf("failed to complete turn %d: %w", turn, err)
		}

		r.logger.Debug("エージェントターンを完了しました",
			slog.Int("turn", turn),
			slog.String("stop_reason", string(completion.StopReason)),
			slog.Int("tokens_used", completion.TokensUsed),
			slog.Int("tool_calls", len(completion.ToolCalls)),
		)

		if completion.Text != "" {
			lastText = completion.Text
		}
		messages = append(messages, Message{
			Role:      RoleAssistant,
			Text:      completion.Text,
			ToolCalls: completion.ToolCalls,
		})

		if completion.StopReason == StopEndTurn {
			status := terminal
			if status == "" {
				status = OutcomeCompleted
			}
			return &Outcome{
				Status:  status,
				PostID:  postID,
				IdeaID:  ideaID,
				Reason:  reason,
				Message: lastText,
				Turns:   turn,
			}, nil
		}

		for _, call := range completion.ToolCalls {
			result := r.registry.Dispatch(ctx, call)

			if r.counter != nil {
				r.logger.Debug("ツールを実行しました",
					slog.String("tool", call.Name),
					slog.Bool("is_error", result.IsError),
					slog.Int("result_tokens", r.counter.Count(result.Text)),
				)
			} else {
				r.logger.Debug("ツールを実行しました",
					slog.String("tool", call.Name),
					slog.Bool("is_error", result.IsError),
				)
			}

			messages = append(messages, Message{
				Role:       RoleTool,
				Text:       result.Text,
				ToolCallID: call.ID,
				IsError:    result.IsError,
			})

			if result.IsError {
				continue
			}
			if id := parseUUID(result.Data[DataKeyPostID]); id != nil {
				postID = id
			}
			if id := parseUUID(result.Data[DataKeyIdeaID]); id != nil {
				ideaID = id
			}
			if outcome := result.Data[DataKeyOutcome]; outcome != "" {
				terminal = OutcomeStatus(outcome)
				reason = result.Data[DataKeyReason]
			}
		}

		// 終端ツールが成功したターンでループを打ち切る
		if terminal != "" {
			return &Outcome{
				Status:  terminal,
				PostID:  postID,
				IdeaID:  ideaID,
				Reason:  reason,
				Message: lastText,
				Turns:   turn,
			}, nil
		}
	}

	r.logger.Warn("ターン上限に達したため実行を打ち切りました", slog.Int("max_turns", r.maxTurns))
	return &Outcome{
		Status:  OutcomeExhausted,
		PostID:  postID,
		IdeaID:  ideaID,
		Message: lastText,
		Turns:   r.maxTurns,
	}, nil
}

func parseUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return &id
}
