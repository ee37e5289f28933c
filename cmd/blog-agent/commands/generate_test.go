package commands

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/blog-agent/internal/core/agent"
)

// scriptedRunner はトピックごとの結果を差し替えられる postRunner の実装
type scriptedRunner struct {
	instructions []string
	failFor      string
	outcomeFor   func(instruction string) *agent.Outcome
}

func (r *scriptedRunner) Run(ctx context.Context, system, instruction string) (*agent.Outcome, error) {
	r.instructions = append(r.instructions, instruction)
	if r.failFor != "" && strings.Contains(instruction, r.failFor) {
		return nil, fmt.Errorf("llm unavailable")
	}
	if r.outcomeFor != nil {
		return r.outcomeFor(instruction), nil
	}
	postID := uuid.New()
	return &agent.Outcome{Status: agent.OutcomeCompleted, PostID: &postID, Turns: 3}, nil
}

func TestReadTopicLines(t *testing.T) {
	input := strings.NewReader(`# コメント行
ドライバーの選び方

  パター練習のコツ
# another comment
`)
	topics, err := readTopicLines(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"ドライバーの選び方", "パター練習のコツ"}, topics)
}

func TestRunBatch_GeneratesPerTopic(t *testing.T) {
	runner := &scriptedRunner{}
	topics := []string{"topic one", "topic two", "topic three"}

	succeeded, err := runBatch(context.Background(), runner, "editorial-team", topics)
	require.NoError(t, err)

	assert.Equal(t, 3, succeeded)
	require.Len(t, runner.instructions, 3)
	for i, topic := range topics {
		assert.Contains(t, runner.instructions[i], topic)
	}
}

func TestRunBatch_FailureDoesNotStopBatch(t *testing.T) {
	runner := &scriptedRunner{failFor: "topic two"}
	topics := []string{"topic one", "topic two", "topic three"}

	succeeded, err := runBatch(context.Background(), runner, "editorial-team", topics)
	require.NoError(t, err)

	assert.Equal(t, 2, succeeded)
	assert.Len(t, runner.instructions, 3)
}

func TestRunBatch_IncompleteOutcomeIsNotSuccess(t *testing.T) {
	runner := &scriptedRunner{
		outcomeFor: func(string) *agent.Outcome {
			return &agent.Outcome{Status: agent.OutcomeExhausted, Turns: 15}
		},
	}

	succeeded, err := runBatch(context.Background(), runner, "editorial-team", []string{"topic"})
	require.NoError(t, err)
	assert.Equal(t, 0, succeeded)
}

func TestClassifyREPLInput(t *testing.T) {
	assert.Equal(t, replQuit, classifyREPLInput("quit"))
	assert.Equal(t, replQuit, classifyREPLInput("EXIT"))
	assert.Equal(t, replQuit, classifyREPLInput("q"))
	assert.Equal(t, replStatus, classifyREPLInput("status"))
	assert.Equal(t, replAuto, classifyREPLInput("auto"))
	assert.Equal(t, replEmpty, classifyREPLInput("   "))
	assert.Equal(t, replTopic, classifyREPLInput("best golf drills"))
}
