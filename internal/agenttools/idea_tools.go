package agenttools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jinford/blog-agent/internal/core/agent"
	"github.com/jinford/blog-agent/internal/core/queue"
	"github.com/jinford/blog-agent/pkg/models"
)

// IdeaTools はアイデアキューの claim と終端記録のツールを組み立てます。
func IdeaTools(ideas IdeaQueue) []agent.Tool {
	return []agent.Tool{
		{
			Name: "get_and_claim_blog_idea",
			Description: `Get and atomically claim the next pending blog idea from the queue.
Returns the idea's topic, description, notes, and targeting hints.
After finishing, you MUST call exactly one of: complete_blog_idea, fail_blog_idea, or skip_blog_idea.`,
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				idea, err := ideas.ClaimNext(ctx)
				if errors.Is(err, queue.ErrNoPendingIdeas) {
					return agent.TextResult("The idea queue is empty. No pending ideas to process.")
				}
				if err != nil {
					return agent.ErrorResult("Error claiming idea: %v", err)
				}
				return agent.Result{
					Text: formatIdea(idea),
					Data: map[string]string{agent.DataKeyIdeaID: idea.ID.String()},
				}
			},
		},
		{
			Name:        "complete_blog_idea",
			Description: "Mark a claimed idea as completed and link it to the created post. Call after create_blog_post succeeds.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id":      map[string]any{"type": "string", "description": "UUID of the claimed idea"},
					"blog_post_id": map[string]any{"type": "string", "description": "UUID of the created post"},
				},
				"required": []string{"idea_id", "blog_post_id"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					IdeaID     string `json:"idea_id"`
					BlogPostID string `json:"blog_post_id"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				ideaID, err := uuid.Parse(args.IdeaID)
				if err != nil {
					return agent.ErrorResult("Invalid idea_id: %v", err)
				}
				postID, err := uuid.Parse(args.BlogPostID)
				if err != nil {
					return agent.ErrorResult("Invalid blog_post_id: %v", err)
				}
				if err := ideas.Complete(ctx, ideaID, postID); err != nil {
					return agent.ErrorResult("Error completing idea: %v", err)
				}
				return agent.Result{
					Text: fmt.Sprintf("Idea %s marked as completed (post %s)", ideaID, postID),
					Data: map[string]string{
						agent.DataKeyOutcome: string(agent.OutcomeCompleted),
						agent.DataKeyIdeaID:  ideaID.String(),
						agent.DataKeyPostID:  postID.String(),
					},
				}
			},
		},
		{
			Name:        "fail_blog_idea",
			Description: "Mark a claimed idea as failed with an error message. Call when the post cannot be created.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id":       map[string]any{"type": "string", "description": "UUID of the claimed idea"},
					"error_message": map[string]any{"type": "string", "description": "What went wrong"},
				},
				"required": []string{"idea_id", "error_message"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					IdeaID       string `json:"idea_id"`
					ErrorMessage string `json:"error_message"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				ideaID, err := uuid.Parse(args.IdeaID)
				if err != nil {
					return agent.ErrorResult("Invalid idea_id: %v", err)
				}
				if err := ideas.Fail(ctx, ideaID, args.ErrorMessage); err != nil {
					return agent.ErrorResult("Error failing idea: %v", err)
				}
				return agent.Result{
					Text: fmt.Sprintf("Idea %s marked as failed", ideaID),
					Data: map[string]string{
						agent.DataKeyOutcome: string(agent.OutcomeFailed),
						agent.DataKeyIdeaID:  ideaID.String(),
						agent.DataKeyReason:  args.ErrorMessage,
					},
				}
			},
		},
		{
			Name:        "skip_blog_idea",
			Description: "Mark a claimed idea as skipped (duplicate topic, inappropriate, etc.) with a reason.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"idea_id": map[string]any{"type": "string", "description": "UUID of the claimed idea"},
					"reason":  map[string]any{"type": "string", "description": "Why the idea is skipped"},
				},
				"required": []string{"idea_id", "reason"},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				var args struct {
					IdeaID string `json:"idea_id"`
					Reason string `json:"reason"`
				}
				if err := json.Unmarshal(input, &args); err != nil {
					return agent.ErrorResult("Invalid input: %v", err)
				}
				ideaID, err := uuid.Parse(args.IdeaID)
				if err != nil {
					return agent.ErrorResult("Invalid idea_id: %v", err)
				}
				if err := ideas.Skip(ctx, ideaID, args.Reason); err != nil {
					return agent.ErrorResult("Error skipping idea: %v", err)
				}
				return agent.Result{
					Text: fmt.Sprintf("Idea %s marked as skipped", ideaID),
					Data: map[string]string{
						agent.DataKeyOutcome: string(agent.OutcomeSkipped),
						agent.DataKeyIdeaID:  ideaID.String(),
						agent.DataKeyReason:  args.Reason,
					},
				}
			},
		},
		{
			Name:        "get_idea_queue_status",
			Description: "Get counts per status and the next upcoming ideas in the queue.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
			Handler: func(ctx context.Context, input json.RawMessage) agent.Result {
				status, err := ideas.Status(ctx)
				if err != nil {
					return agent.ErrorResult("Error getting queue status: %v", err)
				}
				return agent.Result{Text: FormatQueueStatus(status)}
			},
		},
	}
}

func formatIdea(idea *models.Idea) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID: %s\n", idea.ID)
	fmt.Fprintf(&b, "Topic: %s\n", idea.Topic)
	if idea.Description != nil {
		fmt.Fprintf(&b, "Description: %s\n", *idea.Description)
	}
	if idea.Notes != nil {
		fmt.Fprintf(&b, "Notes: %s\n", *idea.Notes)
	}
	if idea.TargetCategorySlug != nil {
		fmt.Fprintf(&b, "Target category: %s\n", *idea.TargetCategorySlug)
	}
	if len(idea.SuggestedTags) > 0 {
		fmt.Fprintf(&b, "Suggested tags: %s\n", strings.Join(idea.SuggestedTags, ", "))
	}
	if idea.TargetWordCount != nil {
		fmt.Fprintf(&b, "Target word count: %d\n", *idea.TargetWordCount)
	}
	fmt.Fprintf(&b, "Attempts: %d", idea.Attempts)
	return b.String()
}

// FormatQueueStatus はキュー状態を表示用のテキストに整形します。
func FormatQueueStatus(status *models.QueueStatus) string {
	var b strings.Builder
	b.WriteString("Idea queue status:\n")
	for _, s := range models.IdeaStatuses {
		fmt.Fprintf(&b, "  %-12s %d\n", string(s)+":", status.Counts[s])
	}
	if len(status.Upcoming) > 0 {
		b.WriteString("Next up:\n")
		for _, idea := range status.Upcoming {
			priority := "-"
			if idea.Priority != nil {
				priority = fmt.Sprintf("%d", *idea.Priority)
			}
			fmt.Fprintf(&b, "  [%s] %s\n", priority, idea.Topic)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
