package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus はブログアイデアのライフサイクル状態を表します
type IdeaStatus string

const (
	// IdeaStatusPending は未着手のアイデア
	IdeaStatusPending IdeaStatus = "pending"
	// IdeaStatusInProgress は生成処理中のアイデア
	IdeaStatusInProgress IdeaStatus = "in_progress"
	// IdeaStatusCompleted は記事生成が完了したアイデア
	IdeaStatusCompleted IdeaStatus = "completed"
	// IdeaStatusFailed は生成に失敗したアイデア
	IdeaStatusFailed IdeaStatus = "failed"
	// IdeaStatusSkipped は生成せずにスキップしたアイデア
	IdeaStatusSkipped IdeaStatus = "skipped"
)

// IdeaStatuses は全ステータスの一覧です（集計表示用）
var IdeaStatuses = []IdeaStatus{
	IdeaStatusPending,
	IdeaStatusInProgress,
	IdeaStatusCompleted,
	IdeaStatusFailed,
	IdeaStatusSkipped,
}

// Idea はブログアイデアキューの1件を表します
// ステータス遷移は pending → in_progress → {completed, failed, skipped} のみ。
// in_progress のまま停止したアイデアは運用者が pending に戻して再実行します。
type Idea struct {
	ID                 uuid.UUID
	Topic              string
	Description        *string
	Notes              *string
	TargetCategorySlug *string
	SuggestedTags      []string
	TargetWordCount    *int
	Priority           *int
	Status             IdeaStatus
	Source             string
	Attempts           int
	BlogPostID         *uuid.UUID
	ErrorMessage       *string
	CreatedAt          time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
}

// NewIdea はアイデア登録の入力です
type NewIdea struct {
	Topic              string
	Description        *string
	Notes              *string
	TargetCategorySlug *string
	SuggestedTags      []string
	TargetWordCount    *int
	Priority           *int
	Source             string
}

// QueueStatus はアイデアキューの集計結果です
type QueueStatus struct {
	Counts   map[IdeaStatus]int
	Upcoming []*Idea // 優先度順の直近 pending アイデア
}
