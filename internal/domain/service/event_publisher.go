package service

import (
	"context"
	"time"
)

// MergeEvent is the audit record published after one merge directive has been
// applied. Consumers use it for audit trails and operator review.
type MergeEvent struct {
	RequestID       string    `json:"request_id,omitempty"` // For distributed tracing
	SourceID        string    `json:"source_id"`
	TargetID        string    `json:"target_id"`
	Reason          string    `json:"reason"` // email | displayName | alias | manual
	MovedActivities int64     `json:"moved_activities"`
	DeletedSource   bool      `json:"deleted_source"`
	MergedAt        time.Time `json:"merged_at"`
}

// EventPublisher defines the interface for publishing merge audit events to a
// message queue. Publishing is best-effort: a failed publish is logged by the
// caller and never fails the merge itself.
type EventPublisher interface {
	// PublishMergeEvent publishes one merge audit event.
	PublishMergeEvent(ctx context.Context, event *MergeEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
