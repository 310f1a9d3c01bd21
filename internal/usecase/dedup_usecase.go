// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"classtrack/internal/dedup"
	"classtrack/internal/domain/entity"
	"classtrack/internal/domain/service"
)

// --- Input DTOs ---

// ApplyMergeInput names one manual merge request. SourceID and TargetID must
// be present and distinct; the request is rejected before any store access
// otherwise. PreferSourceName is optional: when nil the executor re-checks
// name quality against fresh state instead of trusting a planned flag.
type ApplyMergeInput struct {
	SourceID         string `json:"source_id"`
	TargetID         string `json:"target_id"`
	PreferSourceName *bool  `json:"prefer_source_name,omitempty"`
}

// --- Output DTOs ---

// MergeResult reports the effect of applying one merge directive.
type MergeResult struct {
	MovedActivityCount   int64           `json:"moved_activity_count"`
	TargetProfile        *entity.Profile `json:"target_profile"`
	DeletedSourceProfile bool            `json:"deleted_source_profile"`
}

// MergeOutcome is one entry in an auto-merge summary: which directive ran,
// what it did, and what failed if anything. Error text is kept so operators
// can retry or investigate without re-running discovery.
type MergeOutcome struct {
	SourceID             string `json:"source_id"`
	TargetID             string `json:"target_id"`
	Reason               string `json:"reason"`
	MovedActivityCount   int64  `json:"moved_activity_count"`
	DeletedSourceProfile bool   `json:"deleted_source_profile"`
	Error                string `json:"error,omitempty"`
}

// MergeSummary aggregates one auto-merge pass.
type MergeSummary struct {
	Planned int            `json:"planned"`
	Merged  int            `json:"merged"`
	Failed  int            `json:"failed"`
	Results []MergeOutcome `json:"results"`
}

// DedupUsecase defines the duplicate-identity operations exposed to
// administrators. Every operation consults the authorization gate before
// touching the store; discovery and execution are independently invokable.
type DedupUsecase interface {
	// FindDuplicateGroups scans all profiles and returns candidate
	// duplicate groups, curated aliases first.
	FindDuplicateGroups(ctx context.Context, caller service.Caller) ([]dedup.Group, error)

	// PlanMerges selects a canonical target per group and returns the
	// ordered merge plan.
	PlanMerges(ctx context.Context, caller service.Caller, groups []dedup.Group) ([]dedup.Directive, error)

	// ApplyMerge applies one merge. Safe to invoke more than once with the
	// same input: re-running a completed merge moves zero activities and
	// reports deletedSourceProfile=false without error.
	ApplyMerge(ctx context.Context, caller service.Caller, input ApplyMergeInput) (*MergeResult, error)

	// AutoMerge chains discovery, planning and execution over every group
	// in one strictly sequential pass. Individual directive failures are
	// recorded in the summary and do not abort the rest of the plan.
	AutoMerge(ctx context.Context, caller service.Caller) (*MergeSummary, error)
}
