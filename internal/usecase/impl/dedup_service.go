// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"classtrack/config"
	deliverycontext "classtrack/internal/delivery/context"
	"classtrack/internal/dedup"
	"classtrack/internal/domain/entity"
	domainerrors "classtrack/internal/domain/errors"
	"classtrack/internal/domain/repository"
	"classtrack/internal/domain/service"
	"classtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// dedupService implements the DedupUsecase interface.
type dedupService struct {
	txManager    repository.TransactionManager
	profileRepo  repository.ProfileRepository
	activityRepo repository.ActivityRepository
	gate         service.AdminGate
	publisher    service.EventPublisher
	aliases      []dedup.AliasPair
	logger       *slog.Logger
}

// DedupServiceParams holds dependencies for DedupService, injected by Fx.
type DedupServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	ProfileRepo  repository.ProfileRepository
	ActivityRepo repository.ActivityRepository
	Gate         service.AdminGate
	Publisher    service.EventPublisher `optional:"true"`
	Config       *config.Config
	Logger       *slog.Logger
}

// NewDedupService is the constructor for dedupService.
func NewDedupService(params DedupServiceParams) usecase.DedupUsecase {
	var aliases []dedup.AliasPair
	if params.Config != nil && params.Config.Dedup != nil {
		aliases = parseAliasOverrides(params.Config.Dedup.AliasOverrides, params.Logger)
	}

	return &dedupService{
		txManager:    params.TxManager,
		profileRepo:  params.ProfileRepo,
		activityRepo: params.ActivityRepo,
		gate:         params.Gate,
		publisher:    params.Publisher,
		aliases:      aliases,
		logger:       params.Logger,
	}
}

// parseAliasOverrides converts configured alias pairs, skipping malformed ids.
func parseAliasOverrides(overrides []config.AliasOverride, logger *slog.Logger) []dedup.AliasPair {
	pairs := make([]dedup.AliasPair, 0, len(overrides))
	for _, o := range overrides {
		sourceID, sourceErr := uuid.Parse(o.SourceID)
		targetID, targetErr := uuid.Parse(o.TargetID)
		if sourceErr != nil || targetErr != nil {
			if logger != nil {
				logger.Warn("Skipping malformed alias override",
					slog.String("sourceID", o.SourceID),
					slog.String("targetID", o.TargetID),
				)
			}

			continue
		}
		pairs = append(pairs, dedup.AliasPair{SourceID: sourceID, TargetID: targetID})
	}

	return pairs
}

func (srv *dedupService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// FindDuplicateGroups scans all profiles and partitions them into candidate
// duplicate groups, curated aliases first.
func (srv *dedupService) FindDuplicateGroups(ctx context.Context, caller service.Caller) ([]dedup.Group, error) {
	if err := srv.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	keys, err := srv.profileRepo.ListIdentityKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load identity keys for duplicate discovery")
	}

	groups := dedup.GroupProfiles(keys, srv.aliases)

	srv.log(ctx).Info("Duplicate discovery completed",
		slog.Int("profiles", len(keys)),
		slog.Int("groups", len(groups)),
	)

	return groups, nil
}

// PlanMerges selects a canonical target per group and returns the ordered
// merge plan.
func (srv *dedupService) PlanMerges(ctx context.Context, caller service.Caller, groups []dedup.Group) ([]dedup.Directive, error) {
	if err := srv.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	return srv.planMerges(ctx, groups)
}

func (srv *dedupService) planMerges(ctx context.Context, groups []dedup.Group) ([]dedup.Directive, error) {
	memberIDs := collectMemberIDs(groups)
	if len(memberIDs) == 0 {
		return nil, nil
	}

	stats, err := srv.profileRepo.ListMergeStats(ctx, memberIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load member stats for merge planning")
	}

	counts, err := srv.activityRepo.CountByOwners(ctx, memberIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count activities for merge planning")
	}

	for id, s := range stats {
		s.ActivityCount = counts[id]
		stats[id] = s
	}

	return dedup.PlanMerges(groups, stats), nil
}

func collectMemberIDs(groups []dedup.Group) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, g := range groups {
		for _, id := range g.MemberIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	return ids
}

// ApplyMerge applies one manual merge directive.
func (srv *dedupService) ApplyMerge(ctx context.Context, caller service.Caller, input usecase.ApplyMergeInput) (*usecase.MergeResult, error) {
	// Validate ids before the gate touches the store.
	if input.SourceID == "" || input.TargetID == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "source and target ids are required")
	}

	sourceID, err := uuid.Parse(input.SourceID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "source id is not a valid uuid")
	}

	targetID, err := uuid.Parse(input.TargetID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "target id is not a valid uuid")
	}

	if sourceID == targetID {
		return nil, errors.Wrap(domainerrors.ErrInvalidArgument, "source and target ids must be distinct")
	}

	if err := srv.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	return srv.applyDirective(ctx, sourceID, targetID, input.PreferSourceName, "manual")
}

// applyDirective folds sourceID into targetID. All five merge steps run
// inside one transaction so a partial failure rolls back: activities are
// never left re-parented with the source row still holding attribute data,
// and the source row is never deleted when re-parenting failed.
func (srv *dedupService) applyDirective(ctx context.Context, sourceID, targetID uuid.UUID, preferSourceName *bool, reason string) (*usecase.MergeResult, error) {
	logger := srv.log(ctx)
	result := &usecase.MergeResult{}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()
		activityRepo := repoFactory.ActivityRepo()

		// 1. Re-parent every activity owned by the source. Zero rows moved
		// means the source was already emptied by a prior run; that is
		// success, not an error.
		moved, err := activityRepo.ReassignOwner(ctx, sourceID, targetID)
		if err != nil {
			return errors.Wrap(err, "failed to re-parent activities")
		}
		result.MovedActivityCount = moved

		// 2. Load both rows fresh; a missing row is a soft condition.
		source, err := profileRepo.FindByID(ctx, sourceID)
		if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
			return errors.Wrap(err, "failed to load source profile")
		}
		target, err := profileRepo.FindByID(ctx, targetID)
		if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
			return errors.Wrap(err, "failed to load target profile")
		}

		if source == nil && target == nil {
			// Stale directive: both rows already gone, nothing to resolve.
			logger.Warn("Merge directive references two missing profiles",
				slog.Any("sourceID", sourceID),
				slog.Any("targetID", targetID),
			)

			return nil
		}

		// 3. Resolve merged attributes; 4. write them back onto the target
		// id, recreating the row if it was concurrently deleted.
		resolved := resolveMergedProfile(targetID, source, target, preferSourceName)
		if err := profileRepo.Upsert(ctx, resolved); err != nil {
			return errors.Wrap(err, "failed to write merged target profile")
		}
		result.TargetProfile = resolved

		// 5. Delete the source only if it still existed; a source already
		// merged by a prior run is reported, not failed.
		if source != nil {
			deleted, err := profileRepo.Delete(ctx, sourceID)
			if err != nil {
				return errors.Wrap(err, "failed to delete source profile")
			}
			result.DeletedSourceProfile = deleted
		}

		return nil
	})
	if err != nil {
		logger.Error("Merge directive failed",
			slog.Any("sourceID", sourceID),
			slog.Any("targetID", targetID),
			slog.String("reason", reason),
			slog.Any("error", err),
		)

		return nil, err
	}

	logger.Info("Merge directive applied",
		slog.Any("sourceID", sourceID),
		slog.Any("targetID", targetID),
		slog.String("reason", reason),
		slog.Int64("movedActivities", result.MovedActivityCount),
		slog.Bool("deletedSource", result.DeletedSourceProfile),
	)

	srv.publishMergeEvent(ctx, sourceID, targetID, reason, result)

	return result, nil
}

// resolveMergedProfile computes the attribute values that survive a merge:
// prefer the target's value, fall back to the source's. The display name
// additionally honors the name-quality heuristic, re-checked here against
// fresh state rather than trusting the planning-time flag alone.
func resolveMergedProfile(targetID uuid.UUID, source, target *entity.Profile, preferSourceName *bool) *entity.Profile {
	if source == nil {
		source = &entity.Profile{}
	}
	if target == nil {
		target = &entity.Profile{}
	}

	preferSource := preferSourceName != nil && *preferSourceName
	if preferSourceName == nil || !*preferSourceName {
		preferSource = dedup.NiceName(source.Name) && !dedup.NiceName(target.Name)
	}

	name := coalesce(target.Name, source.Name)
	if preferSource {
		name = coalesce(source.Name, target.Name)
	}

	return &entity.Profile{
		ID:        targetID,
		Name:      name,
		Email:     coalesce(target.Email, source.Email),
		RoleID:    coalesceInt(target.RoleID, source.RoleID),
		Class:     coalesce(target.Class, source.Class),
		CreatedAt: target.CreatedAt,
	}
}

func coalesce(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}

	return nil
}

func coalesceInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}

	return nil
}

// publishMergeEvent emits the audit record for an applied directive.
// Best-effort: a publish failure is logged and never fails the merge.
func (srv *dedupService) publishMergeEvent(ctx context.Context, sourceID, targetID uuid.UUID, reason string, result *usecase.MergeResult) {
	if srv.publisher == nil {
		return
	}

	event := &service.MergeEvent{
		RequestID:       deliverycontext.GetRequestIDFromContext(ctx),
		SourceID:        sourceID.String(),
		TargetID:        targetID.String(),
		Reason:          reason,
		MovedActivities: result.MovedActivityCount,
		DeletedSource:   result.DeletedSourceProfile,
		MergedAt:        time.Now().UTC(),
	}

	if err := srv.publisher.PublishMergeEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish merge audit event",
			slog.Any("sourceID", sourceID),
			slog.Any("targetID", targetID),
			slog.Any("error", err),
		)
	}
}

// AutoMerge chains discovery, planning and execution over every group in one
// pass. The plan is an immutable snapshot executed strictly sequentially:
// a later directive may depend on an earlier one's deletion having happened,
// and each directive re-reads fresh state, so concurrent execution would
// break the idempotency guarantees.
func (srv *dedupService) AutoMerge(ctx context.Context, caller service.Caller) (*usecase.MergeSummary, error) {
	if err := srv.gate.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}

	keys, err := srv.profileRepo.ListIdentityKeys(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load identity keys for auto-merge")
	}

	groups := dedup.GroupProfiles(keys, srv.aliases)

	directives, err := srv.planMerges(ctx, groups)
	if err != nil {
		return nil, errors.Wrap(err, "failed to plan auto-merge directives")
	}

	summary := &usecase.MergeSummary{
		Planned: len(directives),
		Results: make([]usecase.MergeOutcome, 0, len(directives)),
	}

	for _, directive := range directives {
		outcome := usecase.MergeOutcome{
			SourceID: directive.SourceID.String(),
			TargetID: directive.TargetID.String(),
			Reason:   string(directive.Reason),
		}

		prefer := directive.PreferSourceName
		result, err := srv.applyDirective(ctx, directive.SourceID, directive.TargetID, &prefer, string(directive.Reason))
		if err != nil {
			// Best-effort across the whole plan: record and continue.
			outcome.Error = err.Error()
			summary.Failed++
		} else {
			outcome.MovedActivityCount = result.MovedActivityCount
			outcome.DeletedSourceProfile = result.DeletedSourceProfile
			summary.Merged++
		}

		summary.Results = append(summary.Results, outcome)
	}

	srv.log(ctx).Info("Auto-merge pass completed",
		slog.Int("planned", summary.Planned),
		slog.Int("merged", summary.Merged),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}
