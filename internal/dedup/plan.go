package dedup

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// MemberStats carries everything the plan builder needs to rank one group
// member: its current activity count and the timestamps used as tie-breakers.
type MemberStats struct {
	ID            uuid.UUID
	Name          *string
	ActivityCount int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Directive is a planned, directional instruction to fold SourceID into
// TargetID. Ephemeral; the executor re-reads fresh state when applying it.
type Directive struct {
	SourceID         uuid.UUID
	TargetID         uuid.UUID
	Reason           MatchType
	PreferSourceName bool
}

// PlanGroup selects the canonical target for a group and emits one directive
// per remaining member. The member with the most activity wins; ties break on
// the most recent updatedAt (createdAt when updatedAt is absent), then on id
// so the ordering is total.
//
// Rationale: the profile with more recorded work is the one the person
// actually uses, and recency is the best proxy for "currently active" when
// counts are equal (including zero).
func PlanGroup(g Group, stats map[uuid.UUID]MemberStats) []Directive {
	if len(g.MemberIDs) < 2 {
		return nil
	}

	if g.Type == MatchAlias {
		// Curated pairs carry their own direction: member 0 is the target.
		return pairDirectives(g, g.MemberIDs[0], g.MemberIDs[1:], stats)
	}

	members := make([]MemberStats, 0, len(g.MemberIDs))
	for _, id := range g.MemberIDs {
		if s, ok := stats[id]; ok {
			members = append(members, s)
		}
	}
	if len(members) < 2 {
		return nil
	}

	sort.Slice(members, func(i, j int) bool {
		return memberLess(members[i], members[j])
	})

	sources := make([]uuid.UUID, 0, len(members)-1)
	for _, m := range members[1:] {
		sources = append(sources, m.ID)
	}

	return pairDirectives(g, members[0].ID, sources, stats)
}

// PlanMerges builds the full ordered plan for a discovery result. The order
// is group order, then within-group target-first order; the auto-merge pass
// executes it strictly sequentially.
func PlanMerges(groups []Group, stats map[uuid.UUID]MemberStats) []Directive {
	var directives []Directive
	for _, g := range groups {
		directives = append(directives, PlanGroup(g, stats)...)
	}

	return directives
}

func pairDirectives(g Group, targetID uuid.UUID, sourceIDs []uuid.UUID, stats map[uuid.UUID]MemberStats) []Directive {
	targetName := stats[targetID].Name

	directives := make([]Directive, 0, len(sourceIDs))
	for _, sourceID := range sourceIDs {
		if sourceID == targetID {
			continue
		}
		directives = append(directives, Directive{
			SourceID:         sourceID,
			TargetID:         targetID,
			Reason:           g.Type,
			PreferSourceName: NiceName(stats[sourceID].Name) && !NiceName(targetName),
		})
	}

	return directives
}

// memberLess orders candidates best-first: most activity, then most recently
// touched, then by id for a total order on stable inputs.
func memberLess(a, b MemberStats) bool {
	if a.ActivityCount != b.ActivityCount {
		return a.ActivityCount > b.ActivityCount
	}

	at, bt := effectiveTime(a), effectiveTime(b)
	if !at.Equal(bt) {
		return at.After(bt)
	}

	return a.ID.String() < b.ID.String()
}

func effectiveTime(m MemberStats) time.Time {
	if m.UpdatedAt.IsZero() {
		return m.CreatedAt
	}

	return m.UpdatedAt
}
