package dedup

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsFor(members ...MemberStats) map[uuid.UUID]MemberStats {
	m := make(map[uuid.UUID]MemberStats, len(members))
	for _, member := range members {
		m[member.ID] = member
	}

	return m
}

func TestPlanGroup_MostActivityWins(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	group := Group{Type: MatchEmail, Key: "x@y.com", MemberIDs: []uuid.UUID{a, b}}
	stats := statsFor(
		MemberStats{ID: a, ActivityCount: 12},
		MemberStats{ID: b, ActivityCount: 5},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.Equal(t, a, directives[0].TargetID)
	assert.Equal(t, b, directives[0].SourceID)
	assert.Equal(t, MatchEmail, directives[0].Reason)

	// Input order must not matter.
	group.MemberIDs = []uuid.UUID{b, a}
	directives = PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.Equal(t, a, directives[0].TargetID)
}

func TestPlanGroup_TieBreaksOnUpdatedAt(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	now := time.Now()
	group := Group{Type: MatchName, Key: "jane doe", MemberIDs: []uuid.UUID{a, b}}
	stats := statsFor(
		MemberStats{ID: a, ActivityCount: 3, UpdatedAt: now.Add(-time.Hour)},
		MemberStats{ID: b, ActivityCount: 3, UpdatedAt: now},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.Equal(t, b, directives[0].TargetID)
}

func TestPlanGroup_TieFallsBackToCreatedAt(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	now := time.Now()
	group := Group{Type: MatchName, Key: "jane doe", MemberIDs: []uuid.UUID{a, b}}
	stats := statsFor(
		MemberStats{ID: a, CreatedAt: now}, // no updatedAt recorded
		MemberStats{ID: b, UpdatedAt: now.Add(-time.Hour)},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.Equal(t, a, directives[0].TargetID)
}

func TestPlanGroup_MultiMemberGroupFansIntoOneTarget(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	group := Group{Type: MatchEmail, Key: "x@y.com", MemberIDs: []uuid.UUID{a, b, c}}
	stats := statsFor(
		MemberStats{ID: a, ActivityCount: 1},
		MemberStats{ID: b, ActivityCount: 9},
		MemberStats{ID: c, ActivityCount: 4},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 2)
	for _, d := range directives {
		assert.Equal(t, b, d.TargetID)
		assert.NotEqual(t, b, d.SourceID)
	}
	// Within-group order is target-first rank order: c (4) before a (1).
	assert.Equal(t, c, directives[0].SourceID)
	assert.Equal(t, a, directives[1].SourceID)
}

func TestPlanGroup_PreferSourceNameFlag(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	group := Group{Type: MatchEmail, Key: "x@y.com", MemberIDs: []uuid.UUID{a, b}}
	stats := statsFor(
		MemberStats{ID: a, ActivityCount: 10, Name: strPtr("jane.doe123")},
		MemberStats{ID: b, ActivityCount: 2, Name: strPtr("Jane Doe")},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.True(t, directives[0].PreferSourceName)

	// A nice target name must never be displaced.
	stats[a] = MemberStats{ID: a, ActivityCount: 10, Name: strPtr("Jane D")}
	directives = PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.False(t, directives[0].PreferSourceName)
}

func TestPlanGroup_AliasGroupKeepsCuratedDirection(t *testing.T) {
	target, source := uuid.New(), uuid.New()
	group := Group{Type: MatchAlias, Key: target.String(), MemberIDs: []uuid.UUID{target, source}}
	// The source has more activity; a curated alias still wins.
	stats := statsFor(
		MemberStats{ID: target, ActivityCount: 0},
		MemberStats{ID: source, ActivityCount: 50},
	)

	directives := PlanGroup(group, stats)
	require.Len(t, directives, 1)
	assert.Equal(t, target, directives[0].TargetID)
	assert.Equal(t, source, directives[0].SourceID)
	assert.Equal(t, MatchAlias, directives[0].Reason)
}

func TestPlanMerges_PreservesGroupOrder(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	groups := []Group{
		{Type: MatchEmail, Key: "x@y.com", MemberIDs: []uuid.UUID{a, b}},
		{Type: MatchName, Key: "jane doe", MemberIDs: []uuid.UUID{c, d}},
	}
	stats := statsFor(
		MemberStats{ID: a, ActivityCount: 2},
		MemberStats{ID: b, ActivityCount: 1},
		MemberStats{ID: c, ActivityCount: 1},
		MemberStats{ID: d, ActivityCount: 2},
	)

	directives := PlanMerges(groups, stats)
	require.Len(t, directives, 2)
	assert.Equal(t, MatchEmail, directives[0].Reason)
	assert.Equal(t, MatchName, directives[1].Reason)
}
