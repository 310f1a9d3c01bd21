package dedup

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// MatchType names the field that produced a duplicate group.
type MatchType string

const (
	// MatchEmail groups profiles sharing a normalized email.
	MatchEmail MatchType = "email"
	// MatchName groups profiles sharing a normalized display name.
	MatchName MatchType = "displayName"
	// MatchAlias marks a manually curated known-same-person pair. Alias
	// groups are emitted ahead of the automatic groups and carry the
	// curated direction: the first member is the target.
	MatchAlias MatchType = "alias"
)

// Group is one candidate duplicate set. Ephemeral; recomputed on every
// discovery call.
type Group struct {
	Type      MatchType
	Key       string
	MemberIDs []uuid.UUID // distinct, len >= 2
}

// ProfileKeys is the minimal projection the grouping engine needs.
type ProfileKeys struct {
	ID    uuid.UUID
	Email *string
	Name  *string
}

// AliasPair is a curated override: SourceID is always folded into TargetID,
// regardless of what the heuristic would decide.
type AliasPair struct {
	SourceID uuid.UUID
	TargetID uuid.UUID
}

// GroupProfiles partitions profiles into candidate duplicate groups keyed by
// normalized email and, independently, by normalized display name. A profile
// duplicated on both fields appears in two groups; the resulting directives
// are idempotent per (source,target) pair, so the overlap is harmless.
//
// Curated alias pairs come first so a manual override is merged before the
// heuristic gets a say. Output order is deterministic for stable inputs.
func GroupProfiles(profiles []ProfileKeys, overrides []AliasPair) []Group {
	groups := make([]Group, 0, len(overrides))

	seen := make(map[uuid.UUID]bool, len(profiles))
	for _, p := range profiles {
		seen[p.ID] = true
	}

	for _, pair := range overrides {
		if pair.SourceID == pair.TargetID {
			continue
		}
		// An override only applies while both rows still exist.
		if !seen[pair.SourceID] || !seen[pair.TargetID] {
			continue
		}
		groups = append(groups, Group{
			Type:      MatchAlias,
			Key:       pair.TargetID.String(),
			MemberIDs: []uuid.UUID{pair.TargetID, pair.SourceID},
		})
	}

	byEmail := make(map[string][]uuid.UUID)
	byName := make(map[string][]uuid.UUID)
	for _, p := range profiles {
		if key := NormalizeKey(p.Email); key != "" {
			byEmail[key] = appendDistinct(byEmail[key], p.ID)
		}
		if key := NormalizeKey(p.Name); key != "" {
			byName[key] = appendDistinct(byName[key], p.ID)
		}
	}

	groups = append(groups, collectGroups(MatchEmail, byEmail)...)
	groups = append(groups, collectGroups(MatchName, byName)...)

	return groups
}

// NormalizeKey trims and lower-cases a grouping field. Absent or
// whitespace-only values normalize to "" and are excluded from grouping.
func NormalizeKey(value *string) string {
	if value == nil {
		return ""
	}

	return strings.ToLower(strings.TrimSpace(*value))
}

func collectGroups(matchType MatchType, buckets map[string][]uuid.UUID) []Group {
	keys := make([]string, 0, len(buckets))
	for key, ids := range buckets {
		if len(ids) > 1 {
			keys = append(keys, key)
		}
	}
	// Map iteration order is random; sort keys so repeated discovery runs
	// report groups in the same order.
	sort.Strings(keys)

	groups := make([]Group, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, Group{
			Type:      matchType,
			Key:       key,
			MemberIDs: buckets[key],
		})
	}

	return groups
}

func appendDistinct(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}

	return append(ids, id)
}
