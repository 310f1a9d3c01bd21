// Package dedup implements duplicate-identity resolution: grouping profiles
// that look like the same person, selecting a canonical target per group and
// producing the merge directives the executor applies. Everything in this
// package is pure; store access stays in the usecase layer.
package dedup

import (
	"strings"
	"unicode"
)

// NiceName reports whether a display name looks human-entered rather than
// machine-generated. It is a heuristic, not a validator:
//
//   - nil/empty input is not nice
//   - anything containing '@' looks like an email address, not nice
//   - any digit or literal '.' disqualifies (login-style names such as
//     "jane.doe123")
//   - otherwise the name must contain whitespace or an uppercase letter
func NiceName(name *string) bool {
	if name == nil || *name == "" {
		return false
	}

	if strings.ContainsRune(*name, '@') {
		return false
	}

	hasShape := false
	for _, r := range *name {
		if unicode.IsDigit(r) || r == '.' {
			return false
		}
		if unicode.IsSpace(r) || unicode.IsUpper(r) {
			hasShape = true
		}
	}

	return hasShape
}
