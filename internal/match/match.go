// Package match finds the closest candidate key within an edit-distance
// tolerance. Keys are assumed to be already normalized.
package match

import "github.com/agnivade/levenshtein"

// DefaultMaxDistance is the edit-distance tolerance used for referral
// matching: wide enough for a one- or two-character typo, tight enough
// that unrelated names never collide.
const DefaultMaxDistance = 2

// Best returns the candidate with the minimum Levenshtein distance from
// target, provided that distance is <= maxDist. Ties go to the earliest
// candidate in slice order, which keeps runs reproducible for a fixed
// input ordering. The boolean is false when no candidate qualifies.
func Best(target string, candidates []string, maxDist int) (string, bool) {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		if c == target {
			return c, true
		}
		// Cheap lower bound: distance is at least the length difference.
		if diff := len(c) - len(target); diff > maxDist || -diff > maxDist {
			continue
		}
		if d := levenshtein.ComputeDistance(target, c); d < bestDist {
			best = c
			bestDist = d
		}
	}
	if bestDist > maxDist {
		return "", false
	}
	return best, true
}
