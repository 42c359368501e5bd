package binding

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to name, or "" when nothing is close
// enough to be a plausible typo. Comparison ignores case.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := max(2, len(name)/3) + 1

	for _, c := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if dist < bestDist {
			best = c
			bestDist = dist
		}
	}
	return best
}
