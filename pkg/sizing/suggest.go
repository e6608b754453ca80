package sizing

import (
	"github.com/agnivade/levenshtein"

	"github.com/TomasBahnik/kube-helpers/pkg/errors"
)

// maxSuggestDistance bounds how far a candidate may be from the misspelled
// name before the suggestion is more confusing than helpful.
const maxSuggestDistance = 3

// closest returns the candidate with the smallest edit distance to name, or
// empty when nothing is close enough.
func closest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func unknownProfileError(profile, path string, known []string) error {
	if s := closest(profile, known); s != "" {
		return errors.Newf(errors.ErrCodeNotFound,
			"profile %q not found in %s (did you mean %q?)", profile, path, s)
	}
	return errors.Newf(errors.ErrCodeNotFound, "profile %q not found in %s", profile, path)
}
