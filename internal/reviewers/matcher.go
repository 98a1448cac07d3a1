package reviewers

import (
	"strings"

	"coverhub/pkg/models"
)

// maxEditDistance is how far a typed name may drift from a reviewer name
// and still count as that reviewer.
const maxEditDistance = 2

// Match resolves free-text input to the closest known reviewer name, or the
// fallback bucket when nothing is within maxEditDistance. Ties go to the
// reviewer seen first in list order.
func Match(input string, revs []models.Reviewer) string {
	normalized := normalizeName(input)

	best := ""
	bestDist := -1
	for _, rev := range revs {
		d := levenshteinDistance(normalized, normalizeName(rev.Name))
		if bestDist < 0 || d < bestDist {
			best = rev.Name
			bestDist = d
		}
	}

	if bestDist < 0 || bestDist > maxEditDistance {
		return models.FallbackBucket
	}
	return best
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// levenshteinDistance calculates the edit distance between two strings.
// Runes, not bytes: a multi-byte character counts as one edit.
func levenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	matrix := make([][]int, len(ra)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(rb)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(ra)][len(rb)]
}

func minOf(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
