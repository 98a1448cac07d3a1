package reviewers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coverhub/pkg/models"
)

func revs(names ...string) []models.Reviewer {
	out := make([]models.Reviewer, 0, len(names))
	for _, n := range names {
		out = append(out, models.Reviewer{Name: n})
	}
	return out
}

func TestMatchExact(t *testing.T) {
	assert.Equal(t, "Ann", Match("Ann", revs("Ann", "Bob")))
}

func TestMatchNormalizes(t *testing.T) {
	assert.Equal(t, "Ann", Match("  aNN ", revs("Ann", "Bob")))
}

func TestMatchEditDistanceBoundary(t *testing.T) {
	reviewers := revs("Charlotte")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"one edit matches", "Charlotta", "Charlotte"},
		{"two edits match", "Charlot", "Charlotte"},
		{"two edits with noise match", "Charlotta!", "Charlotte"},
		{"three edits fall back", "Charlo", models.FallbackBucket},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.input, reviewers))
		})
	}
}

func TestMatchTieGoesToFirstListed(t *testing.T) {
	// "bib" is one edit from both "bob" and "bab"
	assert.Equal(t, "bob", Match("bib", revs("bob", "bab")))
	assert.Equal(t, "bab", Match("bib", revs("bab", "bob")))
}

func TestMatchEmptyInput(t *testing.T) {
	// distance to every name exceeds the cutoff
	assert.Equal(t, models.FallbackBucket, Match("", revs("Charlotte", "Benjamin")))

	// unless a name is short enough to be reachable by inserts alone
	assert.Equal(t, "Al", Match("", revs("Al")))
}

func TestMatchNoReviewers(t *testing.T) {
	assert.Equal(t, models.FallbackBucket, Match("anyone", nil))
}

func TestMatchMultiByteNames(t *testing.T) {
	// one accent substitution plus one plain substitution is two edits,
	// which byte counting would inflate to three
	assert.Equal(t, "Søren", Match("Sorin", revs("Søren")))
	assert.Equal(t, "Renée", Match("Renee", revs("Renée", "Bob")))
	assert.Equal(t, models.FallbackBucket, Match("Sirine", revs("Søren")))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"ann", "ann", 0},
		{"søren", "soren", 1},
		{"renée", "renee", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
