package reviewers

import (
	"math/rand"

	"coverhub/pkg/models"
)

// PickBucket chooses an assignment bucket for a brand-new Original,
// uniformly at random over the reviewer names plus the fallback bucket.
// Best-effort load spreading; existing backlog is not consulted.
func PickBucket(revs []models.Reviewer) string {
	n := rand.Intn(len(revs) + 1)
	if n == len(revs) {
		return models.FallbackBucket
	}
	return revs[n].Name
}
