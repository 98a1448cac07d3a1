package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverhub/pkg/models"
)

func boolPtr(v bool) *bool { return &v }

func song(id, user string, cands ...models.Candidate) models.Original {
	return models.Original{
		OriginalID:      id,
		OriginalTitle:   "title " + id,
		AssignedUser:    user,
		CandidateCovers: cands,
	}
}

func undecided(id string) models.Candidate {
	return models.Candidate{ID: id}
}

func confirmed(id string) models.Candidate {
	return models.Candidate{ID: id, IsCoverVotes: 1, IsCover: boolPtr(true)}
}

func rejected(id string) models.Candidate {
	return models.Candidate{ID: id, IsNotCoverVotes: 1, IsCover: boolPtr(false)}
}

func TestNextPairFirstUndecided(t *testing.T) {
	songs := []models.Original{
		song("a", "Ann", rejected("c1"), undecided("c2"), undecided("c3")),
	}

	pair := NextPair(songs, "Ann")
	require.NotNil(t, pair)
	assert.Equal(t, "a", pair.OriginalID)
	assert.Equal(t, "c2", pair.Candidate.ID)
	assert.Equal(t, 0, pair.OriginalIndex)
	assert.Equal(t, 1, pair.CandidateIndex)
}

func TestNextPairSkipsOtherReviewers(t *testing.T) {
	songs := []models.Original{
		song("a", "Bob", undecided("c1")),
		song("b", "Ann", undecided("c2")),
	}

	pair := NextPair(songs, "Ann")
	require.NotNil(t, pair)
	assert.Equal(t, "b", pair.OriginalID)
	// index addresses the full store order, not Ann's filtered view
	assert.Equal(t, 1, pair.OriginalIndex)
}

func TestNextPairQuotaCompletesOriginal(t *testing.T) {
	full := song("a", "Ann",
		confirmed("c1"), confirmed("c2"), confirmed("c3"), undecided("c4"))
	songs := []models.Original{
		full,
		song("b", "Ann", undecided("c5")),
	}

	// c4 is pending but its Original already hit the quota; it is never
	// surfaced again
	pair := NextPair(songs, "Ann")
	require.NotNil(t, pair)
	assert.Equal(t, "b", pair.OriginalID)
	assert.Equal(t, "c5", pair.Candidate.ID)
}

func TestNextPairQuotaOnlyCountsConfirmed(t *testing.T) {
	songs := []models.Original{
		song("a", "Ann", rejected("c1"), rejected("c2"), rejected("c3"), undecided("c4")),
	}

	pair := NextPair(songs, "Ann")
	require.NotNil(t, pair)
	assert.Equal(t, "c4", pair.Candidate.ID)
}

func TestNextPairIdempotent(t *testing.T) {
	songs := []models.Original{
		song("a", "Ann", undecided("c1"), undecided("c2")),
	}

	first := NextPair(songs, "Ann")
	second := NextPair(songs, "Ann")
	require.NotNil(t, first)
	assert.Equal(t, first, second)
}

func TestNextPairNothingLeft(t *testing.T) {
	songs := []models.Original{
		song("a", "Ann", confirmed("c1"), rejected("c2")),
		song("b", "Bob", undecided("c3")),
	}

	assert.Nil(t, NextPair(songs, "Ann"))
	assert.Nil(t, NextPair(nil, "Ann"))
}
