package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coverhub/pkg/database"
	"coverhub/pkg/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedSong(t *testing.T, repo *Repo, id, user string, candIDs ...string) {
	t.Helper()

	cands := make([]models.Candidate, 0, len(candIDs))
	for _, cid := range candIDs {
		cands = append(cands, models.Candidate{ID: cid, Title: "cover " + cid})
	}
	require.NoError(t, repo.Insert(context.Background(), models.Original{
		OriginalID:      id,
		OriginalTitle:   "song " + id,
		AssignedUser:    user,
		CandidateCovers: cands,
	}))
}

func TestInsertAndGet(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1", "c2")

	got, seq, err := repo.GetByOriginalID(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Positive(t, seq)
	assert.Equal(t, "song a", got.OriginalTitle)
	assert.Equal(t, "Ann", got.AssignedUser)
	assert.Equal(t, 1, got.SongNumber)
	require.Len(t, got.CandidateCovers, 2)
	assert.Equal(t, "c1", got.CandidateCovers[0].ID)
	assert.Nil(t, got.CandidateCovers[0].IsCover)
	assert.Zero(t, got.CandidateCovers[0].IsCoverVotes)
}

func TestGetMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	got, seq, err := repo.GetByOriginalID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, seq)
}

func TestSongNumbersIncrement(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann")
	seedSong(t, repo, "b", "Bob")
	seedSong(t, repo, "c", "others")

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 1, all[0].SongNumber)
	assert.Equal(t, 2, all[1].SongNumber)
	assert.Equal(t, 3, all[2].SongNumber)
}

func TestAppendCandidatesSkipsKnownIDs(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1", "c2")
	_, seq, err := repo.GetByOriginalID(ctx, "a")
	require.NoError(t, err)

	appended, err := repo.AppendCandidates(ctx, seq, []models.Candidate{
		{ID: "c2", Title: "duplicate"},
		{ID: "c3", Title: "new one"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, appended)

	got, _, err := repo.GetByOriginalID(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.CandidateCovers, 3)
	assert.Equal(t, []string{"c1", "c2", "c3"}, candidateIDs(*got))
	// the stored c2 keeps its original title, the duplicate was dropped
	assert.Equal(t, "cover c2", got.CandidateCovers[1].Title)
}

func TestApplyVoteTally(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1")

	rec, err := repo.ApplyVote(ctx, 0, 0, true, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.IsCover)
	assert.Equal(t, 1, rec.VotesYes)
	assert.Equal(t, 0, rec.VotesNo)
	assert.Equal(t, "Ann", rec.AssignedUser)
	assert.Equal(t, "a", rec.OriginalID)

	// a contrary vote makes it 1-1; ties resolve to not-a-cover
	rec, err = repo.ApplyVote(ctx, 0, 0, false, time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.False(t, rec.IsCover)
	assert.Equal(t, 1, rec.VotesYes)
	assert.Equal(t, 1, rec.VotesNo)

	got, _, err := repo.GetByOriginalID(ctx, "a")
	require.NoError(t, err)
	cand := got.CandidateCovers[0]
	require.NotNil(t, cand.IsCover)
	assert.False(t, *cand.IsCover)
	assert.NotNil(t, cand.VoteTimestamp)
}

func TestApplyVoteReplaySequences(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1")

	votes := []bool{true, false, false, true, true, true, false}
	yes, no := 0, 0
	for _, v := range votes {
		if v {
			yes++
		} else {
			no++
		}

		rec, err := repo.ApplyVote(ctx, 0, 0, v, time.Now().UTC())
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, yes, rec.VotesYes)
		assert.Equal(t, no, rec.VotesNo)
		// derived state always re-evaluates the comparison
		assert.Equal(t, yes > no, rec.IsCover)
	}
}

func TestApplyVoteOutOfRange(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1")

	tests := []struct {
		name                string
		original, candidate int
	}{
		{"original out of range", 5, 0},
		{"candidate out of range", 0, 5},
		{"negative original", -1, 0},
		{"negative candidate", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := repo.ApplyVote(ctx, tt.original, tt.candidate, true, time.Now().UTC())
			require.NoError(t, err)
			assert.Nil(t, rec)
		})
	}

	// no partial mutation on the not-found path
	got, _, err := repo.GetByOriginalID(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, got.CandidateCovers[0].IsCoverVotes)
	assert.Zero(t, got.CandidateCovers[0].IsNotCoverVotes)
}

func TestListVoted(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1", "c2")
	seedSong(t, repo, "b", "Bob", "c3")

	_, err := repo.ApplyVote(ctx, 0, 1, true, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.ApplyVote(ctx, 1, 0, false, time.Now().UTC())
	require.NoError(t, err)

	voted, err := repo.ListVoted(ctx)
	require.NoError(t, err)
	require.Len(t, voted, 2)

	assert.Equal(t, "Ann", voted[0].User)
	assert.Equal(t, "c2", voted[0].CandidateID)
	assert.True(t, voted[0].IsCover)
	assert.Equal(t, 1, voted[0].VotesYes)

	assert.Equal(t, "Bob", voted[1].User)
	assert.Equal(t, "c3", voted[1].CandidateID)
	assert.False(t, voted[1].IsCover)
}

func TestFinalListKeepsOnlyConfirmed(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	seedSong(t, repo, "a", "Ann", "c1", "c2")
	seedSong(t, repo, "b", "Bob", "c3")
	seedSong(t, repo, "c", "others", "c4")

	_, err := repo.ApplyVote(ctx, 0, 0, true, time.Now().UTC())
	require.NoError(t, err)
	_, err = repo.ApplyVote(ctx, 1, 0, false, time.Now().UTC())
	require.NoError(t, err)

	final, err := repo.FinalList(ctx)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, "a", final[0].OriginalID)
	require.Len(t, final[0].CandidateCovers, 1)
	assert.Equal(t, "c1", final[0].CandidateCovers[0].ID)
}

func candidateIDs(o models.Original) []string {
	out := make([]string, 0, len(o.CandidateCovers))
	for _, c := range o.CandidateCovers {
		out = append(out, c.ID)
	}
	return out
}
