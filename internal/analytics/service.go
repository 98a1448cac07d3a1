package analytics

import "coverhub/pkg/models"

// Compute folds summary statistics over the given Originals. Read-only;
// recomputing at any time over the same data gives the same answer.
func Compute(songs []models.Original) models.Stats {
	var stats models.Stats
	stats.TotalOriginals = len(songs)

	for _, o := range songs {
		confirmed := o.ConfirmedCovers()
		stats.ConfirmedCovers += confirmed
		if confirmed >= 1 {
			stats.WithCovers++
		}
		if confirmed >= models.ConfirmedQuota {
			stats.Completed++
		}

		rejected := len(o.CandidateCovers) > 0
		pending := true
		for _, cand := range o.CandidateCovers {
			stats.TotalVotes += cand.IsCoverVotes + cand.IsNotCoverVotes
			if cand.IsCoverVotes+cand.IsNotCoverVotes > 0 {
				pending = false
			}
			if !cand.Decided() || cand.Confirmed() {
				rejected = false
			}
		}
		if rejected {
			stats.Rejected++
		}
		if pending {
			stats.Pending++
		}
	}

	return stats
}

// ComputeUser folds the same statistics over one reviewer's backlog and
// adds the most recent vote in that scope, with its full pair context.
func ComputeUser(songs []models.Original, user string) models.UserStats {
	assigned := make([]models.Original, 0)
	for _, o := range songs {
		if o.AssignedUser == user {
			assigned = append(assigned, o)
		}
	}

	out := models.UserStats{
		Stats:         Compute(assigned),
		SongsAssigned: len(assigned),
	}

	// Most recent vote by timestamp, over the global indexes so the pair
	// context stays addressable.
	for i, o := range songs {
		if o.AssignedUser != user {
			continue
		}
		for j, cand := range o.CandidateCovers {
			if cand.VoteTimestamp == nil {
				continue
			}
			if out.LastPair != nil && !cand.VoteTimestamp.After(*out.LastPair.Candidate.VoteTimestamp) {
				continue
			}
			out.LastVoted = &models.VoteSummary{
				User:           o.AssignedUser,
				OriginalTitle:  o.OriginalTitle,
				CandidateTitle: cand.Title,
				CandidateID:    cand.ID,
				IsCover:        cand.Confirmed(),
				VotesYes:       cand.IsCoverVotes,
				VotesNo:        cand.IsNotCoverVotes,
			}
			out.LastPair = &models.Pair{
				OriginalID:     o.OriginalID,
				OriginalTitle:  o.OriginalTitle,
				SongNumber:     o.SongNumber,
				Candidate:      cand,
				OriginalIndex:  i,
				CandidateIndex: j,
			}
		}
	}

	return out
}
