package review

import "coverhub/pkg/models"

// NextPair picks the next undecided candidate for a reviewer.
//
// Originals are walked in store order. An Original that already holds the
// confirmed-cover quota is complete: its remaining undecided candidates are
// never surfaced again. The first undecided candidate of the first
// non-complete Original wins. Pure and idempotent; repeated calls without
// intervening votes return the same pair.
//
// Returned indexes address the pair against the full store-ordered slice,
// not the reviewer's filtered view.
func NextPair(songs []models.Original, user string) *models.Pair {
	for i, o := range songs {
		if o.AssignedUser != user {
			continue
		}
		if o.ConfirmedCovers() >= models.ConfirmedQuota {
			continue
		}
		for j, cand := range o.CandidateCovers {
			if cand.Decided() {
				continue
			}
			return &models.Pair{
				OriginalID:     o.OriginalID,
				OriginalTitle:  o.OriginalTitle,
				SongNumber:     o.SongNumber,
				Candidate:      cand,
				OriginalIndex:  i,
				CandidateIndex: j,
			}
		}
	}
	return nil
}
