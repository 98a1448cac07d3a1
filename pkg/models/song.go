package models

import "time"

// FallbackBucket is the assignment bucket for work that no named reviewer
// owns, and the identity fallback when a login name matches nobody.
const FallbackBucket = "others"

// ConfirmedQuota is the number of confirmed covers after which an Original
// is considered complete and stops surfacing pairs.
const ConfirmedQuota = 3

// Candidate is a single scraped track proposed as a cover of its parent
// Original. IsCover is nil until the first vote lands; after that it always
// reflects the current tally (strictly more yes than no votes).
type Candidate struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Uploader        string     `json:"uploader"`
	URL             string     `json:"url"`
	IsCoverVotes    int        `json:"is_cover_votes"`
	IsNotCoverVotes int        `json:"is_not_cover_votes"`
	IsCover         *bool      `json:"isCover"`
	VoteTimestamp   *time.Time `json:"vote_timestamp,omitempty"`
}

// Decided reports whether any vote has been cast on the candidate.
func (c Candidate) Decided() bool {
	return c.IsCover != nil
}

// Confirmed reports whether the candidate currently counts as a cover.
func (c Candidate) Confirmed() bool {
	return c.IsCover != nil && *c.IsCover
}

// Original is one source song together with every candidate cover scraped
// for it, in insertion order.
type Original struct {
	OriginalID      string      `json:"original_id"`
	OriginalTitle   string      `json:"original_title"`
	SongNumber      int         `json:"song_number"`
	AssignedUser    string      `json:"assigned_user"`
	CandidateCovers []Candidate `json:"candidate_covers"`
}

// ConfirmedCovers counts candidates whose current tally says "cover".
func (o Original) ConfirmedCovers() int {
	n := 0
	for _, c := range o.CandidateCovers {
		if c.Confirmed() {
			n++
		}
	}
	return n
}
