package models

// Stats is the corpus summary, global or filtered to one reviewer.
//
// Rejected counts Originals where every candidate is decided and every
// decision is "not a cover"; an Original with no candidates is not rejected.
// Pending counts Originals where no candidate has received any vote yet.
type Stats struct {
	TotalOriginals  int `json:"total_originals"`
	WithCovers      int `json:"with_covers"`
	Completed       int `json:"completed"`
	Rejected        int `json:"rejected"`
	Pending         int `json:"pending"`
	ConfirmedCovers int `json:"confirmed_covers"`
	TotalVotes      int `json:"total_votes"`
}

// UserStats extends Stats with the reviewer's backlog and most recent vote.
// LastVoted and LastPair are null until the reviewer's scope has seen a vote.
type UserStats struct {
	Stats
	SongsAssigned int          `json:"songs_assigned"`
	LastVoted     *VoteSummary `json:"last_voted"`
	LastPair      *Pair        `json:"last_pair"`
}
