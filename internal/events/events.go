package events

import "time"

const (
	TypeVoteCast  = "vote.cast"
	TypeSyncBatch = "sync.batch"
)

// VoteEvent is broadcast after every accepted vote.
type VoteEvent struct {
	Type        string    `json:"type"`
	User        string    `json:"user"`
	OriginalID  string    `json:"original_id"`
	CandidateID string    `json:"candidate_id"`
	IsCover     bool      `json:"is_cover"`
	VotesYes    int       `json:"votes_yes"`
	VotesNo     int       `json:"votes_no"`
	At          time.Time `json:"at"`
}

// SyncEvent is broadcast after every sync batch that changed stored state.
type SyncEvent struct {
	Type     string    `json:"type"`
	BatchID  string    `json:"batch_id"`
	Inserted int       `json:"inserted"`
	Updated  int       `json:"updated"`
	Invalid  int       `json:"invalid"`
	At       time.Time `json:"at"`
}
