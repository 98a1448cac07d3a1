package models

// Request types

type LoginRequest struct {
	Name string `json:"name"`
}

// Index fields are pointers so a missing field can be told apart from a
// legitimate zero index.
type VoteRequest struct {
	OriginalIndex  *int  `json:"original_index"`
	CandidateIndex *int  `json:"candidate_index"`
	IsCover        *bool `json:"is_cover"`
}

// Response types

type LoginResponse struct {
	User string `json:"user"`
}

// Pair is the next undecided candidate handed to a reviewer. Indexes address
// the pair positionally: OriginalIndex into the global store order,
// CandidateIndex into the parent's candidate list.
type Pair struct {
	OriginalID     string    `json:"original_id"`
	OriginalTitle  string    `json:"original_title"`
	SongNumber     int       `json:"song_number"`
	Candidate      Candidate `json:"candidate"`
	OriginalIndex  int       `json:"original_index"`
	CandidateIndex int       `json:"candidate_index"`
}

type VoteResponse struct {
	Success bool `json:"success"`
}

// VoteSummary is one row of the voted-candidates listing.
type VoteSummary struct {
	User           string `json:"user"`
	OriginalTitle  string `json:"original_title"`
	CandidateTitle string `json:"candidate_title"`
	CandidateID    string `json:"candidate_id"`
	IsCover        bool   `json:"is_cover"`
	VotesYes       int    `json:"votes_yes"`
	VotesNo        int    `json:"votes_no"`
}
