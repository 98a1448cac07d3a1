package models

// IncomingCandidate is the shape the scraper hands over for one candidate.
// Vote state never travels over the sync boundary.
type IncomingCandidate struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Uploader string `json:"uploader"`
	URL      string `json:"url"`
}

// IncomingSong is one scraped Original plus its candidate covers.
type IncomingSong struct {
	OriginalID      string              `json:"original_id"`
	OriginalTitle   string              `json:"original_title"`
	CandidateCovers []IncomingCandidate `json:"candidate_covers"`
}

type SyncRequest struct {
	Songs []IncomingSong `json:"songs"`
}

type SyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
