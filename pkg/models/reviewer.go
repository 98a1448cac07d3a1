package models

// Reviewer is a known human validator. The reviewer set is managed outside
// the engine and loaded fresh per operation.
type Reviewer struct {
	Name string `json:"name"`
}
