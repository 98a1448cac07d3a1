package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"coverhub/internal/catalog"
	"coverhub/internal/reviewers"
	"coverhub/pkg/models"
)

// Service reconciles scraped batches into the catalog with at-most-once
// insertion of any (original_id, candidate id) pair.
type Service struct {
	Catalog   *catalog.Repo
	Reviewers *reviewers.Repo
}

func NewService(cat *catalog.Repo, revs *reviewers.Repo) *Service {
	return &Service{Catalog: cat, Reviewers: revs}
}

// Report summarizes one batch. Invalid entries are rejected individually
// and never abort the rest of the batch; Rejected carries their ids so the
// caller can see which entries were dropped.
type Report struct {
	BatchID  string
	Inserted int
	Updated  int
	Invalid  int
	Rejected []string
}

func (r Report) Message() string {
	msg := fmt.Sprintf("inserted %d, updated %d, invalid %d", r.Inserted, r.Updated, r.Invalid)
	if len(r.Rejected) > 0 {
		msg += " (rejected: " + strings.Join(r.Rejected, ", ") + ")"
	}
	return msg
}

// Changed reports whether the batch altered stored state at all.
func (r Report) Changed() bool {
	return r.Inserted > 0 || r.Updated > 0
}

// Sync merges one scraped batch. New Originals get a reviewer bucket and a
// song number; existing ones only ever gain candidates they do not already
// hold. Assignment and song number are never touched after creation.
func (s *Service) Sync(ctx context.Context, songs []models.IncomingSong) (Report, error) {
	report := Report{BatchID: uuid.NewString()}

	revs, err := s.Reviewers.List(ctx)
	if err != nil {
		return report, fmt.Errorf("load reviewers: %w", err)
	}

	for _, entry := range songs {
		if !validEntry(entry) {
			report.Invalid++
			report.Rejected = append(report.Rejected, rejectedName(entry))
			log.Printf("[sync] batch %s: rejected malformed entry %q", report.BatchID, entry.OriginalID)
			continue
		}

		existing, seq, err := s.Catalog.GetByOriginalID(ctx, entry.OriginalID)
		if err != nil {
			return report, err
		}

		if existing == nil {
			song := models.Original{
				OriginalID:      entry.OriginalID,
				OriginalTitle:   entry.OriginalTitle,
				AssignedUser:    reviewers.PickBucket(revs),
				CandidateCovers: incomingCandidates(entry),
			}
			if err := s.Catalog.Insert(ctx, song); err != nil {
				return report, err
			}
			report.Inserted++
			continue
		}

		appended, err := s.Catalog.AppendCandidates(ctx, seq, incomingCandidates(entry))
		if err != nil {
			return report, err
		}
		if appended > 0 {
			report.Updated++
		}
	}

	return report, nil
}

// validEntry checks required fields: the original needs an id and a title,
// and every candidate needs an id.
func validEntry(entry models.IncomingSong) bool {
	if strings.TrimSpace(entry.OriginalID) == "" || strings.TrimSpace(entry.OriginalTitle) == "" {
		return false
	}
	for _, cand := range entry.CandidateCovers {
		if strings.TrimSpace(cand.ID) == "" {
			return false
		}
	}
	return true
}

// rejectedName labels a rejected entry for the response message. An entry
// can be invalid precisely because it has no original_id.
func rejectedName(entry models.IncomingSong) string {
	if id := strings.TrimSpace(entry.OriginalID); id != "" {
		return id
	}
	return "(missing original_id)"
}

func incomingCandidates(entry models.IncomingSong) []models.Candidate {
	out := make([]models.Candidate, 0, len(entry.CandidateCovers))
	for _, cand := range entry.CandidateCovers {
		out = append(out, models.Candidate{
			ID:       cand.ID,
			Title:    cand.Title,
			Uploader: cand.Uploader,
			URL:      cand.URL,
		})
	}
	return out
}
