package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coverhub/pkg/models"
)

// Repo is the storage layer for Originals and their nested Candidates.
// All positional (index-based) addressing is resolved here, against the
// explicit seq ordering, and nowhere else.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// VoteRecord describes one applied vote with enough context to report and
// broadcast it.
type VoteRecord struct {
	OriginalID     string
	OriginalTitle  string
	AssignedUser   string
	CandidateID    string
	CandidateTitle string
	IsCover        bool
	VotesYes       int
	VotesNo        int
	At             time.Time
}

// ListAll returns every Original with its candidates, both in store order.
func (r *Repo) ListAll(ctx context.Context) ([]models.Original, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT seq, original_id, original_title, song_number, assigned_user
		FROM originals
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list originals: %w", err)
	}
	defer rows.Close()

	var out []models.Original
	indexBySeq := make(map[int64]int)
	for rows.Next() {
		var (
			seq int64
			o   models.Original
		)
		if err := rows.Scan(&seq, &o.OriginalID, &o.OriginalTitle, &o.SongNumber, &o.AssignedUser); err != nil {
			return nil, fmt.Errorf("scan original: %w", err)
		}
		o.CandidateCovers = []models.Candidate{}
		indexBySeq[seq] = len(out)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("originals rows err: %w", err)
	}

	crows, err := r.DB.QueryContext(ctx, `
		SELECT original_seq, candidate_id, title, uploader, url,
		       votes_yes, votes_no, is_cover, vote_timestamp
		FROM candidates
		ORDER BY original_seq, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var originalSeq int64
		cand, err := scanCandidate(crows, &originalSeq)
		if err != nil {
			return nil, err
		}
		idx, ok := indexBySeq[originalSeq]
		if !ok {
			continue
		}
		out[idx].CandidateCovers = append(out[idx].CandidateCovers, cand)
	}
	if err := crows.Err(); err != nil {
		return nil, fmt.Errorf("candidates rows err: %w", err)
	}
	return out, nil
}

// GetByOriginalID loads one Original and its internal store key, or
// (nil, 0, nil) when it does not exist.
func (r *Repo) GetByOriginalID(ctx context.Context, originalID string) (*models.Original, int64, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT seq, original_id, original_title, song_number, assigned_user
		FROM originals
		WHERE original_id = ?
	`, originalID)

	var (
		seq int64
		o   models.Original
	)
	if err := row.Scan(&seq, &o.OriginalID, &o.OriginalTitle, &o.SongNumber, &o.AssignedUser); err != nil {
		if err == sql.ErrNoRows {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("get original: %w", err)
	}

	crows, err := r.DB.QueryContext(ctx, `
		SELECT original_seq, candidate_id, title, uploader, url,
		       votes_yes, votes_no, is_cover, vote_timestamp
		FROM candidates
		WHERE original_seq = ?
		ORDER BY seq
	`, seq)
	if err != nil {
		return nil, 0, fmt.Errorf("get candidates: %w", err)
	}
	defer crows.Close()

	o.CandidateCovers = []models.Candidate{}
	for crows.Next() {
		var originalSeq int64
		cand, err := scanCandidate(crows, &originalSeq)
		if err != nil {
			return nil, 0, err
		}
		o.CandidateCovers = append(o.CandidateCovers, cand)
	}
	if err := crows.Err(); err != nil {
		return nil, 0, fmt.Errorf("candidate rows err: %w", err)
	}
	return &o, seq, nil
}

// Insert stores a brand-new Original with all its candidates. The song
// number is allocated inside the transaction so concurrent inserts cannot
// reuse one.
func (r *Repo) Insert(ctx context.Context, song models.Original) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	var songNumber int
	if err := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(song_number), 0) + 1 FROM originals
	`).Scan(&songNumber); err != nil {
		return fmt.Errorf("next song number: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO originals (original_id, original_title, song_number, assigned_user)
		VALUES (?, ?, ?, ?)
	`, song.OriginalID, song.OriginalTitle, songNumber, song.AssignedUser)
	if err != nil {
		return fmt.Errorf("insert original: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert original id: %w", err)
	}

	for _, cand := range song.CandidateCovers {
		// OR IGNORE drops in-batch duplicates of the same candidate id
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO candidates (original_seq, candidate_id, title, uploader, url)
			VALUES (?, ?, ?, ?, ?)
		`, seq, cand.ID, cand.Title, cand.Uploader, cand.URL); err != nil {
			return fmt.Errorf("insert candidate %q: %w", cand.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}
	return nil
}

// AppendCandidates appends the given candidates to an existing Original,
// skipping ids already stored. Returns how many were actually appended.
func (r *Repo) AppendCandidates(ctx context.Context, originalSeq int64, cands []models.Candidate) (int, error) {
	appended := 0
	for _, cand := range cands {
		res, err := r.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO candidates (original_seq, candidate_id, title, uploader, url)
			VALUES (?, ?, ?, ?, ?)
		`, originalSeq, cand.ID, cand.Title, cand.Uploader, cand.URL)
		if err != nil {
			return appended, fmt.Errorf("append candidate %q: %w", cand.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return appended, fmt.Errorf("append candidate rows: %w", err)
		}
		appended += int(n)
	}
	return appended, nil
}

// ApplyVote resolves a positionally addressed candidate and applies one
// vote to it. The counter increment and the derived is_cover state are
// computed from the stored row inside a single UPDATE, so a stale snapshot
// on the caller's side cannot lose votes. Returns (nil, nil) when either
// index is out of range.
func (r *Repo) ApplyVote(ctx context.Context, originalIndex, candidateIndex int, isCover bool, at time.Time) (*VoteRecord, error) {
	if originalIndex < 0 || candidateIndex < 0 {
		return nil, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin vote: %w", err)
	}
	defer tx.Rollback()

	var originalSeq int64
	err = tx.QueryRowContext(ctx, `
		SELECT seq FROM originals ORDER BY seq LIMIT 1 OFFSET ?
	`, originalIndex).Scan(&originalSeq)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve original index: %w", err)
	}

	var candidateSeq int64
	err = tx.QueryRowContext(ctx, `
		SELECT seq FROM candidates WHERE original_seq = ? ORDER BY seq LIMIT 1 OFFSET ?
	`, originalSeq, candidateIndex).Scan(&candidateSeq)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve candidate index: %w", err)
	}

	stmt := `
		UPDATE candidates
		SET votes_yes = votes_yes + 1,
		    is_cover = CASE WHEN votes_yes + 1 > votes_no THEN 1 ELSE 0 END,
		    vote_timestamp = ?
		WHERE seq = ?
	`
	if !isCover {
		stmt = `
			UPDATE candidates
			SET votes_no = votes_no + 1,
			    is_cover = CASE WHEN votes_yes > votes_no + 1 THEN 1 ELSE 0 END,
			    vote_timestamp = ?
			WHERE seq = ?
		`
	}
	if _, err := tx.ExecContext(ctx, stmt, at, candidateSeq); err != nil {
		return nil, fmt.Errorf("apply vote: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		SELECT o.original_id, o.original_title, o.assigned_user,
		       c.candidate_id, c.title, c.votes_yes, c.votes_no, c.is_cover
		FROM candidates c
		JOIN originals o ON o.seq = c.original_seq
		WHERE c.seq = ?
	`, candidateSeq)

	var (
		rec     VoteRecord
		title   sql.NullString
		decided sql.NullInt64
	)
	if err := row.Scan(
		&rec.OriginalID, &rec.OriginalTitle, &rec.AssignedUser,
		&rec.CandidateID, &title, &rec.VotesYes, &rec.VotesNo, &decided,
	); err != nil {
		return nil, fmt.Errorf("read vote result: %w", err)
	}
	rec.CandidateTitle = title.String
	rec.IsCover = decided.Valid && decided.Int64 == 1
	rec.At = at

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote: %w", err)
	}
	return &rec, nil
}

// ListVoted returns a summary row for every candidate with at least one
// vote, in store order.
func (r *Repo) ListVoted(ctx context.Context) ([]models.VoteSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.assigned_user, o.original_title,
		       c.title, c.candidate_id, c.is_cover, c.votes_yes, c.votes_no
		FROM candidates c
		JOIN originals o ON o.seq = c.original_seq
		WHERE c.votes_yes + c.votes_no > 0
		ORDER BY c.original_seq, c.seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list voted: %w", err)
	}
	defer rows.Close()

	out := make([]models.VoteSummary, 0)
	for rows.Next() {
		var (
			v       models.VoteSummary
			title   sql.NullString
			decided sql.NullInt64
		)
		if err := rows.Scan(&v.User, &v.OriginalTitle, &title, &v.CandidateID, &decided, &v.VotesYes, &v.VotesNo); err != nil {
			return nil, fmt.Errorf("scan voted row: %w", err)
		}
		v.CandidateTitle = title.String
		v.IsCover = decided.Valid && decided.Int64 == 1
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("voted rows err: %w", err)
	}
	return out, nil
}

// FinalList returns Originals that have at least one confirmed cover, with
// the candidate list narrowed to the confirmed ones.
func (r *Repo) FinalList(ctx context.Context) ([]models.Original, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Original, 0)
	for _, o := range all {
		confirmed := make([]models.Candidate, 0, len(o.CandidateCovers))
		for _, cand := range o.CandidateCovers {
			if cand.Confirmed() {
				confirmed = append(confirmed, cand)
			}
		}
		if len(confirmed) == 0 {
			continue
		}
		o.CandidateCovers = confirmed
		out = append(out, o)
	}
	return out, nil
}

type candidateScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row candidateScanner, originalSeq *int64) (models.Candidate, error) {
	var (
		cand     models.Candidate
		title    sql.NullString
		uploader sql.NullString
		url      sql.NullString
		decided  sql.NullInt64
		votedAt  sql.NullTime
	)
	if err := row.Scan(
		originalSeq, &cand.ID, &title, &uploader, &url,
		&cand.IsCoverVotes, &cand.IsNotCoverVotes, &decided, &votedAt,
	); err != nil {
		return cand, fmt.Errorf("scan candidate: %w", err)
	}
	cand.Title = title.String
	cand.Uploader = uploader.String
	cand.URL = url.String
	if decided.Valid {
		v := decided.Int64 == 1
		cand.IsCover = &v
	}
	if votedAt.Valid {
		t := votedAt.Time
		cand.VoteTimestamp = &t
	}
	return cand, nil
}
