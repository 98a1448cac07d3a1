package reviewers

import (
	"context"
	"database/sql"
	"fmt"

	"coverhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// List returns every known reviewer in insertion order. Insertion order is
// what pins fuzzy-match tie-breaking, so the ORDER BY matters.
func (r *Repo) List(ctx context.Context) ([]models.Reviewer, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT name
		FROM reviewers
		ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list reviewers: %w", err)
	}
	defer rows.Close()

	var out []models.Reviewer
	for rows.Next() {
		var rev models.Reviewer
		if err := rows.Scan(&rev.Name); err != nil {
			return nil, fmt.Errorf("scan reviewer: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Seed inserts the given names, ignoring ones already present.
func (r *Repo) Seed(ctx context.Context, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO reviewers (name) VALUES (?)
		`, name); err != nil {
			return fmt.Errorf("seed reviewer %q: %w", name, err)
		}
	}
	return nil
}
