package indexdb

import "context"

// GoalStat aggregates outcomes for one goal across episodes.
type GoalStat struct {
	Goal        string `db:"goal" json:"goal"`
	Completed   int    `db:"completed" json:"completed"`
	Failed      int    `db:"failed" json:"failed"`
	Skipped     int    `db:"skipped" json:"skipped"`
	Interrupted int    `db:"interrupted" json:"interrupted"`
}

// SuccessRate is completed over finished attempts. Skips never started and
// interruptions were cut short, so neither counts.
func (g GoalStat) SuccessRate() float64 {
	n := g.Completed + g.Failed
	if n == 0 {
		return 0
	}
	return float64(g.Completed) / float64(n)
}

// Episodes lists the most recent episodes first.
func (s *SQLiteIndex) Episodes(ctx context.Context, limit int) ([]Episode, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []Episode
	err := s.db.SelectContext(ctx, &out, `SELECT * FROM episodes ORDER BY ended_at DESC, id LIMIT ?`, limit)
	return out, err
}

func (s *SQLiteIndex) EpisodeOutcomes(ctx context.Context, episodeID string) ([]GoalOutcome, error) {
	var out []GoalOutcome
	err := s.db.SelectContext(ctx, &out, `SELECT * FROM goal_outcomes WHERE episode_id = ? ORDER BY seq`, episodeID)
	return out, err
}

func (s *SQLiteIndex) GoalStats(ctx context.Context) ([]GoalStat, error) {
	var out []GoalStat
	err := s.db.SelectContext(ctx, &out, `
		SELECT goal,
			SUM(outcome = 'Completed') AS completed,
			SUM(outcome = 'Failed') AS failed,
			SUM(outcome = 'Skipped') AS skipped,
			SUM(outcome = 'Interrupted') AS interrupted
		FROM goal_outcomes
		GROUP BY goal
		ORDER BY goal`)
	return out, err
}

// CatalogDigest returns the stored digest for a catalog row, or "".
func (s *SQLiteIndex) CatalogDigest(ctx context.Context, name string) (string, error) {
	var digest string
	err := s.db.GetContext(ctx, &digest, `SELECT digest FROM catalogs WHERE name = ?`, name)
	if err != nil {
		return "", err
	}
	return digest, nil
}
