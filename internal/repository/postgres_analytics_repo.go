package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

// Overview は全エンティティの集計値を返す。
func (s *PostgresStore) Overview(ctx context.Context) (*model.Overview, error) {
	o := &model.Overview{
		ApplicationsByStatus: make(map[model.ApplicationStatus]int),
		JobsByCategory:       make(map[string]int),
	}
	for _, st := range model.ApplicationStatuses {
		o.ApplicationsByStatus[st] = 0
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users),
		   (SELECT COUNT(*) FROM companies),
		   (SELECT COUNT(*) FROM jobs),
		   (SELECT COUNT(*) FROM jobs WHERE status = $1),
		   (SELECT COUNT(*) FROM applications),
		   (SELECT COUNT(*) FROM saved_jobs)`,
		model.JobStatusActive,
	).Scan(&o.TotalUsers, &o.TotalCompanies, &o.TotalJobs, &o.ActiveJobs, &o.TotalApplications, &o.TotalSavedJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}

	if err := s.countGrouped(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`,
		func(key string, n int) { o.ApplicationsByStatus[model.ApplicationStatus(key)] = n },
	); err != nil {
		return nil, err
	}
	if err := s.countGrouped(ctx,
		`SELECT category, COUNT(*) FROM jobs GROUP BY category`,
		func(key string, n int) { o.JobsByCategory[key] = n },
	); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PostgresStore) countGrouped(ctx context.Context, query string, set func(key string, n int)) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to aggregate: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan aggregate: %w", err)
		}
		set(key, n)
	}
	return rows.Err()
}
