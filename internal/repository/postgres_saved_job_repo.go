package repository

import (
	"context"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

// SaveJob は求人を保存する。(user_id, job_id)の主キーにより冪等となる。
func (s *PostgresStore) SaveJob(ctx context.Context, userID, jobID string) error {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_jobs (user_id, job_id, created_at)
		 SELECT $1, id, $3 FROM jobs WHERE id = $2
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		userID, jobID, s.now(),
	)
	if err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	// 挿入されなかった場合は保存済みか求人が存在しないかのどちらか
	job, err := s.FindJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return model.NewJobNotFoundError(jobID)
	}
	return nil
}

// UnsaveJob は保存を解除する。未保存の場合も何もせずnilを返す。
func (s *PostgresStore) UnsaveJob(ctx context.Context, userID, jobID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`,
		userID, jobID,
	); err != nil {
		return fmt.Errorf("failed to unsave job: %w", err)
	}
	return nil
}

// ListSavedJobs はユーザーが保存した求人を保存順で返す。
// 求人とINNER JOINするため削除済みの求人は含まれない。
func (s *PostgresStore) ListSavedJobs(ctx context.Context, userID string) ([]*model.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT j.id, j.company_id, j.title, j.category, j.description, j.location,
		 j.experience_level, j.job_type, j.work_mode, j.salary_min, j.salary_max,
		 j.status, j.applicant_count, j.posted_at, j.updated_at
		 FROM saved_jobs sj
		 INNER JOIN jobs j ON j.id = sj.job_id
		 WHERE sj.user_id = $1
		 ORDER BY sj.seq`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}
