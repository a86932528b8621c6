package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

const applicationColumns = `id, job_id, user_id, status, cover_letter, resume, applied_at, updated_at`

func scanApplication(row rowScanner) (*model.Application, error) {
	a := &model.Application{}
	err := row.Scan(&a.ID, &a.JobID, &a.UserID, &a.Status, &a.CoverLetter, &a.Resume, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateApplication は応募を作成し、求人の応募者数を1増やす。
// 求人行をFOR UPDATEでロックし、同一トランザクション内で挿入とカウンタ更新を行う。
// (job_id, user_id)が既に存在する場合はON CONFLICT DO NOTHINGにより挿入されず、
// ロールバックしてConflictを返す。
func (s *PostgresStore) CreateApplication(ctx context.Context, userID, jobID, coverLetter, resume string) (*model.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var status model.JobStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM jobs WHERE id = $1 FOR UPDATE`, jobID,
	).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock job: %w", err)
	}
	if status != model.JobStatusActive {
		return nil, model.NewJobClosedError(jobID)
	}

	now := s.now()
	a := &model.Application{
		ID:          s.newID(),
		JobID:       jobID,
		UserID:      userID,
		Status:      model.ApplicationStatusPending,
		CoverLetter: coverLetter,
		Resume:      resume,
		AppliedAt:   now,
		UpdatedAt:   now,
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (job_id, user_id) DO NOTHING`,
		a.ID, a.JobID, a.UserID, a.Status, a.CoverLetter, a.Resume, a.AppliedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 0 {
		return nil, model.NewDuplicateApplicationError()
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE jobs SET applicant_count = applicant_count + 1 WHERE id = $1`, jobID,
	); err != nil {
		return nil, fmt.Errorf("failed to increment applicant count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return a, nil
}

// ListApplicationsByUser はユーザーの応募を作成順で返す。
func (s *PostgresStore) ListApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error) {
	return s.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY seq`, userID)
}

// ListApplicationsByJob は求人への応募を作成順で返す。
func (s *PostgresStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	return s.queryApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY seq`, jobID)
}

func (s *PostgresStore) queryApplications(ctx context.Context, query string, arg string) ([]*model.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*model.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// UpdateApplicationStatus は応募の選考状態を更新する。
func (s *PostgresStore) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, model.NewInvalidApplicationStatusError(string(status))
	}

	a, err := scanApplication(s.db.QueryRowContext(ctx,
		`UPDATE applications SET status = $2, updated_at = $3
		 WHERE id = $1
		 RETURNING `+applicationColumns,
		id, status, s.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewApplicationNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return a, nil
}
