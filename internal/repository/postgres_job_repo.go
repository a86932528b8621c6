package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hitoshi/jobboard/internal/model"
)

const companyColumns = `id, name, tier, size, founded_year, created_at`

const jobColumns = `id, company_id, title, category, description, location,
	experience_level, job_type, work_mode, salary_min, salary_max,
	status, applicant_count, posted_at, updated_at`

func scanCompany(row rowScanner) (*model.Company, error) {
	c := &model.Company{}
	if err := row.Scan(&c.ID, &c.Name, &c.Tier, &c.Size, &c.FoundedYear, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func scanJob(row rowScanner) (*model.Job, error) {
	j := &model.Job{}
	err := row.Scan(
		&j.ID, &j.CompanyID, &j.Title, &j.Category, &j.Description, &j.Location,
		&j.ExperienceLevel, &j.JobType, &j.WorkMode, &j.SalaryMin, &j.SalaryMax,
		&j.Status, &j.ApplicantCount, &j.PostedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// CreateCompany は企業を作成する。
func (s *PostgresStore) CreateCompany(ctx context.Context, company *model.Company) (*model.Company, error) {
	c := *company
	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, tier, size, founded_year, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Tier, c.Size, c.FoundedYear, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, model.NewValidationError("id", "企業IDが重複しています")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert company: %w", err)
	}
	return &c, nil
}

// FindCompanyByID は指定IDの企業を取得する。見つからない場合はnilを返す。
func (s *PostgresStore) FindCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	c, err := scanCompany(s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find company: %w", err)
	}
	return c, nil
}

// ListCompanies は全企業を登録順で返す。
func (s *PostgresStore) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []*model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// ListJobs は全求人を登録順で返す。
func (s *PostgresStore) ListJobs(ctx context.Context) ([]*model.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

func collectJobs(rows *sql.Rows) ([]*model.Job, error) {
	jobs := make([]*model.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// FindJobByID は指定IDの求人を取得する。見つからない場合はnilを返す。
func (s *PostgresStore) FindJobByID(ctx context.Context, id string) (*model.Job, error) {
	j, err := scanJob(s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find job: %w", err)
	}
	return j, nil
}

// CreateJob は求人を作成する。
func (s *PostgresStore) CreateJob(ctx context.Context, input model.JobInput) (*model.Job, error) {
	if !model.ValidSalaryRange(input.SalaryMin, input.SalaryMax) {
		return nil, model.NewValidationError("salary", "給与は0以上かつ下限が上限以下である必要があります")
	}

	now := s.now()
	j := &model.Job{
		ID:              s.newID(),
		CompanyID:       input.CompanyID,
		Title:           input.Title,
		Category:        input.Category,
		Description:     input.Description,
		Location:        input.Location,
		ExperienceLevel: input.ExperienceLevel,
		JobType:         input.JobType,
		WorkMode:        input.WorkMode,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		Status:          model.JobStatusActive,
		PostedAt:        now,
		UpdatedAt:       now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14)`,
		j.ID, j.CompanyID, j.Title, j.Category, j.Description, j.Location,
		j.ExperienceLevel, j.JobType, j.WorkMode, j.SalaryMin, j.SalaryMax,
		j.Status, j.PostedAt, j.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	return j, nil
}

// UpdateJob は求人行をロックしてパッチをマージし、全カラムを書き戻す。
func (s *PostgresStore) UpdateJob(ctx context.Context, id string, patch model.JobPatch) (*model.Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := scanJob(tx.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewJobNotFoundError(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock job: %w", err)
	}

	merged := patch.Apply(*current)
	if !model.ValidSalaryRange(merged.SalaryMin, merged.SalaryMax) {
		return nil, model.NewValidationError("salary", "給与は0以上かつ下限が上限以下である必要があります")
	}
	merged.UpdatedAt = s.now()

	_, err = tx.ExecContext(ctx,
		`UPDATE jobs SET company_id = $2, title = $3, category = $4, description = $5,
		 location = $6, experience_level = $7, job_type = $8, work_mode = $9,
		 salary_min = $10, salary_max = $11, status = $12, updated_at = $13
		 WHERE id = $1`,
		merged.ID, merged.CompanyID, merged.Title, merged.Category, merged.Description,
		merged.Location, merged.ExperienceLevel, merged.JobType, merged.WorkMode,
		merged.SalaryMin, merged.SalaryMax, merged.Status, merged.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &merged, nil
}

// DeleteJob は求人を削除する。保存済み求人はON DELETE CASCADEで削除される。
func (s *PostgresStore) DeleteJob(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewJobNotFoundError(id)
	}
	return nil
}

// CloseJobsPostedBefore はcutoffより前に掲載された募集中の求人を募集終了にする。
func (s *PostgresStore) CloseJobsPostedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = $1, updated_at = $2
		 WHERE status = $3 AND posted_at < $4`,
		model.JobStatusClosed, s.now(), model.JobStatusActive, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to close expired jobs: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}
