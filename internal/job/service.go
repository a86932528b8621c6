package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// Sanitizer はユーザー入力テキストのサニタイズを行う。
type Sanitizer interface {
	SanitizeRichText(rawHTML string) string
	SanitizePlainText(raw string) string
}

// Service は求人および企業参照のサービス層。
type Service struct {
	jobRepo     repository.JobRepository
	companyRepo repository.CompanyRepository
	sanitizer   Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	jobRepo repository.JobRepository,
	companyRepo repository.CompanyRepository,
	sanitizer Sanitizer,
) *Service {
	return &Service{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		sanitizer:   sanitizer,
	}
}

// List は絞り込み条件に一致する求人の1ページ分を返す。
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	jobs, err := s.jobRepo.ListJobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("求人一覧の取得に失敗しました: %w", err)
	}

	companies, err := s.companyIndex(ctx)
	if err != nil {
		return nil, err
	}

	page := Apply(jobs, companies, f)
	return &page, nil
}

func (s *Service) companyIndex(ctx context.Context) (map[string]*model.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("企業一覧の取得に失敗しました: %w", err)
	}
	index := make(map[string]*model.Company, len(companies))
	for _, c := range companies {
		index[c.ID] = c
	}
	return index, nil
}

// Get は指定IDの求人を返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Job, error) {
	j, err := s.jobRepo.FindJobByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("求人の取得に失敗しました: %w", err)
	}
	if j == nil {
		return nil, model.NewJobNotFoundError(id)
	}
	return j, nil
}

// Create は求人を作成する。必須項目と列挙値、給与範囲、企業の存在を検証する。
func (s *Service) Create(ctx context.Context, input model.JobInput) (*model.Job, error) {
	input.CompanyID = strings.TrimSpace(input.CompanyID)
	input.Title = s.sanitizer.SanitizePlainText(input.Title)
	input.Category = s.sanitizer.SanitizePlainText(input.Category)
	input.Location = s.sanitizer.SanitizePlainText(input.Location)
	input.Description = s.sanitizer.SanitizeRichText(input.Description)

	var missing []string
	if input.CompanyID == "" {
		missing = append(missing, "companyId")
	}
	if input.Title == "" {
		missing = append(missing, "title")
	}
	if input.Category == "" {
		missing = append(missing, "category")
	}
	if input.ExperienceLevel == "" {
		missing = append(missing, "experienceLevel")
	}
	if input.JobType == "" {
		missing = append(missing, "jobType")
	}
	if input.WorkMode == "" {
		missing = append(missing, "workMode")
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(missing...)
	}

	if err := validateEnums(&input.ExperienceLevel, &input.JobType, &input.WorkMode); err != nil {
		return nil, err
	}
	if !model.ValidSalaryRange(input.SalaryMin, input.SalaryMax) {
		return nil, model.NewValidationError("salary", "給与は0以上かつ下限が上限以下である必要があります")
	}
	if err := s.ensureCompany(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	j, err := s.jobRepo.CreateJob(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("求人の作成に失敗しました: %w", err)
	}

	slog.Info("求人を作成しました",
		slog.String("job_id", j.ID),
		slog.String("company_id", j.CompanyID),
	)
	return j, nil
}

// Update は求人を部分更新する。指定されたフィールドのみ検証してマージする。
func (s *Service) Update(ctx context.Context, id string, patch model.JobPatch) (*model.Job, error) {
	if patch.IsEmpty() {
		return nil, model.NewInvalidRequestError("更新するフィールドがありません")
	}

	if patch.Title != nil {
		v := s.sanitizer.SanitizePlainText(*patch.Title)
		if v == "" {
			return nil, model.NewValidationError("title", "空にはできません")
		}
		patch.Title = &v
	}
	if patch.Category != nil {
		v := s.sanitizer.SanitizePlainText(*patch.Category)
		if v == "" {
			return nil, model.NewValidationError("category", "空にはできません")
		}
		patch.Category = &v
	}
	if patch.Location != nil {
		v := s.sanitizer.SanitizePlainText(*patch.Location)
		patch.Location = &v
	}
	if patch.Description != nil {
		v := s.sanitizer.SanitizeRichText(*patch.Description)
		patch.Description = &v
	}
	if err := validateEnums(patch.ExperienceLevel, patch.JobType, patch.WorkMode); err != nil {
		return nil, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, model.NewValidationError("status", "active または closed を指定してください")
	}
	if patch.CompanyID != nil {
		if err := s.ensureCompany(ctx, *patch.CompanyID); err != nil {
			return nil, err
		}
	}

	j, err := s.jobRepo.UpdateJob(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("求人の更新に失敗しました: %w", err)
	}

	slog.Info("求人を更新しました", slog.String("job_id", j.ID))
	return j, nil
}

// Delete は求人を削除する。存在しない場合はNotFoundエラーを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.jobRepo.DeleteJob(ctx, id); err != nil {
		return fmt.Errorf("求人の削除に失敗しました: %w", err)
	}
	slog.Info("求人を削除しました", slog.String("job_id", id))
	return nil
}

// ListCompanies は全企業を返す。
func (s *Service) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	companies, err := s.companyRepo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("企業一覧の取得に失敗しました: %w", err)
	}
	return companies, nil
}

// GetCompany は指定IDの企業を返す。
func (s *Service) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	c, err := s.companyRepo.FindCompanyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("企業の取得に失敗しました: %w", err)
	}
	if c == nil {
		return nil, model.NewCompanyNotFoundError(id)
	}
	return c, nil
}

func (s *Service) ensureCompany(ctx context.Context, companyID string) error {
	c, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return fmt.Errorf("企業の取得に失敗しました: %w", err)
	}
	if c == nil {
		return model.NewValidationError("companyId", "存在しない企業です")
	}
	return nil
}

// validateEnums はnilでない列挙値が定義済みの値かどうかを検証する。
func validateEnums(level *model.ExperienceLevel, jobType *model.JobType, mode *model.WorkMode) error {
	if level != nil && !level.Valid() {
		return model.NewValidationError("experienceLevel", "entry、mid、senior、lead のいずれかを指定してください")
	}
	if jobType != nil && !jobType.Valid() {
		return model.NewValidationError("jobType", "full-time、part-time、contract、internship のいずれかを指定してください")
	}
	if mode != nil && !mode.Valid() {
		return model.NewValidationError("workMode", "remote、hybrid、onsite のいずれかを指定してください")
	}
	return nil
}
