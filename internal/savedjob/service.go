// Package savedjob はユーザーごとの保存済み求人を管理する。
package savedjob

import (
	"context"
	"fmt"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// Service は保存済み求人のサービス層。保存と解除はいずれも冪等。
type Service struct {
	repo repository.SavedJobRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.SavedJobRepository) *Service {
	return &Service{repo: repo}
}

// Save は求人を保存する。保存済みの場合は何もしない。
func (s *Service) Save(ctx context.Context, userID, jobID string) error {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return model.NewMissingFieldsError("jobId")
	}
	if err := s.repo.SaveJob(ctx, userID, jobID); err != nil {
		return fmt.Errorf("求人の保存に失敗しました: %w", err)
	}
	return nil
}

// Unsave は保存を解除する。未保存の場合も成功として扱う。
func (s *Service) Unsave(ctx context.Context, userID, jobID string) error {
	if err := s.repo.UnsaveJob(ctx, userID, strings.TrimSpace(jobID)); err != nil {
		return fmt.Errorf("保存の解除に失敗しました: %w", err)
	}
	return nil
}

// List は保存済みの求人を保存順で返す。削除された求人は含まれない。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Job, error) {
	jobs, err := s.repo.ListSavedJobs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("保存済み求人の取得に失敗しました: %w", err)
	}
	return jobs, nil
}
