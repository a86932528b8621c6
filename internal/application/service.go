// Package application は求人への応募と選考状態管理のドメインロジックを提供する。
package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// maxCoverLetterLength は志望動機の最大文字数。
const maxCoverLetterLength = 5000

// Sanitizer はプレーンテキストのサニタイズを行う。
type Sanitizer interface {
	SanitizePlainText(raw string) string
}

// Recorder は応募のメトリクスを記録する。
type Recorder interface {
	RecordApplicationSubmitted()
}

// Service は応募管理のサービス層。
type Service struct {
	repo      repository.ApplicationRepository
	sanitizer Sanitizer
	recorder  Recorder
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.ApplicationRepository, sanitizer Sanitizer, recorder Recorder) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		recorder:  recorder,
	}
}

// Apply はユーザーを求人に応募させる。
// 重複チェック、作成、応募者数の更新はストア側で不可分に行われる。
func (s *Service) Apply(ctx context.Context, userID, jobID, coverLetter, resume string) (*model.Application, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, model.NewMissingFieldsError("jobId")
	}

	coverLetter = s.sanitizer.SanitizePlainText(coverLetter)
	if len([]rune(coverLetter)) > maxCoverLetterLength {
		return nil, model.NewValidationError("coverLetter", fmt.Sprintf("%d文字以内で入力してください", maxCoverLetterLength))
	}
	resume = s.sanitizer.SanitizePlainText(resume)

	app, err := s.repo.CreateApplication(ctx, userID, jobID, coverLetter, resume)
	if err != nil {
		return nil, fmt.Errorf("応募の作成に失敗しました: %w", err)
	}

	s.recorder.RecordApplicationSubmitted()
	slog.Info("求人に応募しました",
		slog.String("application_id", app.ID),
		slog.String("job_id", jobID),
		slog.String("user_id", userID),
	)
	return app, nil
}

// ListMine はユーザー自身の応募を応募順で返す。
func (s *Service) ListMine(ctx context.Context, userID string) ([]*model.Application, error) {
	apps, err := s.repo.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return apps, nil
}

// ListByJob は求人への応募を応募順で返す。求人が削除済みでも応募は返す。
func (s *Service) ListByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	apps, err := s.repo.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("応募一覧の取得に失敗しました: %w", err)
	}
	return apps, nil
}

// UpdateStatus は応募の選考状態を更新する。
func (s *Service) UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	if status == "" {
		return nil, model.NewMissingFieldsError("status")
	}

	app, err := s.repo.UpdateApplicationStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("選考状態の更新に失敗しました: %w", err)
	}

	slog.Info("選考状態を更新しました",
		slog.String("application_id", app.ID),
		slog.String("status", string(app.Status)),
	)
	return app, nil
}
