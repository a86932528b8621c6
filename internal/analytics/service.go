// Package analytics は管理者向けの集計を提供する。
package analytics

import (
	"context"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// Service は集計のサービス層。
type Service struct {
	repo repository.AnalyticsRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{repo: repo}
}

// Overview は全体の件数と、選考状態別・カテゴリ別の内訳を返す。
func (s *Service) Overview(ctx context.Context) (*model.Overview, error) {
	o, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("集計の取得に失敗しました: %w", err)
	}
	return o, nil
}
