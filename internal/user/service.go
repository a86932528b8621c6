// Package user はプロフィールの参照と更新のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// maxNameLength は表示名の最大文字数。
const maxNameLength = 100

// Sanitizer はプロフィール入力のHTMLを除去する。
type Sanitizer interface {
	SanitizePlainText(s string) string
}

// Service はプロフィール管理のサービス層。
type Service struct {
	userRepo  repository.UserRepository
	sanitizer Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository, sanitizer Sanitizer) *Service {
	return &Service{
		userRepo:  userRepo,
		sanitizer: sanitizer,
	}
}

// Get は認証済みユーザー自身のプロフィールを返す。
// トークンは有効でもユーザーが存在しない場合はNotFoundエラーを返す。
func (s *Service) Get(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}
	return u, nil
}

// UpdateProfile はプロフィールを部分更新する。
// 変更項目が1つもない場合はInvalidRequestエラーを返す。
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch model.UserPatch) (*model.User, error) {
	if patch.Name == nil {
		return nil, model.NewInvalidRequestError("更新する項目がありません")
	}

	name := strings.TrimSpace(s.sanitizer.SanitizePlainText(*patch.Name))
	if name == "" {
		return nil, model.NewValidationError("name", "空にはできません")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, model.NewValidationError("name", fmt.Sprintf("%d文字以内で入力してください", maxNameLength))
	}
	patch.Name = &name

	u, err := s.userRepo.UpdateUser(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("プロフィールの更新に失敗しました: %w", err)
	}

	slog.Info("プロフィールを更新しました",
		slog.String("user_id", userID),
	)
	return u, nil
}
