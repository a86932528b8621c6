// Package auth はパスワード認証、Bearerトークンの発行と検証を提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// Recorder は認証関連のメトリクスを記録する。
type Recorder interface {
	RecordRegistration()
	RecordLoginFailure()
}

// Result は登録またはログインの結果。
type Result struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	hasher   *PasswordHasher
	tokens   *TokenIssuer
	recorder Recorder

	// dummyHash は存在しないユーザーのログイン時にも照合を行い、応答時間を揃えるために使用する。
	dummyHash string
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	hasher *PasswordHasher,
	tokens *TokenIssuer,
	recorder Recorder,
) (*Service, error) {
	dummy, err := hasher.Hash("jobboard-dummy-password")
	if err != nil {
		return nil, err
	}
	return &Service{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		recorder:  recorder,
		dummyHash: dummy,
	}, nil
}

// Register は一般ユーザーを登録し、アクセストークンを発行する。
// メールアドレスが登録済みの場合はConflictエラーを返す。
func (s *Service) Register(ctx context.Context, email, password, name string) (*Result, error) {
	email = model.NormalizeEmail(email)
	name = strings.TrimSpace(name)

	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return nil, model.NewMissingFieldsError(missing...)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	u, err := s.createUser(ctx, email, password, name, model.RoleUser)
	if err != nil {
		return nil, err
	}

	s.recorder.RecordRegistration()
	slog.Info("new user registered", slog.String("user_id", u.ID))

	return s.issue(u)
}

// Login はメールアドレスとパスワードを照合し、アクセストークンを発行する。
// 照合に失敗した場合はユーザーの存在有無に関わらず同じエラーを返す。
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		var missing []string
		if email == "" {
			missing = append(missing, "email")
		}
		if password == "" {
			missing = append(missing, "password")
		}
		return nil, model.NewMissingFieldsError(missing...)
	}

	u, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	hash := s.dummyHash
	if u != nil {
		hash = u.PasswordHash
	}
	if !s.hasher.Compare(hash, password) || u == nil {
		s.recorder.RecordLoginFailure()
		slog.Warn("login failed")
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("user logged in", slog.String("user_id", u.ID))
	return s.issue(u)
}

// Verify はBearerトークンを検証してIdentityを返す。
func (s *Service) Verify(token string) (*model.Identity, error) {
	return s.tokens.Verify(token)
}

// EnsureUser は指定メールアドレスのユーザーが存在しなければ作成する。
// 作成した場合はtrueを返す。初期データ投入で管理者アカウントの作成に使用する。
func (s *Service) EnsureUser(ctx context.Context, email, password, name string, role model.Role) (*model.User, bool, error) {
	if !role.Valid() {
		return nil, false, fmt.Errorf("invalid role: %q", role)
	}

	existing, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	u, err := s.createUser(ctx, email, password, name, role)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *Service) createUser(ctx context.Context, email, password, name string, role model.Role) (*model.User, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, ErrPasswordTooLong) {
		return nil, model.NewValidationError("password", "72バイト以内で入力してください")
	}
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.CreateUser(ctx, email, hash, name, role)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *Service) issue(u *model.User) (*Result, error) {
	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.NewValidationError("email", "メールアドレスの形式が正しくありません")
	}
	return nil
}
