package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/jobboard/internal/model"
)

const userColumns = `id, email, password_hash, name, role, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser はユーザーを作成する。メールアドレスの一意制約違反はConflictエラーに変換する。
func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash, name string, role model.Role) (*model.User, error) {
	now := s.now()
	u := &model.User{
		ID:           s.newID(),
		Email:        model.NormalizeEmail(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, model.NewDuplicateEmailError()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// FindUserByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		model.NormalizeEmail(email),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return u, nil
}

// FindUserByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return u, nil
}

// UpdateUser はプロフィールを部分更新する。nilのフィールドは既存の値を維持する。
func (s *PostgresStore) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`UPDATE users SET name = COALESCE($2, name), updated_at = $3
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, patch.Name, s.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NewUserNotFoundError()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}
