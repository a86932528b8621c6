// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// Role はユーザーの権限ロールを表す。
type Role string

const (
	// RoleUser は一般ユーザー。
	RoleUser Role = "user"
	// RoleAdmin は求人管理と分析閲覧が可能な管理者。
	RoleAdmin Role = "admin"
)

// Valid は定義済みのロールかどうかを返す。
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User はサービス利用ユーザーを表す。
// PasswordHashはAPIレスポンスに含めてはならない。
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch はプロフィール更新で変更可能なフィールド。
// nilのフィールドは変更しない。
type UserPatch struct {
	Name *string
}

// Identity は検証済みトークンから復元した呼び出し元の情報。
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// NormalizeEmail はメールアドレスの一意性判定に使用する正規化形を返す。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
