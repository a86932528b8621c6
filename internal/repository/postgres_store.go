package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const uniqueViolation = "23505"

// PostgresStore はPostgreSQLを使用したエンティティストア。
// 応募作成は求人行をFOR UPDATEでロックしたトランザクション内で実行し、
// (job_id, user_id)の一意制約で重複を防ぐ。
type PostgresStore struct {
	db *sql.DB

	now   func() time.Time
	newID func() string
}

// NewPostgresStore はPostgresStoreを生成する。
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:    db,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
}

// Ping はデータベースへの接続を確認する。
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// isUniqueViolation はエラーが一意制約違反かどうかを返す。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// compile-time interface check
var _ Store = (*PostgresStore)(nil)
