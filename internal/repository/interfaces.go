// Package repository はエンティティストアのインターフェースと実装を提供する。
// MemoryStoreはプロセス内のマップで、PostgresStoreはPostgreSQLで同じ契約を満たす。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/jobboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// CreateUser はユーザーを作成する。
	// 正規化後のメールアドレスが既に存在する場合はConflictエラーを返す。
	CreateUser(ctx context.Context, email, passwordHash, name string, role model.Role) (*model.User, error)

	// FindUserByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// FindUserByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindUserByID(ctx context.Context, id string) (*model.User, error)

	// UpdateUser はプロフィールを部分更新する。存在しない場合はNotFoundエラーを返す。
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
}

// CompanyRepository は企業データの永続化インターフェース。
type CompanyRepository interface {
	// CreateCompany は企業を作成する。IDが空の場合は採番する。初期データ投入専用。
	CreateCompany(ctx context.Context, company *model.Company) (*model.Company, error)

	// FindCompanyByID は指定IDの企業を取得する。見つからない場合はnilを返す。
	FindCompanyByID(ctx context.Context, id string) (*model.Company, error)

	// ListCompanies は全企業を登録順で返す。
	ListCompanies(ctx context.Context) ([]*model.Company, error)
}

// JobRepository は求人データの永続化インターフェース。
type JobRepository interface {
	// ListJobs は全求人を登録順で返す。
	ListJobs(ctx context.Context) ([]*model.Job, error)

	// FindJobByID は指定IDの求人を取得する。見つからない場合はnilを返す。
	FindJobByID(ctx context.Context, id string) (*model.Job, error)

	// CreateJob は求人を作成する。status=active、applicantCount=0で初期化する。
	CreateJob(ctx context.Context, input model.JobInput) (*model.Job, error)

	// UpdateJob は求人を部分更新し、更新日時を記録する。
	// 存在しない場合はNotFoundエラー、更新後の給与範囲が不正な場合はValidationエラーを返す。
	UpdateJob(ctx context.Context, id string, patch model.JobPatch) (*model.Job, error)

	// DeleteJob は求人を削除する。存在しない場合はNotFoundエラーを返す。
	// 関連する応募は削除しない。
	DeleteJob(ctx context.Context, id string) error

	// CloseJobsPostedBefore はcutoffより前に掲載された募集中の求人を募集終了にし、件数を返す。
	CloseJobsPostedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// ApplicationRepository は応募データの永続化インターフェース。
type ApplicationRepository interface {
	// CreateApplication は応募を作成し、求人の応募者数を1増やす。
	// 重複チェック、作成、カウンタ更新は不可分に実行される。
	// 求人が存在しない場合はNotFound、募集終了の場合はValidation、
	// 同一(jobID, userID)の応募が存在する場合はConflictエラーを返す。
	CreateApplication(ctx context.Context, userID, jobID, coverLetter, resume string) (*model.Application, error)

	// ListApplicationsByUser はユーザーの応募を作成順で返す。
	ListApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error)

	// ListApplicationsByJob は求人への応募を作成順で返す。
	ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error)

	// UpdateApplicationStatus は応募の選考状態を更新する。
	// 未定義の状態はValidation、存在しない応募はNotFoundエラーを返す。
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
}

// SavedJobRepository は保存済み求人の永続化インターフェース。
type SavedJobRepository interface {
	// SaveJob は求人を保存する。保存済みの場合は何もしない。
	// 求人が存在しない場合はNotFoundエラーを返す。
	SaveJob(ctx context.Context, userID, jobID string) error

	// UnsaveJob は保存を解除する。未保存の場合も何もせずnilを返す。
	UnsaveJob(ctx context.Context, userID, jobID string) error

	// ListSavedJobs はユーザーが保存した求人を保存順で返す。
	// 削除済みの求人はエラーにせず除外する。
	ListSavedJobs(ctx context.Context, userID string) ([]*model.Job, error)
}

// AnalyticsRepository は管理者向け集計の取得インターフェース。
type AnalyticsRepository interface {
	// Overview は全エンティティの集計値を返す。
	Overview(ctx context.Context) (*model.Overview, error)
}

// Store はエンティティストア全体の契約。
type Store interface {
	UserRepository
	CompanyRepository
	JobRepository
	ApplicationRepository
	SavedJobRepository
	AnalyticsRepository

	// Ping はストアが利用可能かどうかを確認する。
	Ping(ctx context.Context) error
}
