// Package authz はリクエストの操作ごとに認可判定を行う。
// 判定はリクエスト単位でステートレスに行い、ロールの比較はこのパッケージ内だけで行う。
package authz

import (
	"github.com/hitoshi/jobboard/internal/model"
)

// Operation は認可対象の操作を表す。
type Operation string

const (
	// 公開操作
	OpListJobs      Operation = "list_jobs"
	OpGetJob        Operation = "get_job"
	OpListCompanies Operation = "list_companies"
	OpGetCompany    Operation = "get_company"

	// 認証済みユーザーの操作
	OpGetProfile         Operation = "get_profile"
	OpUpdateProfile      Operation = "update_profile"
	OpApplyToJob         Operation = "apply_to_job"
	OpListMyApplications Operation = "list_my_applications"
	OpSaveJob            Operation = "save_job"
	OpUnsaveJob          Operation = "unsave_job"
	OpListSavedJobs      Operation = "list_saved_jobs"

	// 管理者の操作
	OpCreateJob               Operation = "create_job"
	OpUpdateJob               Operation = "update_job"
	OpDeleteJob               Operation = "delete_job"
	OpListJobApplications     Operation = "list_job_applications"
	OpUpdateApplicationStatus Operation = "update_application_status"
	OpViewAnalytics           Operation = "view_analytics"
)

// Level は操作に必要な認可レベル。
type Level int

const (
	LevelPublic Level = iota
	LevelAuthenticated
	LevelAdmin
)

var operationLevels = map[Operation]Level{
	OpListJobs:      LevelPublic,
	OpGetJob:        LevelPublic,
	OpListCompanies: LevelPublic,
	OpGetCompany:    LevelPublic,

	OpGetProfile:         LevelAuthenticated,
	OpUpdateProfile:      LevelAuthenticated,
	OpApplyToJob:         LevelAuthenticated,
	OpListMyApplications: LevelAuthenticated,
	OpSaveJob:            LevelAuthenticated,
	OpUnsaveJob:          LevelAuthenticated,
	OpListSavedJobs:      LevelAuthenticated,

	OpCreateJob:               LevelAdmin,
	OpUpdateJob:               LevelAdmin,
	OpDeleteJob:               LevelAdmin,
	OpListJobApplications:     LevelAdmin,
	OpUpdateApplicationStatus: LevelAdmin,
	OpViewAnalytics:           LevelAdmin,
}

// LevelOf は操作に必要な認可レベルを返す。未知の操作の場合はfalseを返す。
func LevelOf(op Operation) (Level, bool) {
	level, ok := operationLevels[op]
	return level, ok
}

// Decision は認可判定の結果。
type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// String はログ出力用の表現を返す。
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// Authorize はidentityがopを実行できるかを判定する。
// identityがnilの場合は未認証として扱う。未知の操作は常にDenyForbiddenとなる。
func Authorize(identity *model.Identity, op Operation) Decision {
	level, ok := operationLevels[op]
	if !ok {
		return DenyForbidden
	}

	switch level {
	case LevelPublic:
		return Allow
	case LevelAuthenticated:
		if identity == nil {
			return DenyUnauthenticated
		}
		return Allow
	case LevelAdmin:
		if identity == nil {
			return DenyUnauthenticated
		}
		if identity.Role != model.RoleAdmin {
			return DenyForbidden
		}
		return Allow
	default:
		return DenyForbidden
	}
}

// Check はAuthorizeの結果をAPIErrorに変換する。許可された場合はnilを返す。
func Check(identity *model.Identity, op Operation) error {
	switch Authorize(identity, op) {
	case Allow:
		return nil
	case DenyUnauthenticated:
		return model.NewUnauthorizedError()
	default:
		return model.NewForbiddenError()
	}
}
