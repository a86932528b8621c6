package model

import "time"

// ApplicationStatus は応募の選考状態を表す。
type ApplicationStatus string

const (
	ApplicationStatusPending      ApplicationStatus = "pending"
	ApplicationStatusReviewing    ApplicationStatus = "reviewing"
	ApplicationStatusInterviewing ApplicationStatus = "interviewing"
	ApplicationStatusAccepted     ApplicationStatus = "accepted"
	ApplicationStatusRejected     ApplicationStatus = "rejected"
)

// ApplicationStatuses は定義済みの選考状態の一覧。集計の表示順にも使用する。
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewing,
	ApplicationStatusInterviewing,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// Valid は定義済みの選考状態かどうかを返す。
func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Application は求人への応募を表す。(JobID, UserID) の組につき最大1件。
type Application struct {
	ID          string
	JobID       string
	UserID      string
	Status      ApplicationStatus
	CoverLetter string
	Resume      string
	AppliedAt   time.Time
	UpdatedAt   time.Time
}

// Overview は管理者向け分析画面の集計値。
type Overview struct {
	TotalUsers           int
	TotalCompanies       int
	TotalJobs            int
	ActiveJobs           int
	TotalApplications    int
	TotalSavedJobs       int
	ApplicationsByStatus map[ApplicationStatus]int
	JobsByCategory       map[string]int
}
