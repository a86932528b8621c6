package model

import "time"

// Company は求人を掲載する企業を表す。初期化時に作成され、以降は読み取り専用。
type Company struct {
	ID          string
	Name        string
	Tier        string
	Size        string
	FoundedYear int
	CreatedAt   time.Time
}

// JobStatus は求人の掲載状態を表す。
type JobStatus string

const (
	// JobStatusActive は応募受付中の求人。
	JobStatusActive JobStatus = "active"
	// JobStatusClosed は応募受付を終了した求人。
	JobStatusClosed JobStatus = "closed"
)

// Valid は定義済みの掲載状態かどうかを返す。
func (s JobStatus) Valid() bool {
	return s == JobStatusActive || s == JobStatusClosed
}

// WorkMode は勤務形態を表す。
type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeOnsite WorkMode = "onsite"
)

// Valid は定義済みの勤務形態かどうかを返す。
func (m WorkMode) Valid() bool {
	switch m {
	case WorkModeRemote, WorkModeHybrid, WorkModeOnsite:
		return true
	default:
		return false
	}
}

// JobType は雇用形態を表す。
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// Valid は定義済みの雇用形態かどうかを返す。
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	default:
		return false
	}
}

// ExperienceLevel は求める経験レベルを表す。
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

// Valid は定義済みの経験レベルかどうかを返す。
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	default:
		return false
	}
}

// Job は求人を表す。CompanyIDで企業を参照し、埋め込みは行わない。
type Job struct {
	ID              string
	CompanyID       string
	Title           string
	Category        string
	Description     string
	Location        string
	ExperienceLevel ExperienceLevel
	JobType         JobType
	WorkMode        WorkMode
	SalaryMin       int64
	SalaryMax       int64
	Status          JobStatus
	ApplicantCount  int
	PostedAt        time.Time
	UpdatedAt       time.Time
}

// JobInput は求人作成時の入力。
type JobInput struct {
	CompanyID       string
	Title           string
	Category        string
	Description     string
	Location        string
	ExperienceLevel ExperienceLevel
	JobType         JobType
	WorkMode        WorkMode
	SalaryMin       int64
	SalaryMax       int64
}

// JobPatch は求人の部分更新で変更可能なフィールドを列挙する。
// nilのフィールドは変更しない。
type JobPatch struct {
	CompanyID       *string
	Title           *string
	Category        *string
	Description     *string
	Location        *string
	ExperienceLevel *ExperienceLevel
	JobType         *JobType
	WorkMode        *WorkMode
	SalaryMin       *int64
	SalaryMax       *int64
	Status          *JobStatus
}

// IsEmpty は変更対象のフィールドが1つもない場合にtrueを返す。
func (p JobPatch) IsEmpty() bool {
	return p.CompanyID == nil && p.Title == nil && p.Category == nil &&
		p.Description == nil && p.Location == nil && p.ExperienceLevel == nil &&
		p.JobType == nil && p.WorkMode == nil && p.SalaryMin == nil &&
		p.SalaryMax == nil && p.Status == nil
}

// Apply はパッチを求人のコピーに浅くマージして返す。元の値は変更しない。
func (p JobPatch) Apply(j Job) Job {
	if p.CompanyID != nil {
		j.CompanyID = *p.CompanyID
	}
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Category != nil {
		j.Category = *p.Category
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.ExperienceLevel != nil {
		j.ExperienceLevel = *p.ExperienceLevel
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.WorkMode != nil {
		j.WorkMode = *p.WorkMode
	}
	if p.SalaryMin != nil {
		j.SalaryMin = *p.SalaryMin
	}
	if p.SalaryMax != nil {
		j.SalaryMax = *p.SalaryMax
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	return j
}

// ValidSalaryRange は給与範囲が非負かつ min <= max であるかを返す。
func ValidSalaryRange(min, max int64) bool {
	return min >= 0 && max >= 0 && min <= max
}
