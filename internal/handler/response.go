package handler

import (
	"time"

	"github.com/hitoshi/jobboard/internal/job"
	"github.com/hitoshi/jobboard/internal/model"
)

// userResponse はユーザー情報のAPIレスポンス。パスワードハッシュは含めない。
type userResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// authResponse は登録・ログインのAPIレスポンス。
type authResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

type companyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Tier        string    `json:"tier"`
	Size        string    `json:"size"`
	FoundedYear int       `json:"foundedYear"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCompanyResponse(c *model.Company) companyResponse {
	return companyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Tier:        c.Tier,
		Size:        c.Size,
		FoundedYear: c.FoundedYear,
		CreatedAt:   c.CreatedAt,
	}
}

type jobResponse struct {
	ID              string                `json:"id"`
	CompanyID       string                `json:"companyId"`
	Title           string                `json:"title"`
	Category        string                `json:"category"`
	Description     string                `json:"description"`
	Location        string                `json:"location"`
	ExperienceLevel model.ExperienceLevel `json:"experienceLevel"`
	JobType         model.JobType         `json:"jobType"`
	WorkMode        model.WorkMode        `json:"workMode"`
	SalaryMin       int64                 `json:"salaryMin"`
	SalaryMax       int64                 `json:"salaryMax"`
	Status          model.JobStatus       `json:"status"`
	ApplicantCount  int                   `json:"applicantCount"`
	PostedAt        time.Time             `json:"postedAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

func toJobResponse(j *model.Job) jobResponse {
	return jobResponse{
		ID:              j.ID,
		CompanyID:       j.CompanyID,
		Title:           j.Title,
		Category:        j.Category,
		Description:     j.Description,
		Location:        j.Location,
		ExperienceLevel: j.ExperienceLevel,
		JobType:         j.JobType,
		WorkMode:        j.WorkMode,
		SalaryMin:       j.SalaryMin,
		SalaryMax:       j.SalaryMax,
		Status:          j.Status,
		ApplicantCount:  j.ApplicantCount,
		PostedAt:        j.PostedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

func toJobResponses(jobs []*model.Job) []jobResponse {
	result := make([]jobResponse, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, toJobResponse(j))
	}
	return result
}

// jobListResponse は求人一覧のAPIレスポンス。
type jobListResponse struct {
	Jobs  []jobResponse `json:"jobs"`
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Pages int           `json:"pages"`
}

func toJobListResponse(p *job.Page) jobListResponse {
	return jobListResponse{
		Jobs:  toJobResponses(p.Items),
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.Pages,
	}
}

type applicationResponse struct {
	ID          string                  `json:"id"`
	JobID       string                  `json:"jobId"`
	UserID      string                  `json:"userId"`
	Status      model.ApplicationStatus `json:"status"`
	CoverLetter string                  `json:"coverLetter"`
	Resume      string                  `json:"resume"`
	AppliedAt   time.Time               `json:"appliedAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

func toApplicationResponse(a *model.Application) applicationResponse {
	return applicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		UserID:      a.UserID,
		Status:      a.Status,
		CoverLetter: a.CoverLetter,
		Resume:      a.Resume,
		AppliedAt:   a.AppliedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toApplicationResponses(apps []*model.Application) []applicationResponse {
	result := make([]applicationResponse, 0, len(apps))
	for _, a := range apps {
		result = append(result, toApplicationResponse(a))
	}
	return result
}

type overviewResponse struct {
	TotalUsers           int                             `json:"totalUsers"`
	TotalCompanies       int                             `json:"totalCompanies"`
	TotalJobs            int                             `json:"totalJobs"`
	ActiveJobs           int                             `json:"activeJobs"`
	TotalApplications    int                             `json:"totalApplications"`
	TotalSavedJobs       int                             `json:"totalSavedJobs"`
	ApplicationsByStatus map[model.ApplicationStatus]int `json:"applicationsByStatus"`
	JobsByCategory       map[string]int                  `json:"jobsByCategory"`
}

func toOverviewResponse(o *model.Overview) overviewResponse {
	byStatus := o.ApplicationsByStatus
	if byStatus == nil {
		byStatus = map[model.ApplicationStatus]int{}
	}
	byCategory := o.JobsByCategory
	if byCategory == nil {
		byCategory = map[string]int{}
	}
	return overviewResponse{
		TotalUsers:           o.TotalUsers,
		TotalCompanies:       o.TotalCompanies,
		TotalJobs:            o.TotalJobs,
		ActiveJobs:           o.ActiveJobs,
		TotalApplications:    o.TotalApplications,
		TotalSavedJobs:       o.TotalSavedJobs,
		ApplicationsByStatus: byStatus,
		JobsByCategory:       byCategory,
	}
}
