package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/job"
	"github.com/hitoshi/jobboard/internal/model"
)

// JobServiceInterface は求人ハンドラーが必要とするサービスインターフェース。
type JobServiceInterface interface {
	List(ctx context.Context, f job.Filter) (*job.Page, error)
	Get(ctx context.Context, id string) (*model.Job, error)
	Create(ctx context.Context, input model.JobInput) (*model.Job, error)
	Update(ctx context.Context, id string, patch model.JobPatch) (*model.Job, error)
	Delete(ctx context.Context, id string) error
}

// JobHandler は求人のHTTPハンドラー。
type JobHandler struct {
	service JobServiceInterface
}

// NewJobHandler はJobHandlerを生成する。
func NewJobHandler(service JobServiceInterface) *JobHandler {
	return &JobHandler{service: service}
}

// createJobRequest は求人作成リクエストのボディ。未知のフィールドは拒否する。
type createJobRequest struct {
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
}

// updateJobRequest は求人更新リクエストのボディ。指定されたフィールドのみ変更する。
type updateJobRequest struct {
	CompanyID       *string                `json:"companyId"`
	Title           *string                `json:"title"`
	Category        *string                `json:"category"`
	Description     *string                `json:"description"`
	Location        *string                `json:"location"`
	ExperienceLevel *model.ExperienceLevel `json:"experienceLevel"`
	JobType         *model.JobType         `json:"jobType"`
	WorkMode        *model.WorkMode        `json:"workMode"`
	SalaryMin       *int64                 `json:"salaryMin"`
	SalaryMax       *int64                 `json:"salaryMax"`
	Status          *model.JobStatus       `json:"status"`
}

func (req updateJobRequest) toPatch() model.JobPatch {
	return model.JobPatch{
		CompanyID:       req.CompanyID,
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		Location:        req.Location,
		ExperienceLevel: req.ExperienceLevel,
		JobType:         req.JobType,
		WorkMode:        req.WorkMode,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Status:          req.Status,
	}
}

// List は条件に一致する求人をページ単位で返す。
// GET /api/jobs?category&companyId&experienceLevel&workMode&minSalary&search&status&page&limit
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), job.ParseFilter(r.URL.Query()))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobListResponse(page))
}

// Get は求人の詳細を返す。
// GET /api/jobs/{id}
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	j, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// Create は求人を作成する。
// POST /api/jobs
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		handleServiceError(w, err)
		return
	}

	j, err := h.service.Create(r.Context(), model.JobInput{
		CompanyID:       req.CompanyID,
		Title:           req.Title,
		Category:        req.Category,
		Description:     req.Description,
		Location:        req.Location,
		ExperienceLevel: req.ExperienceLevel,
		JobType:         req.JobType,
		WorkMode:        req.WorkMode,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toJobResponse(j))
}

// Update は求人を部分更新する。PUTとPATCHのどちらも部分更新として扱う。
// PUT /api/jobs/{id}, PATCH /api/jobs/{id}
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateJobRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		handleServiceError(w, err)
		return
	}

	j, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.toPatch())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// Delete は求人を削除する。
// DELETE /api/jobs/{id}
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// CompanyServiceInterface は企業ハンドラーが必要とするサービスインターフェース。
type CompanyServiceInterface interface {
	ListCompanies(ctx context.Context) ([]*model.Company, error)
	GetCompany(ctx context.Context, id string) (*model.Company, error)
}

// CompanyHandler は企業の参照用HTTPハンドラー。
type CompanyHandler struct {
	service CompanyServiceInterface
}

// NewCompanyHandler はCompanyHandlerを生成する。
func NewCompanyHandler(service CompanyServiceInterface) *CompanyHandler {
	return &CompanyHandler{service: service}
}

// List は全企業を返す。
// GET /api/companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.ListCompanies(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	result := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		result = append(result, toCompanyResponse(c))
	}
	writeJSON(w, http.StatusOK, result)
}

// Get は企業の詳細を返す。
// GET /api/companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCompanyResponse(c))
}
