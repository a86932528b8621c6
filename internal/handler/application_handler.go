package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/model"
)

// ApplicationServiceInterface は応募ハンドラーが必要とするサービスインターフェース。
type ApplicationServiceInterface interface {
	Apply(ctx context.Context, userID, jobID, coverLetter, resume string) (*model.Application, error)
	ListMine(ctx context.Context, userID string) ([]*model.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error)
}

// ApplicationHandler は応募のHTTPハンドラー。
type ApplicationHandler struct {
	service ApplicationServiceInterface
}

// NewApplicationHandler はApplicationHandlerを生成する。
func NewApplicationHandler(service ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

type applyRequest struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
	Resume      string `json:"resume"`
}

type updateStatusRequest struct {
	Status model.ApplicationStatus `json:"status"`
}

// Apply は求人に応募する。
// POST /api/applications
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req applyRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		handleServiceError(w, err)
		return
	}

	a, err := h.service.Apply(r.Context(), userID, req.JobID, req.CoverLetter, req.Resume)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(a))
}

// ListMine はログイン中ユーザーの応募一覧を返す。
// GET /api/applications/me
func (h *ApplicationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	apps, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponses(apps))
}

// ListByJob は求人への応募一覧を返す。管理者専用。
// GET /api/jobs/{id}/applications
func (h *ApplicationHandler) ListByJob(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListByJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponses(apps))
}

// UpdateStatus は応募の選考状態を更新する。管理者専用。
// PUT /api/applications/{id}/status
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		handleServiceError(w, err)
		return
	}

	a, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(a))
}
