package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/jobboard/internal/model"
)

// SavedJobServiceInterface は保存済み求人ハンドラーが必要とするサービスインターフェース。
type SavedJobServiceInterface interface {
	Save(ctx context.Context, userID, jobID string) error
	Unsave(ctx context.Context, userID, jobID string) error
	List(ctx context.Context, userID string) ([]*model.Job, error)
}

// SavedJobHandler は保存済み求人のHTTPハンドラー。
type SavedJobHandler struct {
	service SavedJobServiceInterface
}

// NewSavedJobHandler はSavedJobHandlerを生成する。
func NewSavedJobHandler(service SavedJobServiceInterface) *SavedJobHandler {
	return &SavedJobHandler{service: service}
}

type savedJobResponse struct {
	JobID string `json:"jobId"`
	Saved bool   `json:"saved"`
}

// List はログイン中ユーザーの保存済み求人を返す。
// GET /api/saved-jobs
func (h *SavedJobHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	jobs, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toJobResponses(jobs))
}

// Save は求人を保存する。保存済みの場合も200を返す。
// POST /api/saved-jobs/{jobId}
func (h *SavedJobHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	jobID := chi.URLParam(r, "jobId")
	if err := h.service.Save(r.Context(), userID, jobID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, savedJobResponse{JobID: jobID, Saved: true})
}

// Unsave は求人の保存を解除する。未保存の場合も200を返す。
// DELETE /api/saved-jobs/{jobId}
func (h *SavedJobHandler) Unsave(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	jobID := chi.URLParam(r, "jobId")
	if err := h.service.Unsave(r.Context(), userID, jobID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, savedJobResponse{JobID: jobID, Saved: false})
}
