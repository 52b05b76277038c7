package notification

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardiowell/platform/internal/shared/errors"
)

// Handler provides HTTP handlers for patient notification schedules
type Handler struct {
	scheduler *Scheduler
}

// NewHandler creates a new notification handler
func NewHandler(scheduler *Scheduler) *Handler {
	return &Handler{scheduler: scheduler}
}

// Routes registers the notification routes, mounted under
// /patients/{patientID}/notifications
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/{notificationID}/read", h.MarkRead)
	return r
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		writeError(w, errors.BadRequest("patient ID is required"))
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	notifications := h.scheduler.List(patientID, unreadOnly)

	writeJSON(w, http.StatusOK, map[string]any{
		"patient_id": patientID,
		"data":       notifications,
		"total":      len(notifications),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	notificationID := chi.URLParam(r, "notificationID")

	if err := h.scheduler.MarkRead(patientID, notificationID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
