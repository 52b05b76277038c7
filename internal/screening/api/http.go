package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cardiowell/platform/internal/careplan"
	"github.com/cardiowell/platform/internal/ml"
	"github.com/cardiowell/platform/internal/notification"
	"github.com/cardiowell/platform/internal/screening/domain"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/events"
	"github.com/cardiowell/platform/internal/shared/metrics"
	"github.com/cardiowell/platform/internal/shared/types"
)

const safetyDisclaimer = "This system provides educational information and risk assessment support only. " +
	"It does not replace professional medical diagnosis or treatment. Always consult your healthcare " +
	"provider before making medical decisions; urgent cases require immediate medical attention. " +
	"In case of chest pain, difficulty breathing, or other emergency symptoms, call emergency services immediately."

// Handler provides HTTP handlers for the screening module
type Handler struct {
	repo      domain.Repository
	scorer    *ml.Client
	bus       events.EventBus
	scheduler *notification.Scheduler
}

// NewHandler creates a new screening handler. scorer, bus, and scheduler
// may be nil.
func NewHandler(repo domain.Repository, scorer *ml.Client, bus events.EventBus, scheduler *notification.Scheduler) *Handler {
	return &Handler{repo: repo, scorer: scorer, bus: bus, scheduler: scheduler}
}

// Routes registers the screening routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateScreening)
	return r
}

// --- Request/Response types ---

type CreateScreeningRequest struct {
	PatientID string                `json:"patient_id"`
	Panel     domain.LipidPanel     `json:"panel"`
	Context   domain.PatientContext `json:"context"`
}

type ScreeningResponse struct {
	ID        types.ID  `json:"id"`
	PatientID string    `json:"patient_id"`
	CreatedAt time.Time `json:"created_at"`

	Assessment *domain.RiskAssessment   `json:"assessment"`
	Derived    domain.DerivedMetrics    `json:"derived_metrics"`
	Management *careplan.ManagementPlan `json:"management_plan"`
	Lifestyle  *careplan.LifestylePlan  `json:"lifestyle_plan"`

	SafetyDisclaimer string `json:"safety_disclaimer"`
}

// --- Handlers ---

// CreateScreening runs the full screening pipeline: validation,
// normalization, classification, care plan generation, and persistence.
func (h *Handler) CreateScreening(w http.ResponseWriter, r *http.Request) {
	var req CreateScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}
	if req.PatientID == "" {
		writeError(w, errors.BadRequest("patient_id is required"))
		return
	}

	derived, err := domain.Normalize(req.Panel)
	if err != nil {
		metrics.RecordScreeningRejected()
		writeError(w, err)
		return
	}

	var probability *float64
	if h.scorer != nil {
		probability, err = h.scorer.Probability(r.Context(), req.Panel, req.Context)
		if err != nil {
			writeError(w, errors.Wrap(err, "external scorer failed"))
			return
		}
	}

	assessment, err := domain.ClassifyWithSignal(req.Panel, req.Context, probability)
	if err != nil {
		metrics.RecordScreeningRejected()
		writeError(w, err)
		return
	}

	now := time.Now().UTC()
	management, lifestyle, err := careplan.BuildPlan(assessment, now)
	if err != nil {
		writeError(w, err)
		return
	}

	rec := &domain.Record{
		ID:                            types.NewID(),
		PatientID:                     req.PatientID,
		CreatedAt:                     now,
		Assessment:                    *assessment,
		Panel:                         req.Panel,
		Derived:                       derived,
		Strategy:                      string(management.Strategy),
		RequiresStatin:                management.RequiresStatin,
		RequiresImmediateConsultation: management.RequiresImmediateConsultation,
	}

	if err := h.repo.Save(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	metrics.RecordScreening(string(assessment.RiskLevel))

	if h.scheduler != nil {
		h.scheduler.Materialize(req.PatientID, management, lifestyle)
	}

	if h.bus != nil {
		event := events.NewEvent(events.TypeScreeningCompleted, "screening", map[string]any{
			"assessment_id": rec.ID.String(),
			"risk_level":    string(assessment.RiskLevel),
			"risk_score":    assessment.RiskScore,
			"strategy":      rec.Strategy,
		}).WithPatient(req.PatientID)
		h.bus.Publish(r.Context(), event)
	}

	writeJSON(w, http.StatusCreated, ScreeningResponse{
		ID:               rec.ID,
		PatientID:        rec.PatientID,
		CreatedAt:        rec.CreatedAt,
		Assessment:       assessment,
		Derived:          derived,
		Management:       management,
		Lifestyle:        lifestyle,
		SafetyDisclaimer: safetyDisclaimer,
	})
}

// GetHistory returns a patient's past assessments, newest first
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		writeError(w, errors.BadRequest("patient ID is required"))
		return
	}

	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	records, err := h.repo.History(r.Context(), patientID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient_id": patientID,
		"data":       records,
		"total":      len(records),
	})
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
