package adherence

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the adherence module
type Handler struct {
	tracker *Tracker
}

// NewHandler creates a new adherence handler
func NewHandler(tracker *Tracker) *Handler {
	return &Handler{tracker: tracker}
}

// Routes registers the activity submission routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/activities", h.LogActivity)
	return r
}

// PatientRoutes registers the per-patient adherence views, mounted under
// /patients/{patientID}/adherence
func (h *Handler) PatientRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetScore)
	r.Get("/badges", h.GetBadges)
	r.Get("/outlook", h.GetOutlook)
	return r
}

// --- Request/Response types ---

type LogActivityRequest struct {
	PatientID string     `json:"patient_id"`
	Date      types.Date `json:"date"`

	DietFollowed    bool `json:"diet_followed"`
	ExerciseDone    bool `json:"exercise_done"`
	MedicationTaken bool `json:"medication_taken"`
	WaterIntakeMet  bool `json:"water_intake_met"`

	SleepQuality *int   `json:"sleep_quality,omitempty"`
	StressLevel  *int   `json:"stress_level,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// --- Handlers ---

func (h *Handler) LogActivity(w http.ResponseWriter, r *http.Request) {
	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	log := ActivityLog{
		PatientID:       req.PatientID,
		Date:            req.Date,
		DietFollowed:    req.DietFollowed,
		ExerciseDone:    req.ExerciseDone,
		MedicationTaken: req.MedicationTaken,
		WaterIntakeMet:  req.WaterIntakeMet,
		SleepQuality:    req.SleepQuality,
		StressLevel:     req.StressLevel,
		Notes:           req.Notes,
	}

	score, flag, err := h.tracker.Record(r.Context(), log)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"score":      score,
		"escalation": flag,
	})
}

func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		writeError(w, errors.BadRequest("patient ID is required"))
		return
	}

	score, err := h.tracker.Score(r.Context(), patientID, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) GetBadges(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		writeError(w, errors.BadRequest("patient ID is required"))
		return
	}

	badges, err := h.tracker.Badges(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patient_id": patientID,
		"badges":     badges,
	})
}

func (h *Handler) GetOutlook(w http.ResponseWriter, r *http.Request) {
	patientID := chi.URLParam(r, "patientID")
	if patientID == "" {
		writeError(w, errors.BadRequest("patient ID is required"))
		return
	}

	outlook, err := h.tracker.Outlook(r.Context(), patientID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outlook)
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
