package notification

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardiowell/platform/internal/careplan"
	"github.com/cardiowell/platform/internal/shared/errors"
	"github.com/cardiowell/platform/internal/shared/types"
)

// Kind distinguishes recurring daily prompts from dated appointments
type Kind string

const (
	KindReminder Kind = "reminder"
	KindFollowUp Kind = "follow_up"
)

// Notification is one materialized entry in a patient's schedule
type Notification struct {
	ID        string `json:"id"`
	PatientID string `json:"patient_id"`
	Kind      Kind   `json:"kind"`

	// TimeOfDay is set for daily reminders (HH:MM)
	TimeOfDay string `json:"time_of_day,omitempty"`
	// ScheduledDate is set for dated follow-ups
	ScheduledDate types.Date `json:"scheduled_date,omitempty"`

	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Scheduler materializes a patient's notification schedule from their care
// plan. State is in-memory and rebuilt on the next screening; nothing here
// is a source of truth.
type Scheduler struct {
	mu        sync.RWMutex
	byPatient map[string][]*Notification
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{byPatient: make(map[string][]*Notification)}
}

// Materialize replaces the patient's schedule with entries derived from the
// given plans. Called after each screening so the schedule always reflects
// the latest risk level.
func (s *Scheduler) Materialize(patientID string, management *careplan.ManagementPlan, lifestyle *careplan.LifestylePlan) []Notification {
	now := time.Now().UTC()
	var entries []*Notification

	add := func(n *Notification) {
		n.ID = uuid.New().String()
		n.PatientID = patientID
		n.CreatedAt = now
		entries = append(entries, n)
	}

	if management != nil {
		if management.RequiresImmediateConsultation {
			add(&Notification{
				Kind:          KindFollowUp,
				ScheduledDate: types.DateOf(now),
				Message:       management.ConsultationNote,
				Priority:      "critical",
			})
		}
		for _, f := range management.FollowUps {
			add(&Notification{
				Kind:          KindFollowUp,
				ScheduledDate: f.Date,
				Message:       f.Type,
				Priority:      "high",
			})
		}
	}

	if lifestyle != nil {
		for _, r := range lifestyle.Reminders {
			add(&Notification{
				Kind:      KindReminder,
				TimeOfDay: r.Time,
				Message:   r.Message,
				Priority:  string(r.Priority),
			})
		}
	}

	s.mu.Lock()
	s.byPatient[patientID] = entries
	s.mu.Unlock()

	return s.List(patientID, false)
}

// List returns the patient's schedule: follow-ups by date, then daily
// reminders by time of day
func (s *Scheduler) List(patientID string, unreadOnly bool) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byPatient[patientID]
	out := make([]Notification, 0, len(entries))
	for _, n := range entries {
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, *n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == KindFollowUp
		}
		if out[i].Kind == KindFollowUp {
			return out[i].ScheduledDate.Before(out[j].ScheduledDate)
		}
		return out[i].TimeOfDay < out[j].TimeOfDay
	})
	return out
}

// MarkRead flags one notification as read
func (s *Scheduler) MarkRead(patientID, notificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.byPatient[patientID] {
		if n.ID == notificationID {
			n.Read = true
			return nil
		}
	}
	return errors.NotFound("notification", notificationID)
}
