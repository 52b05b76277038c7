package lab

import (
	"time"

	"github.com/cardiowell/platform/internal/screening/domain"
)

// Result is one lipid panel pulled from a hospital LIS, together with the
// demographics the LIS records for the order.
type Result struct {
	ResultID    string            `json:"result_id"`
	PatientID   string            `json:"patient_id"`
	CollectedAt time.Time         `json:"collected_at"`
	Age         int               `json:"age"`
	Gender      domain.Gender     `json:"gender"`
	Panel       domain.LipidPanel `json:"panel"`
}

// Source is implemented by LIS adapters that stream new lab results
type Source interface {
	// Results returns the channel of imported panels. Closed on Stop.
	Results() <-chan Result
}
