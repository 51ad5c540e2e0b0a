package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/stemsi/coeval-backend/internal/store"
)

// Metrics holds the application counters exposed on /metrics.
type Metrics struct {
	EvaluationsSubmitted prometheus.Counter
	EvaluationsEdited    prometheus.Counter
	EvaluationDenials    *prometheus.CounterVec
	Reorganizations      *prometheus.CounterVec
	UnassignedStudents   prometheus.Counter
	InvitationsSent      *prometheus.CounterVec
	StoreCalls           *prometheus.CounterVec
	StoreLatency         *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EvaluationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "coeval_evaluations_submitted_total",
			Help: "Peer evaluations recorded.",
		}),
		EvaluationsEdited: f.NewCounter(prometheus.CounterOpts{
			Name: "coeval_evaluations_edited_total",
			Help: "Peer evaluations rewritten in edit mode.",
		}),
		EvaluationDenials: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coeval_evaluation_denials_total",
			Help: "Submissions refused by eligibility, by reason.",
		}, []string{"reason"}),
		Reorganizations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coeval_group_reorganizations_total",
			Help: "Group reorganizations run, by mode and outcome.",
		}, []string{"mode", "outcome"}),
		UnassignedStudents: f.NewCounter(prometheus.CounterOpts{
			Name: "coeval_unassigned_students_total",
			Help: "Students trimmed out of groups by a capacity reduction.",
		}),
		InvitationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coeval_invitation_mails_total",
			Help: "Invitation mails processed, by outcome.",
		}, []string{"outcome"}),
		StoreCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coeval_store_calls_total",
			Help: "Record store calls, by table, operation and outcome.",
		}, []string{"table", "op", "outcome"}),
		StoreLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coeval_store_call_duration_seconds",
			Help:    "Record store call latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"table", "op"}),
	}
}

// ObserveStoreCall implements store.Observer.
func (m *Metrics) ObserveStoreCall(table store.Table, op string, err error, elapsed time.Duration) {
	m.StoreCalls.WithLabelValues(string(table), op, outcome(err)).Inc()
	m.StoreLatency.WithLabelValues(string(table), op).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// The recorders below are nil-safe so services and CLIs can run without a
// registry.

// Submitted counts recorded evaluations.
func (m *Metrics) Submitted(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EvaluationsSubmitted.Add(float64(n))
}

// Edited counts rewritten evaluations.
func (m *Metrics) Edited(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EvaluationsEdited.Add(float64(n))
}

// Denied counts one refused submission.
func (m *Metrics) Denied(reason string) {
	if m == nil {
		return
	}
	m.EvaluationDenials.WithLabelValues(reason).Inc()
}

// Reorganized counts one reorganization run and the students it left unassigned.
func (m *Metrics) Reorganized(mode string, err error, unassigned int) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "failed"
	}
	m.Reorganizations.WithLabelValues(mode, result).Inc()
	if unassigned > 0 {
		m.UnassignedStudents.Add(float64(unassigned))
	}
}

// Invitation counts one processed invitation mail.
func (m *Metrics) Invitation(result string) {
	if m == nil {
		return
	}
	m.InvitationsSent.WithLabelValues(result).Inc()
}
