package engine

import (
	"fmt"
	"time"

	"github.com/stemsi/coeval-backend/internal/model"
)

// WindowState is the lifecycle state of an assessment derived from its
// fields at a given instant.
type WindowState string

const (
	WindowNotStarted WindowState = "not_started"
	WindowOpen       WindowState = "open"
	WindowExpired    WindowState = "expired"
	WindowCancelled  WindowState = "cancelled"
	// WindowUnscheduled covers assessments without a start time.
	WindowUnscheduled WindowState = "unscheduled"
)

// Labels shown for the remaining time of an assessment.
const (
	LabelCancelled = "Cancelada"
	LabelNoDate    = "Sin fecha"
	LabelFinished  = "Tiempo Finalizado"
)

// StateAt derives the window state at now. Cancellation overrides every
// time check; the end instant itself still counts as open.
func StateAt(a *model.Assessment, now time.Time) WindowState {
	if a.Cancelled {
		return WindowCancelled
	}
	if a.StartAt == nil {
		return WindowUnscheduled
	}
	if now.Before(*a.StartAt) {
		return WindowNotStarted
	}
	if now.After(*a.EndAt()) {
		return WindowExpired
	}
	return WindowOpen
}

// RemainingLabel formats the time left until the window closes using the
// largest whole unit.
func RemainingLabel(a *model.Assessment, now time.Time) string {
	if a.Cancelled {
		return LabelCancelled
	}
	if a.StartAt == nil {
		return LabelNoDate
	}
	end := *a.EndAt()
	if now.After(end) {
		return LabelFinished
	}

	minutes := int(end.Sub(now) / time.Minute)
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return plural(days, "día", "días")
	case hours > 0:
		return plural(hours, "hora", "horas")
	default:
		return plural(minutes, "minuto", "minutos")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Cancel marks the assessment cancelled. There is no reverse transition.
func Cancel(a *model.Assessment) {
	a.Cancelled = true
}

// SetGradesVisible toggles student access to grades regardless of the
// window state.
func SetGradesVisible(a *model.Assessment, visible bool) {
	a.GradesVisible = visible
}

// WindowView is the assessment as listed to clients.
type WindowView struct {
	model.Assessment
	EndAt          *time.Time  `json:"end_at,omitempty"`
	State          WindowState `json:"state"`
	RemainingLabel string      `json:"remaining_label"`
}

// ViewAt builds the listing view of a at now.
func ViewAt(a model.Assessment, now time.Time) WindowView {
	return WindowView{
		Assessment:     a,
		EndAt:          a.EndAt(),
		State:          StateAt(&a, now),
		RemainingLabel: RemainingLabel(&a, now),
	}
}
