package model

import "time"

// Assessment is one timed round of peer evaluation tied to an activity.
type Assessment struct {
	ID              string     `json:"id"`
	ActivityID      string     `json:"activity_id"`
	CourseID        string     `json:"course_id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	StartAt         *time.Time `json:"start_at,omitempty"`
	Cancelled       bool       `json:"cancelled"`
	GradesVisible   bool       `json:"grades_visible"`
}

// EndAt returns StartAt + DurationMinutes, or nil when the assessment has no start.
func (a *Assessment) EndAt() *time.Time {
	if a.StartAt == nil {
		return nil
	}
	end := a.StartAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
	return &end
}

// CreateAssessmentRequest is the payload for launching an assessment.
type CreateAssessmentRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=200"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=43200"`
}

// GradesVisibilityRequest toggles student access to grades.
type GradesVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}
