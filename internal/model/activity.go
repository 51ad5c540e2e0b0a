package model

import "time"

// Activity is a piece of course work tied to a category.
type Activity struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"course_id"`
	CategoryID  string     `json:"category_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Visible     bool       `json:"visible"`
}

// CreateActivityRequest is the payload for creating an activity.
type CreateActivityRequest struct {
	CategoryID  string     `json:"category_id" binding:"required"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date"`
	Visible     *bool      `json:"visible"`
}

// UpdateActivityRequest is the payload for updating an activity.
type UpdateActivityRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	DueDate     *time.Time `json:"due_date"`
	Visible     *bool      `json:"visible"`
}
