package model

import "time"

// Course is a teacher-owned course with its enrolled students and pending invitations.
type Course struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	TeacherID        UserID    `json:"teacher_id"`
	RegistrationCode string    `json:"registration_code"`
	StudentIDs       []UserID  `json:"student_ids"`
	Invitations      []string  `json:"invitations"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// HasStudent reports whether the student is enrolled.
func (c *Course) HasStudent(id UserID) bool { return ContainsUser(c.StudentIDs, id) }

// HasInvitation reports whether email has a pending invitation.
func (c *Course) HasInvitation(email string) bool {
	for _, e := range c.Invitations {
		if e == email {
			return true
		}
	}
	return false
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// JoinCourseRequest is the payload for joining a course by registration code.
type JoinCourseRequest struct {
	RegistrationCode string `json:"registration_code" binding:"required,len=6,numeric"`
}

// InviteStudentsRequest is the payload for inviting students by email.
type InviteStudentsRequest struct {
	Emails []string `json:"emails" binding:"required,min=1,max=200,dive,required,email"`
}
