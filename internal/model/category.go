package model

// Category is a grouping scheme inside a course.
type Category struct {
	ID                  string `json:"id"`
	CourseID            string `json:"course_id"`
	Name                string `json:"name"`
	RandomGroups        bool   `json:"random_groups"`
	MaxStudentsPerGroup *int   `json:"max_students_per_group,omitempty"`
}

// Capacity returns the group capacity, or 0 when unbounded.
func (c *Category) Capacity() int {
	if c.MaxStudentsPerGroup == nil || *c.MaxStudentsPerGroup <= 0 {
		return 0
	}
	return *c.MaxStudentsPerGroup
}

// CreateCategoryRequest is the payload for creating a category.
type CreateCategoryRequest struct {
	Name                string `json:"name" binding:"required,min=1,max=120"`
	RandomGroups        bool   `json:"random_groups"`
	MaxStudentsPerGroup *int   `json:"max_students_per_group" binding:"omitempty,min=1,max=500"`
}

// UpdateCategoryRequest is the payload for updating a category.
// ClearCapacity removes the cap (unbounded groups).
type UpdateCategoryRequest struct {
	Name                *string `json:"name" binding:"omitempty,min=1,max=120"`
	RandomGroups        *bool   `json:"random_groups"`
	MaxStudentsPerGroup *int    `json:"max_students_per_group" binding:"omitempty,min=1,max=500"`
	ClearCapacity       bool    `json:"clear_capacity"`
}
