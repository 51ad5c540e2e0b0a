package model

// Group is a roster of students under a category.
type Group struct {
	ID         string   `json:"id"`
	CourseID   string   `json:"course_id"`
	CategoryID string   `json:"category_id"`
	Name       string   `json:"name"`
	MemberIDs  []UserID `json:"member_ids"`
}

// HasMember reports whether the student belongs to the group.
func (g *Group) HasMember(id UserID) bool { return ContainsUser(g.MemberIDs, id) }

// Size returns the member count.
func (g *Group) Size() int { return len(g.MemberIDs) }

// FindGroupOf returns the group containing the student, if any.
func FindGroupOf(groups []Group, id UserID) (*Group, bool) {
	for i := range groups {
		if groups[i].HasMember(id) {
			return &groups[i], true
		}
	}
	return nil, false
}
