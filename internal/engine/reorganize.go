package engine

import (
	"github.com/stemsi/coeval-backend/internal/model"
)

// Plan is the set of writes a reorganization needs, in the order they must
// be applied: deletions first, then creations, then membership updates.
type Plan struct {
	Delete []model.Group `json:"delete"`
	Create []model.Group `json:"create"`
	Update []model.Group `json:"update"`
	// Unassigned lists students trimmed out of over-capacity groups. They
	// belong to no group afterwards and need a teacher decision.
	Unassigned []model.UserID `json:"unassigned"`
}

// Empty reports whether the plan performs no writes.
func (p Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0 && len(p.Update) == 0
}

// Reorganizer recomputes the groups of a category after its capacity or
// assignment mode changes.
type Reorganizer struct {
	partitioner *Partitioner
}

// NewReorganizer creates a Reorganizer.
func NewReorganizer(p *Partitioner) *Reorganizer {
	return &Reorganizer{partitioner: p}
}

// Reorganize dispatches on the category mode.
func (r *Reorganizer) Reorganize(category *model.Category, groups []model.Group) Plan {
	if category.RandomGroups {
		return r.ReorganizeRandom(category.CourseID, category.ID, groups, category.Capacity())
	}
	return r.AdjustFree(category.CourseID, category.ID, groups, category.Capacity())
}

// ReorganizeRandom drops every existing group and repartitions the full
// member list. The total headcount is preserved; group ids are not.
func (r *Reorganizer) ReorganizeRandom(courseID, categoryID string, groups []model.Group, capacity int) Plan {
	members := CollectMembers(groups)
	return Plan{
		Delete:     cloneGroups(groups),
		Create:     r.partitioner.PartitionRandom(courseID, categoryID, members, capacity),
		Update:     []model.Group{},
		Unassigned: []model.UserID{},
	}
}

// AdjustFree keeps existing groups, adds empty ones until the headcount fits
// and trims groups above the new capacity (stable order truncation).
func (r *Reorganizer) AdjustFree(courseID, categoryID string, groups []model.Group, capacity int) Plan {
	plan := Plan{
		Delete:     []model.Group{},
		Create:     []model.Group{},
		Update:     []model.Group{},
		Unassigned: []model.UserID{},
	}

	total := 0
	for _, g := range groups {
		total += g.Size()
	}

	required := GroupCount(total, capacity)
	for n := len(groups) + 1; n <= required; n++ {
		plan.Create = append(plan.Create, r.partitioner.NewEmptyGroup(courseID, categoryID, n))
	}

	if capacity <= 0 {
		return plan
	}
	for _, g := range groups {
		if g.Size() <= capacity {
			continue
		}
		trimmed := g
		trimmed.MemberIDs = append([]model.UserID(nil), g.MemberIDs[:capacity]...)
		plan.Update = append(plan.Update, trimmed)
		plan.Unassigned = append(plan.Unassigned, g.MemberIDs[capacity:]...)
	}
	return plan
}

// CollectMembers concatenates the member lists of groups in order.
func CollectMembers(groups []model.Group) []model.UserID {
	var n int
	for _, g := range groups {
		n += g.Size()
	}
	out := make([]model.UserID, 0, n)
	for _, g := range groups {
		out = append(out, g.MemberIDs...)
	}
	return out
}

// UniqueMembers returns the union of member ids in first-appearance order.
func UniqueMembers(groups []model.Group) []model.UserID {
	seen := make(map[model.UserID]struct{})
	out := make([]model.UserID, 0)
	for _, g := range groups {
		for _, id := range g.MemberIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func cloneGroups(groups []model.Group) []model.Group {
	out := make([]model.Group, len(groups))
	copy(out, groups)
	return out
}
