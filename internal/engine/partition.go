package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/stemsi/coeval-backend/internal/model"
)

// ShuffleFunc permutes n elements through swap. rand.Shuffle satisfies it.
type ShuffleFunc func(n int, swap func(i, j int))

// Partitioner forms groups out of a course roster.
type Partitioner struct {
	ids     IDGenerator
	shuffle ShuffleFunc
}

// NewPartitioner creates a Partitioner. A nil shuffle uses an unbiased
// Fisher-Yates shuffle from math/rand/v2.
func NewPartitioner(ids IDGenerator, shuffle ShuffleFunc) *Partitioner {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &Partitioner{ids: ids, shuffle: shuffle}
}

// GroupName returns the display name of the n-th group (1-indexed).
func GroupName(n int) string {
	return fmt.Sprintf("Grupo %d", n)
}

// GroupCount returns how many groups are needed for total students at the
// given capacity. A capacity <= 0 means unbounded: one group when there is
// anyone to place.
func GroupCount(total, capacity int) int {
	if total <= 0 {
		return 0
	}
	if capacity <= 0 {
		return 1
	}
	return (total + capacity - 1) / capacity
}

// PartitionRandom shuffles the students and slices them into consecutive
// chunks of at most capacity members. The input slice is not modified.
func (p *Partitioner) PartitionRandom(courseID, categoryID string, students []model.UserID, capacity int) []model.Group {
	count := GroupCount(len(students), capacity)
	if count == 0 {
		return []model.Group{}
	}

	shuffled := make([]model.UserID, len(students))
	copy(shuffled, students)
	p.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	size := capacity
	if size <= 0 {
		size = len(shuffled)
	}

	groups := make([]model.Group, 0, count)
	for i := 0; i < count; i++ {
		start := i * size
		end := min(start+size, len(shuffled))
		members := make([]model.UserID, end-start)
		copy(members, shuffled[start:end])
		groups = append(groups, p.newGroup(courseID, categoryID, i+1, members))
	}
	return groups
}

// PartitionFree creates the empty groups students later join by themselves.
func (p *Partitioner) PartitionFree(courseID, categoryID string, studentCount, capacity int) []model.Group {
	count := GroupCount(studentCount, capacity)
	groups := make([]model.Group, 0, count)
	for i := 0; i < count; i++ {
		groups = append(groups, p.newGroup(courseID, categoryID, i+1, []model.UserID{}))
	}
	return groups
}

// NewEmptyGroup mints one empty group numbered n.
func (p *Partitioner) NewEmptyGroup(courseID, categoryID string, n int) model.Group {
	return p.newGroup(courseID, categoryID, n, []model.UserID{})
}

func (p *Partitioner) newGroup(courseID, categoryID string, n int, members []model.UserID) model.Group {
	return model.Group{
		ID:         p.ids.NewID(),
		CourseID:   courseID,
		CategoryID: categoryID,
		Name:       GroupName(n),
		MemberIDs:  members,
	}
}
