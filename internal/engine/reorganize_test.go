package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/model"
)

func group(id string, members ...model.UserID) model.Group {
	if members == nil {
		members = []model.UserID{}
	}
	return model.Group{ID: id, CourseID: "c1", CategoryID: "cat1", Name: id, MemberIDs: members}
}

func totalMembers(groups []model.Group) int {
	return len(CollectMembers(groups))
}

func TestReorganizeRandom_Conservation(t *testing.T) {
	r := NewReorganizer(NewPartitioner(&SequenceGenerator{Prefix: "n"}, nil))
	existing := []model.Group{
		group("a", "s1", "s2", "s3", "s4"),
		group("b", "s5", "s6", "s7"),
		group("c"),
	}

	for capacity := 0; capacity <= 8; capacity++ {
		plan := r.ReorganizeRandom("c1", "cat1", existing, capacity)

		assert.Len(t, plan.Delete, 3)
		assert.Equal(t, totalMembers(existing), totalMembers(plan.Create), "cap=%d", capacity)
		assert.Equal(t, sorted(CollectMembers(existing)), sorted(CollectMembers(plan.Create)))
		assert.Empty(t, plan.Update)
		assert.Empty(t, plan.Unassigned)
		for _, g := range plan.Create {
			if capacity > 0 {
				assert.LessOrEqual(t, g.Size(), capacity)
			}
		}
	}
}

func TestAdjustFree_GrowsGroups(t *testing.T) {
	r := NewReorganizer(NewPartitioner(&SequenceGenerator{Prefix: "n"}, nil))
	existing := []model.Group{
		group("a", "s1", "s2", "s3"),
		group("b", "s4", "s5", "s6"),
	}

	plan := r.AdjustFree("c1", "cat1", existing, 2)

	require.Len(t, plan.Create, 1)
	assert.Equal(t, "Grupo 3", plan.Create[0].Name)
	assert.Empty(t, plan.Create[0].MemberIDs)
	assert.Empty(t, plan.Delete)

	require.Len(t, plan.Update, 2)
	assert.Equal(t, []model.UserID{"s1", "s2"}, plan.Update[0].MemberIDs)
	assert.Equal(t, []model.UserID{"s4", "s5"}, plan.Update[1].MemberIDs)
	assert.Equal(t, []model.UserID{"s3", "s6"}, plan.Unassigned)

	// The caller's groups are untouched.
	assert.Len(t, existing[0].MemberIDs, 3)
}

func TestAdjustFree_CapacityIncreaseIsNoop(t *testing.T) {
	r := NewReorganizer(NewPartitioner(&SequenceGenerator{Prefix: "n"}, nil))
	existing := []model.Group{
		group("a", "s1", "s2", "s3"),
		group("b", "s4", "s5"),
		group("c", "s6"),
	}

	for _, capacity := range []int{3, 4, 10, 0} {
		plan := r.AdjustFree("c1", "cat1", existing, capacity)
		assert.True(t, plan.Empty(), "cap=%d: %s", capacity, plan.Describe())
		assert.Empty(t, plan.Unassigned)
	}
}

func TestReorganize_DispatchesOnMode(t *testing.T) {
	r := NewReorganizer(NewPartitioner(&SequenceGenerator{Prefix: "n"}, nil))
	capacity := 1
	existing := []model.Group{group("a", "s1", "s2")}

	random := r.Reorganize(&model.Category{ID: "cat1", CourseID: "c1", RandomGroups: true, MaxStudentsPerGroup: &capacity}, existing)
	assert.Len(t, random.Delete, 1)
	assert.Len(t, random.Create, 2)

	free := r.Reorganize(&model.Category{ID: "cat1", CourseID: "c1", MaxStudentsPerGroup: &capacity}, existing)
	assert.Empty(t, free.Delete)
	assert.Len(t, free.Create, 1)
	assert.Equal(t, []model.UserID{"s2"}, free.Unassigned)
}

func TestUniqueMembers(t *testing.T) {
	groups := []model.Group{
		group("a", "s2", "s1"),
		group("b", "s1", "s3"),
	}
	assert.Equal(t, []model.UserID{"s2", "s1", "s3"}, UniqueMembers(groups))
}
