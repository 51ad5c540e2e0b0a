package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/model"
)

func freeCategory(t *testing.T, e *env, max int, students ...string) *CategoryResult {
	t.Helper()
	c := e.course(t, students...)
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Libre", MaxStudentsPerGroup: capacity(max),
	})
	require.NoError(t, err)
	return res
}

func TestGroupService_JoinAndLeave(t *testing.T) {
	e := newEnv(t)
	res := freeCategory(t, e, 2, "s1", "s2", "s3")
	g := res.Groups[0]

	joined, err := e.groupSvc.Join(e.ctx, student("s1"), g.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.UserID{"s1"}, joined.MemberIDs)

	again, err := e.groupSvc.Join(e.ctx, student("s1"), g.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Size())

	mine, err := e.groupSvc.MyGroup(e.ctx, student("s1"), res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, mine.ID)

	require.NoError(t, e.groupSvc.Leave(e.ctx, student("s1"), g.ID))
	_, err = e.groupSvc.MyGroup(e.ctx, student("s1"), res.Category.ID)
	assert.ErrorIs(t, err, ErrNoGroup)

	assert.ErrorIs(t, e.groupSvc.Leave(e.ctx, student("s1"), g.ID), ErrNotInGroup)
}

func TestGroupService_JoinEnforcesCapacity(t *testing.T) {
	e := newEnv(t)
	res := freeCategory(t, e, 2, "s1", "s2", "s3")
	g := res.Groups[0]

	for _, s := range []string{"s1", "s2"} {
		_, err := e.groupSvc.Join(e.ctx, student(s), g.ID)
		require.NoError(t, err)
	}

	_, err := e.groupSvc.Join(e.ctx, student("s3"), g.ID)
	assert.ErrorIs(t, err, ErrGroupFull)
}

func TestGroupService_JoinOneGroupPerCategory(t *testing.T) {
	e := newEnv(t)
	res := freeCategory(t, e, 2, "s1", "s2", "s3")
	require.Len(t, res.Groups, 2)

	_, err := e.groupSvc.Join(e.ctx, student("s1"), res.Groups[0].ID)
	require.NoError(t, err)

	_, err = e.groupSvc.Join(e.ctx, student("s1"), res.Groups[1].ID)
	assert.ErrorIs(t, err, ErrAlreadyInGroup)
}

func TestGroupService_JoinRejects(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2")
	random, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Azar", RandomGroups: true, MaxStudentsPerGroup: capacity(1),
	})
	require.NoError(t, err)

	_, err = e.groupSvc.Join(e.ctx, student("s1"), random.Groups[1].ID)
	assert.ErrorIs(t, err, ErrRandomCategory)

	_, err = e.groupSvc.Join(e.ctx, teacher, random.Groups[0].ID)
	assert.ErrorIs(t, err, ErrStudentOnly)

	_, err = e.groupSvc.Join(e.ctx, student("s9"), random.Groups[0].ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGroupService_AddEmpty(t *testing.T) {
	e := newEnv(t)
	res := freeCategory(t, e, 2, "s1", "s2", "s3")

	g, err := e.groupSvc.AddEmpty(e.ctx, teacher, res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grupo 3", g.Name)
	assert.Zero(t, g.Size())

	groups, err := e.groupSvc.ListByCategory(e.ctx, student("s1"), res.Category.ID)
	require.NoError(t, err)
	assert.Len(t, groups, 3)

	_, err = e.groupSvc.AddEmpty(e.ctx, student("s1"), res.Category.ID)
	assert.ErrorIs(t, err, ErrTeacherOnly)
}
