package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/store"
)

func memberCount(groups []model.Group) int {
	n := 0
	for _, g := range groups {
		n += g.Size()
	}
	return n
}

func TestCategoryService_CreateRandom(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3", "s4", "s5")

	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: true, MaxStudentsPerGroup: capacity(2),
	})
	require.NoError(t, err)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, "Grupo 1", res.Groups[0].Name)
	assert.Equal(t, []model.UserID{"s1", "s2"}, res.Groups[0].MemberIDs)
	assert.Equal(t, []model.UserID{"s5"}, res.Groups[2].MemberIDs)
	assert.Equal(t, 3, res.Report.Completed())

	stored, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	assert.Equal(t, 5, memberCount(stored))
}

func TestCategoryService_CreateFree(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3")

	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Libre", MaxStudentsPerGroup: capacity(2),
	})
	require.NoError(t, err)

	require.Len(t, res.Groups, 2)
	assert.Zero(t, memberCount(res.Groups))
}

func TestCategoryService_CreateRequiresOwner(t *testing.T) {
	e := newEnv(t)
	c := e.course(t)

	_, err := e.categorySvc.Create(e.ctx, outsider, c.ID, model.CreateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = e.categorySvc.Create(e.ctx, student("s1"), c.ID, model.CreateCategoryRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrTeacherOnly)
}

func TestCategoryService_CreateStopsAtFailedGroup(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3", "s4", "s5")
	e.failOn("insert", store.TableGroups, 2)

	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: true, MaxStudentsPerGroup: capacity(2),
	})

	var step *engine.StepError
	require.ErrorAs(t, err, &step)
	assert.Equal(t, 2, step.Step)
	assert.Equal(t, 3, step.Total)
	assert.ErrorIs(t, err, errInjected)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.Report.Completed())

	stored, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1, "only the prefix before the failure is written")
}

func TestCategoryService_UpdateCapacityTrimsFreeGroups(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3", "s4")
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{Name: "Libre"})
	require.NoError(t, err)
	require.Len(t, res.Groups, 1)
	for _, s := range []string{"s1", "s2", "s3", "s4"} {
		_, err := e.groupSvc.Join(e.ctx, student(s), res.Groups[0].ID)
		require.NoError(t, err)
	}

	out, err := e.categorySvc.Update(e.ctx, teacher, res.Category.ID, model.UpdateCategoryRequest{MaxStudentsPerGroup: capacity(3)})
	require.NoError(t, err)

	assert.True(t, out.Reorganized)
	assert.Len(t, out.Plan.Create, 1)
	assert.Equal(t, []model.UserID{"s4"}, out.Plan.Unassigned)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.UnassignedStudents))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Reorganizations.WithLabelValues("free", "ok")))

	stored, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	first, ok := model.FindGroupOf(stored, "s1")
	require.True(t, ok)
	assert.Equal(t, []model.UserID{"s1", "s2", "s3"}, first.MemberIDs)
}

func TestCategoryService_UpdateRandomRepartitionsKeepsHeadcount(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3")
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: true, MaxStudentsPerGroup: capacity(3),
	})
	require.NoError(t, err)

	out, err := e.categorySvc.Update(e.ctx, teacher, res.Category.ID, model.UpdateCategoryRequest{MaxStudentsPerGroup: capacity(1)})
	require.NoError(t, err)

	assert.Len(t, out.Plan.Delete, 1)
	assert.Len(t, out.Plan.Create, 3)

	stored, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	assert.Equal(t, 3, memberCount(stored))
}

func TestCategoryService_UpdateNameOnly(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1")
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{Name: "Proyecto"})
	require.NoError(t, err)

	name := "Proyecto final"
	out, err := e.categorySvc.Update(e.ctx, teacher, res.Category.ID, model.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)

	assert.False(t, out.Reorganized)
	assert.Equal(t, "Proyecto final", out.Category.Name)
	got, err := e.categories.GetByID(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Proyecto final", got.Name)
}

func TestCategoryService_Delete(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2", "s3")
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: true, MaxStudentsPerGroup: capacity(2),
	})
	require.NoError(t, err)

	report, err := e.categorySvc.Delete(e.ctx, teacher, res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Completed())
	assert.Equal(t, "delete_category", report.Results[2].Op)

	_, err = e.categories.GetByID(e.ctx, res.Category.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	groups, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestCategoryService_Preview(t *testing.T) {
	e := newEnv(t)
	c := e.course(t, "s1", "s2")
	res, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: true, MaxStudentsPerGroup: capacity(2),
	})
	require.NoError(t, err)

	_, plan, err := e.categorySvc.Preview(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Len(t, plan.Delete, 1)
	assert.Len(t, plan.Create, 1)

	groups, err := e.groups.ListByCategory(e.ctx, res.Category.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Groups[0].ID, groups[0].ID, "preview writes nothing")
}
