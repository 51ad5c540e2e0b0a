package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/model"
)

type recordingWriter struct {
	calls  []string
	failOn string
}

func (w *recordingWriter) record(op, id string) error {
	w.calls = append(w.calls, op+":"+id)
	if op+":"+id == w.failOn {
		return errors.New("boom")
	}
	return nil
}

func (w *recordingWriter) Create(_ context.Context, g *model.Group) error {
	return w.record("create", g.ID)
}

func (w *recordingWriter) UpdateMembers(_ context.Context, id string, _ []model.UserID) error {
	return w.record("update", id)
}

func (w *recordingWriter) Delete(_ context.Context, id string) error {
	return w.record("delete", id)
}

func TestRunSequential_Order(t *testing.T) {
	w := &recordingWriter{}
	plan := Plan{
		Delete: []model.Group{group("old1"), group("old2")},
		Create: []model.Group{group("new1")},
		Update: []model.Group{group("keep1")},
	}

	var seen []int
	report, err := RunSequential(context.Background(), PlanTasks(plan, w), func(r TaskResult) { seen = append(seen, r.Step) })

	require.NoError(t, err)
	assert.Equal(t, []string{"delete:old1", "delete:old2", "create:new1", "update:keep1"}, w.calls)
	assert.Equal(t, []int{1, 2, 3, 4}, seen)
	assert.Equal(t, 4, report.Completed())
}

func TestRunSequential_StopsAtFailure(t *testing.T) {
	w := &recordingWriter{failOn: "create:new1"}
	plan := Plan{
		Delete: []model.Group{group("old1")},
		Create: []model.Group{group("new1"), group("new2")},
	}

	report, err := RunSequential(context.Background(), PlanTasks(plan, w), nil)

	var se *StepError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Step)
	assert.Equal(t, 3, se.Total)
	assert.Equal(t, "create_group", se.Op)
	assert.Equal(t, "new1", se.EntityID)
	assert.Equal(t, []string{"delete:old1", "create:new1"}, w.calls, "no retry and no further steps")
	assert.Equal(t, 1, report.Completed())
	assert.Len(t, report.Results, 2)
}
