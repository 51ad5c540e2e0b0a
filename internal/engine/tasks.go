package engine

import (
	"context"
	"fmt"

	"github.com/stemsi/coeval-backend/internal/model"
)

// Task is one write of a multi-step operation.
type Task struct {
	Op       string
	EntityID string
	Run      func(ctx context.Context) error
}

// TaskResult records the outcome of one task.
type TaskResult struct {
	Step     int    `json:"step"`
	Op       string `json:"op"`
	EntityID string `json:"entity_id"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Report summarises a task list run.
type Report struct {
	Results []TaskResult `json:"results"`
}

// Completed returns how many tasks succeeded.
func (r Report) Completed() int {
	n := 0
	for _, res := range r.Results {
		if res.Done {
			n++
		}
	}
	return n
}

// Progress is called after each task finishes.
type Progress func(TaskResult)

// RunSequential runs tasks one at a time in order and stops at the first
// failure. Each task is attempted at most once and nothing is rolled back,
// so a failure leaves a deterministic prefix of completed writes.
func RunSequential(ctx context.Context, tasks []Task, progress Progress) (Report, error) {
	report := Report{Results: make([]TaskResult, 0, len(tasks))}
	for i, t := range tasks {
		res := TaskResult{Step: i + 1, Op: t.Op, EntityID: t.EntityID}
		if err := t.Run(ctx); err != nil {
			res.Error = err.Error()
			report.Results = append(report.Results, res)
			if progress != nil {
				progress(res)
			}
			return report, &StepError{Step: i + 1, Total: len(tasks), Op: t.Op, EntityID: t.EntityID, Err: err}
		}
		res.Done = true
		report.Results = append(report.Results, res)
		if progress != nil {
			progress(res)
		}
	}
	return report, nil
}

// GroupWriter persists groups. It is satisfied by the group repository.
type GroupWriter interface {
	Create(ctx context.Context, g *model.Group) error
	UpdateMembers(ctx context.Context, id string, members []model.UserID) error
	Delete(ctx context.Context, id string) error
}

// PlanTasks turns a reorganization plan into an ordered task list.
func PlanTasks(plan Plan, w GroupWriter) []Task {
	tasks := make([]Task, 0, len(plan.Delete)+len(plan.Create)+len(plan.Update))
	for _, g := range plan.Delete {
		tasks = append(tasks, Task{
			Op:       "delete_group",
			EntityID: g.ID,
			Run:      func(ctx context.Context) error { return w.Delete(ctx, g.ID) },
		})
	}
	for _, g := range plan.Create {
		tasks = append(tasks, Task{
			Op:       "create_group",
			EntityID: g.ID,
			Run:      func(ctx context.Context) error { return w.Create(ctx, &g) },
		})
	}
	for _, g := range plan.Update {
		tasks = append(tasks, Task{
			Op:       "update_group",
			EntityID: g.ID,
			Run:      func(ctx context.Context) error { return w.UpdateMembers(ctx, g.ID, g.MemberIDs) },
		})
	}
	return tasks
}

// CreateGroupTasks turns freshly partitioned groups into creation tasks.
func CreateGroupTasks(groups []model.Group, w GroupWriter) []Task {
	return PlanTasks(Plan{Create: groups}, w)
}

// Describe renders a short summary of the plan for logs and CLIs.
func (p Plan) Describe() string {
	return fmt.Sprintf("delete=%d create=%d update=%d unassigned=%d",
		len(p.Delete), len(p.Create), len(p.Update), len(p.Unassigned))
}
