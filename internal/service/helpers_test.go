package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/coeval-backend/internal/cache"
	"github.com/stemsi/coeval-backend/internal/engine"
	"github.com/stemsi/coeval-backend/internal/metrics"
	"github.com/stemsi/coeval-backend/internal/model"
	"github.com/stemsi/coeval-backend/internal/repository"
	"github.com/stemsi/coeval-backend/internal/store"
	"github.com/stemsi/coeval-backend/internal/worker"
)

var (
	teacher  = model.Identity{UserID: "t1", Role: model.RoleTeacher, Email: "profe@uni.edu"}
	outsider = model.Identity{UserID: "t2", Role: model.RoleTeacher}
)

func student(id string) model.Identity {
	return model.Identity{UserID: model.UserID(id), Role: model.RoleStudent, Email: id + "@uni.edu"}
}

type fakeQueue struct {
	sent []worker.Invitation
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, invitations ...worker.Invitation) error {
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, invitations...)
	return nil
}

var errInjected = errors.New("injected failure")

// faultStore fails the n-th call (1-based) of an "op:table" pair.
type faultStore struct {
	store.RecordStore
	failAt map[string]int
	calls  map[string]int
}

func (f *faultStore) fail(op string, table store.Table) error {
	key := op + ":" + string(table)
	f.calls[key]++
	if n, ok := f.failAt[key]; ok && f.calls[key] == n {
		return errInjected
	}
	return nil
}

func (f *faultStore) Insert(ctx context.Context, table store.Table, records ...store.Record) error {
	if err := f.fail("insert", table); err != nil {
		return err
	}
	return f.RecordStore.Insert(ctx, table, records...)
}

func (f *faultStore) Update(ctx context.Context, table store.Table, idColumn string, idValue any, fields store.Record) error {
	if err := f.fail("update", table); err != nil {
		return err
	}
	return f.RecordStore.Update(ctx, table, idColumn, idValue, fields)
}

func (f *faultStore) Delete(ctx context.Context, table store.Table, idColumn string, idValue any) error {
	if err := f.fail("delete", table); err != nil {
		return err
	}
	return f.RecordStore.Delete(ctx, table, idColumn, idValue)
}

// failOn arms the n-th future call of op on table, counting from now.
func (e *env) failOn(op string, table store.Table, n int) {
	key := op + ":" + string(table)
	e.faults.failAt[key] = e.faults.calls[key] + n
}

// identity keeps rosters in input order so partitions are predictable.
func identity(int, func(i, j int)) {}

// env wires every service over a MemoryStore with a pinned clock.
type env struct {
	ctx    context.Context
	store  *store.MemoryStore
	faults *faultStore
	now    time.Time

	courses     *repository.CourseRepository
	categories  *repository.CategoryRepository
	groups      *repository.GroupRepository
	activities  *repository.ActivityRepository
	assessments *repository.AssessmentRepository
	evals       *repository.PeerEvaluationRepository

	metrics *metrics.Metrics
	queue   *fakeQueue

	courseSvc     *CourseService
	categorySvc   *CategoryService
	groupSvc      *GroupService
	activitySvc   *ActivityService
	assessmentSvc *AssessmentService
	evaluationSvc *EvaluationService
	gradeSvc      *GradeService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ctx:   context.Background(),
		store: store.NewMemoryStore(),
		now:   time.Date(2025, 3, 10, 14, 30, 45, 0, time.UTC),
		queue: &fakeQueue{},
	}
	e.faults = &faultStore{RecordStore: e.store, failAt: map[string]int{}, calls: map[string]int{}}
	e.courses = repository.NewCourseRepository(e.faults)
	e.categories = repository.NewCategoryRepository(e.faults)
	e.groups = repository.NewGroupRepository(e.faults)
	e.activities = repository.NewActivityRepository(e.faults)
	e.assessments = repository.NewAssessmentRepository(e.faults)
	e.evals = repository.NewPeerEvaluationRepository(e.faults)
	e.metrics = metrics.New(prometheus.NewRegistry())

	ids := &engine.SequenceGenerator{Prefix: "id"}
	partitioner := engine.NewPartitioner(ids, identity)
	clock := Clock(func() time.Time { return e.now })
	log := zerolog.Nop()

	e.courseSvc = NewCourseService(e.courses, cache.NewMemoryCodeRegistry(), e.queue, ids, log)
	e.categorySvc = NewCategoryService(e.courses, e.categories, e.groups, partitioner, ids, e.metrics, log)
	e.groupSvc = NewGroupService(e.courses, e.categories, e.groups, partitioner, log)
	e.activitySvc = NewActivityService(e.courses, e.categories, e.activities, ids, log)
	e.assessmentSvc = NewAssessmentService(e.activitySvc, e.assessments, ids, clock, log)
	e.evaluationSvc = NewEvaluationService(e.assessmentSvc, e.groups, e.evals, ids, clock, e.metrics, log)
	e.gradeSvc = NewGradeService(e.assessmentSvc, e.assessments, e.activities, e.groups, e.evals, log)
	return e
}

// course creates a course owned by teacher with the given students enrolled.
func (e *env) course(t *testing.T, students ...string) *model.Course {
	t.Helper()
	c, err := e.courseSvc.Create(e.ctx, teacher, model.CreateCourseRequest{Name: "Móviles"})
	require.NoError(t, err)
	for _, s := range students {
		c, err = e.courseSvc.Join(e.ctx, student(s), c.RegistrationCode)
		require.NoError(t, err)
	}
	return c
}

func capacity(n int) *int { return &n }

// round sets up a course, a category with the given mode and capacity, an
// activity and an assessment launched at e.now.
func (e *env) round(t *testing.T, random bool, max int, students ...string) (*CategoryResult, *engine.WindowView) {
	t.Helper()
	c := e.course(t, students...)
	cat, err := e.categorySvc.Create(e.ctx, teacher, c.ID, model.CreateCategoryRequest{
		Name: "Proyecto", RandomGroups: random, MaxStudentsPerGroup: capacity(max),
	})
	require.NoError(t, err)
	act, err := e.activitySvc.Create(e.ctx, teacher, c.ID, model.CreateActivityRequest{CategoryID: cat.Category.ID, Name: "Sprint 1"})
	require.NoError(t, err)
	a, err := e.assessmentSvc.Create(e.ctx, teacher, act.ID, model.CreateAssessmentRequest{Title: "Coevaluación", DurationMinutes: 60})
	require.NoError(t, err)
	return cat, a
}

func ratings(evaluatee string, v int) model.RatingInput {
	return model.RatingInput{EvaluateeID: model.UserID(evaluatee), Punctuality: v, Contributions: v, Commitment: v, Attitude: v}
}
