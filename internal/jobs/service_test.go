package jobs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/apperr"
	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/jobs"
	"jobboard/internal/testutil"
)

type fixture struct {
	db       *testutil.MemDB
	clock    *testutil.Clock
	svc      *jobs.Service
	employer auth.Identity
	other    auth.Identity
	seeker   auth.Identity
	admin    auth.Identity
}

func newFixture() *fixture {
	db := testutil.NewMemDB()
	clock := testutil.NewClock()
	return &fixture{
		db:       db,
		clock:    clock,
		svc:      &jobs.Service{Store: db.Jobs(), Clock: clock.Now},
		employer: db.SeedUser("Emma Employer", "emma@example.com", auth.RoleEmployer),
		other:    db.SeedUser("Olga Other", "olga@example.com", auth.RoleEmployer),
		seeker:   db.SeedUser("Sam Seeker", "sam@example.com", auth.RoleSeeker),
		admin:    db.SeedUser("Ada Admin", "ada@example.com", auth.RoleAdmin),
	}
}

func TestCreate_StartsPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	v, err := f.svc.Create(ctx, f.employer, testutil.ValidJobInput("  Go Engineer "))
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusPending, v.Status)
	assert.Equal(t, "Go Engineer", v.Title)
	assert.Equal(t, f.employer.UserID, v.EmployerID)
	assert.Equal(t, "Emma Employer", v.EmployerName)
	assert.Equal(t, f.clock.Peek(), v.PostedDate)
	assert.Zero(t, v.ApplicationsCount)

	list, err := f.svc.List(ctx, jobs.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list, "pending jobs are not public")
}

func TestCreate_Forbidden(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Create(context.Background(), f.seeker, testutil.ValidJobInput("Nope"))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	missing := testutil.ValidJobInput("x")
	missing.Description = "   "
	_, err := f.svc.Create(ctx, f.employer, missing)
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
	assert.Equal(t, "description is required", apperr.Message(err))

	long := testutil.ValidJobInput(strings.Repeat("a", 201))
	_, err = f.svc.Create(ctx, f.employer, long)
	assert.True(t, apperr.Is(err, apperr.KindInvalid))
}

func TestApprovalScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.employer, testutil.ValidJobInput("Backend Dev"))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, f.employer, created.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden), "employers cannot approve")

	pending, err := f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	approved, err := f.svc.Approve(ctx, f.admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusApproved, approved.Status)

	public, err := f.svc.List(ctx, jobs.Filter{})
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, created.ID, public[0].ID)

	pending, err = f.svc.ListPending(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.Approve(ctx, f.admin, 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdate_OwnerOnlyAndKeepsStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	j := f.db.SeedJob(f.employer.UserID, "Old title", jobs.StatusApproved, f.clock.Now())

	_, err := f.svc.Update(ctx, f.other, j.ID, testutil.ValidJobInput("Hijack"))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = f.svc.Update(ctx, f.admin, j.ID, testutil.ValidJobInput("Admin edit"))
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	v, err := f.svc.Update(ctx, f.employer, j.ID, testutil.ValidJobInput("New title"))
	require.NoError(t, err)
	assert.Equal(t, "New title", v.Title)
	assert.Equal(t, jobs.StatusApproved, v.Status)
	assert.Equal(t, j.PostedDate, v.PostedDate)

	stored, err := f.db.Jobs().Get(ctx, j.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UpdatedAt)

	_, err = f.svc.Update(ctx, f.employer, 9999, testutil.ValidJobInput("Ghost"))
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDelete_CascadesApplications(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	j := f.db.SeedJob(f.employer.UserID, "Doomed", jobs.StatusApproved, f.clock.Now())

	apps := &applications.Service{Store: f.db.Applications(), Jobs: f.db.Jobs(), Clock: f.clock.Now}
	_, err := apps.Apply(ctx, f.seeker, j.ID, "hello")
	require.NoError(t, err)

	assert.True(t, apperr.Is(f.svc.Delete(ctx, f.other, j.ID), apperr.KindForbidden))

	require.NoError(t, f.svc.Delete(ctx, f.employer, j.ID))
	_, err = f.svc.Get(ctx, j.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	mine, err := apps.ListMine(ctx, f.seeker)
	require.NoError(t, err)
	assert.Empty(t, mine)

	assert.True(t, apperr.Is(f.svc.Delete(ctx, f.employer, j.ID), apperr.KindNotFound))
}

func TestList_FiltersAndOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.db.SeedJob(f.employer.UserID, "Go Engineer", jobs.StatusApproved, f.clock.Now())
	b := f.db.SeedJob(f.other.UserID, "Designer", jobs.StatusApproved, f.clock.Now())
	f.db.SeedJob(f.employer.UserID, "Go Intern", jobs.StatusPending, f.clock.Now())

	all, err := f.svc.List(ctx, jobs.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")
	assert.Equal(t, a.ID, all[1].ID)

	byKeyword, err := f.svc.List(ctx, jobs.Filter{Keyword: "Go"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, a.ID, byKeyword[0].ID)

	byCategory, err := f.svc.List(ctx, jobs.Filter{Category: "Marketing"})
	require.NoError(t, err)
	assert.Empty(t, byCategory)

	byLocation, err := f.svc.List(ctx, jobs.Filter{Location: "Berl"})
	require.NoError(t, err)
	assert.Len(t, byLocation, 2)
}

func TestListMine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.db.SeedJob(f.employer.UserID, "Mine approved", jobs.StatusApproved, f.clock.Now())
	f.db.SeedJob(f.employer.UserID, "Mine pending", jobs.StatusPending, f.clock.Now())
	f.db.SeedJob(f.other.UserID, "Theirs", jobs.StatusApproved, f.clock.Now())

	mine, err := f.svc.ListMine(ctx, f.employer)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "Mine pending", mine[0].Title)

	_, err = f.svc.ListMine(ctx, f.seeker)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestGet_AnyStatus(t *testing.T) {
	f := newFixture()
	j := f.db.SeedJob(f.employer.UserID, "Pending job", jobs.StatusPending, f.clock.Now())

	v, err := f.svc.Get(context.Background(), j.ID)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusPending, v.Status)
}
