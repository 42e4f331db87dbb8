package inmem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sunr3d/classify-suppliers/models"
)

func newJob(id string, status models.JobStatus, updated time.Time) *models.Job {
	return &models.Job{
		ID:        id,
		Status:    status,
		Files:     []string{"nota.xml"},
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestInmem_SaveAndList(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, reg.SaveJob(ctx, newJob("b", models.JobStatusRunning, now)))
	require.NoError(t, reg.SaveJob(ctx, newJob("a", models.JobStatusRunning, now.Add(-time.Minute))))

	jobs, err := reg.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].ID)
	assert.Equal(t, "b", jobs[1].ID)
}

func TestInmem_SaveJob_CopiesJob(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx := context.Background()

	job := newJob("copy", models.JobStatusRunning, time.Now())
	require.NoError(t, reg.SaveJob(ctx, job))

	job.Status = models.JobStatusFailed
	job.Files[0] = "changed.xml"

	jobs, err := reg.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, models.JobStatusRunning, jobs[0].Status)
	assert.Equal(t, []string{"nota.xml"}, jobs[0].Files)
}

func TestInmem_SaveJob_Invalid(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx := context.Background()

	assert.Equal(t, ErrJobNil, reg.SaveJob(ctx, nil))
	assert.Equal(t, ErrJobIDEmpty, reg.SaveJob(ctx, &models.Job{}))
}

func TestInmem_CountJobsInProcess(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, reg.SaveJob(ctx, newJob("r1", models.JobStatusRunning, now)))
	require.NoError(t, reg.SaveJob(ctx, newJob("r2", models.JobStatusRunning, now)))
	require.NoError(t, reg.SaveJob(ctx, newJob("done", models.JobStatusSucceeded, now)))
	require.NoError(t, reg.SaveJob(ctx, newJob("stale", models.JobStatusRunning, now.Add(-2*time.Hour))))

	count, err := reg.CountJobsInProcess(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	jobs, err := reg.ListJobs(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 3)
}

func TestInmem_DeleteJob(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx := context.Background()

	require.NoError(t, reg.SaveJob(ctx, newJob("del", models.JobStatusRunning, time.Now())))
	require.NoError(t, reg.DeleteJob(ctx, "del"))

	assert.Equal(t, ErrJobNotFound, reg.DeleteJob(ctx, "del"))
	assert.Equal(t, ErrJobIDEmpty, reg.DeleteJob(ctx, ""))
}

func TestInmem_ContextCanceled(t *testing.T) {
	reg := New(zaptest.NewLogger(t), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := reg.SaveJob(ctx, newJob("x", models.JobStatusRunning, time.Now()))
	assert.ErrorIs(t, err, ErrContextDone)

	_, err = reg.ListJobs(ctx)
	assert.ErrorIs(t, err, ErrContextDone)

	_, err = reg.CountJobsInProcess(ctx)
	assert.ErrorIs(t, err, ErrContextDone)

	err = reg.DeleteJob(ctx, "x")
	assert.ErrorIs(t, err, ErrContextDone)
}
