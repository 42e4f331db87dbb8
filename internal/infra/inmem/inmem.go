package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/classify-suppliers/internal/interfaces/infra"
	"github.com/sunr3d/classify-suppliers/models"
)

var _ infra.JobRegistry = (*inmemRegistry)(nil)

type inmemRegistry struct {
	logger *zap.Logger
	jobs   map[string]models.Job
	mu     sync.RWMutex
	ttl    time.Duration
}

func New(log *zap.Logger, ttl time.Duration) infra.JobRegistry {
	return &inmemRegistry{
		logger: log,
		jobs:   make(map[string]models.Job),
		ttl:    ttl,
	}
}

func (r *inmemRegistry) SaveJob(ctx context.Context, job *models.Job) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if job == nil {
		return ErrJobNil
	}

	if job.ID == "" {
		return ErrJobIDEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *job
	saved.Files = append([]string(nil), job.Files...)
	r.jobs[job.ID] = saved
	r.logger.Debug("задача сохранена",
		zap.String("job_id", job.ID),
		zap.String("status", string(job.Status)),
	)

	return nil
}

func (r *inmemRegistry) ListJobs(ctx context.Context) ([]models.Job, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	jobs := make([]models.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	return jobs, nil
}

// CountJobsInProcess считает выполняющиеся задачи.
// Задачи, не обновлявшиеся дольше ttl, удаляются из реестра.
func (r *inmemRegistry) CountJobsInProcess(ctx context.Context) (int, error) {
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	now := time.Now()

	for id, job := range r.jobs {
		if job.Status != models.JobStatusRunning {
			continue
		}
		if r.ttl > 0 && now.Sub(job.UpdatedAt) > r.ttl {
			delete(r.jobs, id)
			r.logger.Warn("задача удалена по TTL", zap.String("job_id", id))
			continue
		}
		count++
	}

	return count, nil
}

func (r *inmemRegistry) DeleteJob(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrContextDone, ctx.Err())
	default:
	}

	if id == "" {
		return ErrJobIDEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[id]; !exists {
		return ErrJobNotFound
	}

	delete(r.jobs, id)
	r.logger.Debug("задача удалена", zap.String("job_id", id))

	return nil
}
