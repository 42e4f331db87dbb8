package infra

import (
	"context"

	"github.com/sunr3d/classify-suppliers/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=JobRegistry --output=../../../mocks
type JobRegistry interface {
	SaveJob(ctx context.Context, job *models.Job) error
	ListJobs(ctx context.Context) ([]models.Job, error)
	CountJobsInProcess(ctx context.Context) (int, error)
	DeleteJob(ctx context.Context, id string) error
}
