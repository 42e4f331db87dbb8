package services

import (
	"context"

	"github.com/sunr3d/classify-suppliers/models"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.2 --name=ClassifierService --output=../../../mocks
type ClassifierService interface {
	Classify(ctx context.Context, params models.JobParams, uploads []models.Upload) (*models.JobResult, error)
	ListJobs(ctx context.Context) ([]models.Job, error)
}
