package api

import "github.com/sunr3d/classify-suppliers/models"

// ClassifySuppliers
type classifyResp struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Log      string `json:"log,omitempty"`
	ExitCode *int   `json:"exit_code,omitempty"`
}

// ListJobs
type listJobsResp struct {
	Jobs []jobResp `json:"jobs"`
}

type jobResp struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Params    models.JobParams `json:"params"`
	Files     []string         `json:"files"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// Health
type healthResp struct {
	OK bool `json:"ok"`
}
