package models

import "time"

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

type JobParams struct {
	Company   string `json:"company"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Params    JobParams `json:"params"`
	Dir       string    `json:"-"`
	InputDir  string    `json:"-"`
	Files     []string  `json:"files"`
	ExitCode  int       `json:"exit_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Upload - один загруженный пользователем файл.
type Upload struct {
	Name string
	Data []byte
}

// JobResult - итог выполнения скрипта классификации.
// Archive заполнен, только если скрипт сообщил путь к архиву.
type JobResult struct {
	JobID       string
	ExitCode    int
	Log         string
	ArchiveName string
	Archive     []byte
}

func (r *JobResult) HasArchive() bool {
	return r != nil && r.ArchiveName != ""
}
