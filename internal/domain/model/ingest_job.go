package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further status transition can occur.
// Anything the service reports outside the known terminal set is treated
// as an intermediate state and polled again.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// IngestJob tracks one file batch: the asynchronous remote job that
// indexes an uploaded file into a vector store. The remote service owns
// the status; we only observe it.
type IngestJob struct {
	ID        string
	FileID    string
	StoreID   string
	BatchID   string // remote id of the store/file association
	Status    JobStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewIngestJob(fileID, storeID string) *IngestJob {
	now := time.Now()
	return &IngestJob{
		ID:        ulid.Make().String(),
		FileID:    fileID,
		StoreID:   storeID,
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (j *IngestJob) Observe(status JobStatus, lastError string) {
	j.Status = status
	j.LastError = lastError
	j.Attempts++
	j.UpdatedAt = time.Now()
}
