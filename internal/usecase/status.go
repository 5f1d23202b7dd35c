package usecase

import (
	"sync"
	"time"

	"vector-doc-search/internal/domain/model"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseUploading Phase = "uploading"
	PhaseIndexing  Phase = "indexing"
	PhaseQuerying  Phase = "querying"
	PhaseCleanup   Phase = "cleanup"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// Snapshot is the JSON shape served by the admin status endpoint.
type Snapshot struct {
	RunID     string          `json:"run_id"`
	Phase     Phase           `json:"phase"`
	FileID    string          `json:"file_id,omitempty"`
	StoreID   string          `json:"store_id,omitempty"`
	JobID     string          `json:"job_id,omitempty"`
	JobStatus model.JobStatus `json:"job_status,omitempty"`
	Attempts  int             `json:"attempts,omitempty"`
	LastError string          `json:"last_error,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StatusTracker publishes the pipeline's progress to the admin server.
type StatusTracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewStatusTracker(runID string) *StatusTracker {
	return &StatusTracker{snap: Snapshot{RunID: runID, Phase: PhaseIdle, UpdatedAt: time.Now()}}
}

func (t *StatusTracker) SetPhase(p Phase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Phase = p
	t.snap.UpdatedAt = time.Now()
}

func (t *StatusTracker) SetFile(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.FileID = id
	t.snap.UpdatedAt = time.Now()
}

func (t *StatusTracker) SetStore(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.StoreID = id
	t.snap.UpdatedAt = time.Now()
}

func (t *StatusTracker) ObserveJob(job *model.IngestJob) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.JobID = job.ID
	t.snap.JobStatus = job.Status
	t.snap.Attempts = job.Attempts
	t.snap.LastError = job.LastError
	t.snap.UpdatedAt = time.Now()
}

func (t *StatusTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Phase = PhaseFailed
	if err != nil {
		t.snap.LastError = err.Error()
	}
	t.snap.UpdatedAt = time.Now()
}

func (t *StatusTracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
