// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vector-doc-search/internal/domain"
	"vector-doc-search/internal/domain/model"
	"vector-doc-search/internal/domain/ports/adapter"
)

// fakeService is a small in-memory stand-in for the managed service used
// by unit tests. FileStatus consumes scripted states; deletions are
// recorded so tests can assert on cleanup behavior.
type fakeService struct {
	mu sync.Mutex

	uploadErr   error
	uploadCalls int

	storeErr   error
	storeCalls int

	attachErr   error
	attachState adapter.JobState

	statuses    []adapter.JobState
	statusErr   error
	statusCalls int

	askErr    error
	askAnswer model.Answer
	lastAsk   *adapter.AskParams

	stores []adapter.StoreInfo

	deleteErr     map[string]error // keyed by resource id
	deletedStores []string
	deletedResps  []string
	deletedFiles  []string
}

func newFakeService() *fakeService {
	return &fakeService{
		attachState: adapter.JobState{BatchID: "vsf_1", Status: model.JobStatusPending},
		deleteErr:   map[string]error{},
	}
}

func (f *fakeService) UploadFile(ctx context.Context, path string) (adapter.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return adapter.FileInfo{}, f.uploadErr
	}
	return adapter.FileInfo{ID: "file_1", Name: path, Bytes: 42}, nil
}

func (f *fakeService) CreateStore(ctx context.Context, name string, expiresDays int) (adapter.StoreInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.storeCalls++
	if f.storeErr != nil {
		return adapter.StoreInfo{}, f.storeErr
	}
	return adapter.StoreInfo{ID: "vs_1", Name: name}, nil
}

func (f *fakeService) AttachFile(ctx context.Context, p adapter.AttachParams) (adapter.JobState, error) {
	if f.attachErr != nil {
		return adapter.JobState{}, f.attachErr
	}
	return f.attachState, nil
}

func (f *fakeService) FileStatus(ctx context.Context, storeID, batchID string) (adapter.JobState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return adapter.JobState{}, f.statusErr
	}
	if len(f.statuses) == 0 {
		return adapter.JobState{BatchID: batchID, Status: model.JobStatusCompleted}, nil
	}
	s := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return s, nil
}

func (f *fakeService) Ask(ctx context.Context, p adapter.AskParams) (model.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := p
	f.lastAsk = &cp
	if f.askErr != nil {
		return model.Answer{}, f.askErr
	}
	return f.askAnswer, nil
}

func (f *fakeService) ListStores(ctx context.Context) ([]adapter.StoreInfo, error) {
	return f.stores, nil
}

func (f *fakeService) DeleteStore(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deletedStores = append(f.deletedStores, id)
	return nil
}

func (f *fakeService) DeleteResponse(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deletedResps = append(f.deletedResps, id)
	return nil
}

func (f *fakeService) DeleteFile(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deletedFiles = append(f.deletedFiles, id)
	return nil
}

var _ adapter.VectorSearchAdapter = (*fakeService)(nil)

// memUploadCache is an in-memory UploadCacheRepository.
type memUploadCache struct {
	mu      sync.Mutex
	store   map[string]string
	getErr  error
	saveErr error
	saves   int
}

func newMemUploadCache() *memUploadCache {
	return &memUploadCache{store: map[string]string{}}
}

func (m *memUploadCache) GetFileID(ctx context.Context, digest string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	id, ok := m.store[digest]
	if !ok {
		return "", fmt.Errorf("miss: %w", domain.ErrNotFound)
	}
	return id, nil
}

func (m *memUploadCache) SaveFileID(ctx context.Context, digest, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.store[digest] = fileID
	return nil
}

// fakeSleeper records requested delays instead of sleeping.
type fakeSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
	err    error
}

func (f *fakeSleeper) sleep(ctx context.Context, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.delays = append(f.delays, d)
	return nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// instantPoller polls with recorded (not real) delays.
func instantPoller(sleeper *fakeSleeper) *Poller {
	p := NewPoller(5*time.Second, 10*time.Minute, nopLogger())
	p.sleep = sleeper.sleep
	return p
}
