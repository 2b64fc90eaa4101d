package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shortsmith/shortsmith/internal/store/model"
)

// Job is the registry of automation runs. Records live in memory only and do
// not survive a restart; only the produced videos are persisted.
type Job interface {
	Create(ctx context.Context, job model.Job) (model.Job, error)
	Get(ctx context.Context, id string) (model.Job, error)
	List(ctx context.Context) model.JobList
	// Update applies mutate to the current record and replaces it atomically.
	// Readers observe either the previous or the new record, never a partial
	// write. Returns the new record.
	Update(ctx context.Context, id string, mutate func(model.Job) model.Job) (model.Job, error)
	CountByStatus(ctx context.Context) map[model.JobStatus]int
	// Outcomes returns the number of jobs that reached completed and failed
	// since process start. Pruned jobs stay counted.
	Outcomes(ctx context.Context) (completed int, failed int)
	// Prune drops terminal jobs that finished more than retention ago.
	Prune(ctx context.Context, retention time.Duration) int
}

type jobEntry struct {
	job model.Job
	seq uint64
}

// JobRegistry implements Job with a mutex-guarded map of records.
type JobRegistry struct {
	mu        sync.RWMutex
	jobs      map[string]jobEntry
	seq       uint64
	completed int
	failed    int
}

// Make sure we conform to Job interface
var _ Job = (*JobRegistry)(nil)

func NewJobRegistry() *JobRegistry {
	return &JobRegistry{jobs: make(map[string]jobEntry)}
}

func (r *JobRegistry) Create(_ context.Context, job model.Job) (model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if _, ok := r.jobs[job.ID]; ok {
		return model.Job{}, ErrDuplicateKey
	}
	if job.Status == "" {
		job.Status = model.JobStatusQueued
	}
	if job.Started.IsZero() {
		job.Started = time.Now()
	}
	r.seq++
	r.jobs[job.ID] = jobEntry{job: job, seq: r.seq}
	return job, nil
}

func (r *JobRegistry) Get(_ context.Context, id string) (model.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.jobs[id]
	if !ok {
		return model.Job{}, ErrRecordNotFound
	}
	return entry.job, nil
}

// List returns all jobs, most recently created first.
func (r *JobRegistry) List(_ context.Context) model.JobList {
	r.mu.RLock()
	entries := make([]jobEntry, 0, len(r.jobs))
	for _, entry := range r.jobs {
		entries = append(entries, entry)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	jobs := make(model.JobList, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, entry.job)
	}
	return jobs
}

func (r *JobRegistry) Update(_ context.Context, id string, mutate func(model.Job) model.Job) (model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.jobs[id]
	if !ok {
		return model.Job{}, ErrRecordNotFound
	}

	before := entry.job
	after := mutate(before)
	after.ID = before.ID
	after.Started = before.Started
	after.RequestedCount = before.RequestedCount

	if !before.Status.Terminal() && after.Status.Terminal() {
		if after.FinishedAt.IsZero() {
			after.FinishedAt = time.Now()
		}
		switch after.Status {
		case model.JobStatusCompleted:
			r.completed++
		case model.JobStatusFailed:
			r.failed++
		}
	}

	entry.job = after
	r.jobs[id] = entry
	return after, nil
}

func (r *JobRegistry) CountByStatus(_ context.Context) map[model.JobStatus]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[model.JobStatus]int)
	for _, entry := range r.jobs {
		counts[entry.job.Status]++
	}
	return counts
}

func (r *JobRegistry) Outcomes(_ context.Context) (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.completed, r.failed
}

func (r *JobRegistry) Prune(_ context.Context, retention time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-retention)
	pruned := 0
	for id, entry := range r.jobs {
		if entry.job.Status.Terminal() && !entry.job.FinishedAt.IsZero() && entry.job.FinishedAt.Before(cutoff) {
			delete(r.jobs, id)
			pruned++
		}
	}
	return pruned
}
