package model

import "time"

// JobStatus is the lifecycle state of one automation run.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in-progress"
	JobStatusPaused     JobStatus = "paused"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transitions are accepted.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether the job counts towards the dashboard's active total.
func (s JobStatus) Active() bool {
	return s == JobStatusInProgress || s == JobStatusPaused
}

// Job is one automation run. Records live in memory only; the registry hands
// out copies, so a Job value never aliases registry state.
type Job struct {
	ID             string
	Niche          string
	Style          string
	VoiceID        string
	TemplateStyle  string
	Status         JobStatus
	Message        string
	Progress       int
	RequestedCount int
	AutoUpload     bool
	Started        time.Time
	FinishedAt     time.Time // zero until the job reaches a terminal status
}

type JobList []Job
