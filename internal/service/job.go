package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/runner"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
	"github.com/shortsmith/shortsmith/pkg/metrics"
)

// JobService owns the job lifecycle: submission and the pause/resume/cancel
// transitions. All state validation happens inside the store's atomic update,
// so concurrent control requests cannot interleave a half-applied transition.
type JobService struct {
	store  store.Store
	runner *runner.Runner
}

func NewJobService(s store.Store, r *runner.Runner) *JobService {
	return &JobService{store: s, runner: r}
}

// SubmitRequest carries the operator inputs from the run form. Style, VoiceID
// and TemplateStyle are passed through to the pipeline uninterpreted.
type SubmitRequest struct {
	Niche         string
	Count         int
	Style         string
	VoiceID       string
	TemplateStyle string
	AutoUpload    bool
}

func (s *JobService) Submit(ctx context.Context, req SubmitRequest) (model.Job, error) {
	if req.Niche == "" {
		return model.Job{}, NewErrValidation("please specify a content niche")
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	job, err := s.store.Job().Create(ctx, model.Job{
		Niche:          req.Niche,
		Style:          req.Style,
		VoiceID:        req.VoiceID,
		TemplateStyle:  req.TemplateStyle,
		RequestedCount: req.Count,
		AutoUpload:     req.AutoUpload,
		Status:         model.JobStatusQueued,
		Message:        "Waiting to start...",
	})
	if err != nil {
		return model.Job{}, fmt.Errorf("creating job: %w", err)
	}

	metrics.IncreaseJobsSubmittedMetric()
	if err := s.runner.Launch(job.ID); err != nil {
		return model.Job{}, fmt.Errorf("launching job: %w", err)
	}

	zap.S().Named("job_service").Infow("job submitted",
		"job_id", job.ID, "niche", job.Niche, "count", job.RequestedCount, "auto_upload", job.AutoUpload)
	return job, nil
}

func (s *JobService) Get(ctx context.Context, id string) (model.Job, error) {
	job, err := s.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Job{}, NewErrJobNotFound(id)
		}
		return model.Job{}, err
	}
	return job, nil
}

// Pause suspends a job before its next pipeline stage. A stage already in
// flight runs to completion first.
func (s *JobService) Pause(ctx context.Context, id string) (model.Job, error) {
	job, err := s.transition(ctx, id, "pause", func(j model.Job) (model.Job, bool) {
		if j.Status != model.JobStatusInProgress {
			return j, false
		}
		j.Status = model.JobStatusPaused
		j.Message = "Paused by operator"
		return j, true
	})
	if err != nil {
		return model.Job{}, err
	}
	s.runner.Pause(id)
	return job, nil
}

func (s *JobService) Resume(ctx context.Context, id string) (model.Job, error) {
	job, err := s.transition(ctx, id, "resume", func(j model.Job) (model.Job, bool) {
		if j.Status != model.JobStatusPaused {
			return j, false
		}
		j.Status = model.JobStatusInProgress
		j.Message = "Resuming..."
		return j, true
	})
	if err != nil {
		return model.Job{}, err
	}
	s.runner.Resume(id)
	return job, nil
}

// Cancel abandons the remaining stages. Already-produced videos are kept.
func (s *JobService) Cancel(ctx context.Context, id string) (model.Job, error) {
	job, err := s.transition(ctx, id, "cancel", func(j model.Job) (model.Job, bool) {
		if j.Status.Terminal() {
			return j, false
		}
		j.Status = model.JobStatusCancelled
		j.Message = "Job cancelled by user"
		return j, true
	})
	if err != nil {
		return model.Job{}, err
	}
	s.runner.Cancel(id)
	zap.S().Named("job_service").Infow("job cancelled", "job_id", id)
	return job, nil
}

// transition applies a validated state change atomically. The mutate callback
// reports whether the transition is legal from the observed state; an illegal
// one leaves the record untouched.
func (s *JobService) transition(ctx context.Context, id, action string, mutate func(model.Job) (model.Job, bool)) (model.Job, error) {
	var stateErr error
	job, err := s.store.Job().Update(ctx, id, func(j model.Job) model.Job {
		next, ok := mutate(j)
		if !ok {
			stateErr = NewErrInvalidJobState(id, j.Status, action)
			return j
		}
		return next
	})
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Job{}, NewErrJobNotFound(id)
		}
		return model.Job{}, err
	}
	if stateErr != nil {
		return model.Job{}, stateErr
	}
	return job, nil
}
