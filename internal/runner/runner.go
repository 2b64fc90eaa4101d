// Package runner executes the content-generation pipeline for submitted jobs.
// One goroutine runs per job; the job record in the store is the only channel
// back to the request path, and the dashboard observes it by polling.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/events"
	"github.com/shortsmith/shortsmith/internal/pipeline"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
	"github.com/shortsmith/shortsmith/pkg/metrics"
)

// Pipeline bundles the collaborators invoked per content unit. Uploader may
// be nil when the platform is not configured; upload stages are then skipped.
type Pipeline struct {
	Scripts     pipeline.ScriptGenerator
	Narrator    pipeline.Narrator
	Footage     pipeline.FootageProvider
	Assembler   pipeline.Assembler
	Thumbnailer pipeline.Thumbnailer
	Uploader    pipeline.Uploader
}

type Config struct {
	OutputDir    string
	ThumbnailDir string
	WorkDir      string
	JobRetention time.Duration
	MaxDuration  int
}

type Runner struct {
	store    store.Store
	notifier *events.Center
	pipe     Pipeline
	cfg      Config

	mu      sync.Mutex
	tokens  map[string]*token
	baseCtx context.Context
	wg      sync.WaitGroup
}

func New(s store.Store, notifier *events.Center, pipe Pipeline, cfg Config) *Runner {
	return &Runner{
		store:    s,
		notifier: notifier,
		pipe:     pipe,
		cfg:      cfg,
		tokens:   make(map[string]*token),
	}
}

// Start binds the runner to the process lifetime context and launches the
// janitor that prunes terminal jobs after the retention window.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.baseCtx != nil {
		return errors.New("runner already started")
	}
	r.baseCtx = ctx

	for _, dir := range []string{r.cfg.OutputDir, r.cfg.ThumbnailDir, r.cfg.WorkDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	r.wg.Add(1)
	go r.janitor(ctx)
	return nil
}

// Wait blocks until all job goroutines have returned. Called on shutdown
// after the base context is cancelled.
func (r *Runner) Wait(deadline time.Duration) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.wg.Wait()
	}()

	if deadline <= 0 {
		<-done
		return
	}
	timer := time.NewTimer(deadline)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		zap.S().Named("runner").Warn("shutdown deadline reached; jobs may still be running")
	}
}

// Launch starts the background goroutine for a freshly created job. Dispatch
// is immediate; there is no queueing discipline beyond creation order.
func (r *Runner) Launch(jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.baseCtx == nil {
		return errors.New("runner not started")
	}
	if _, ok := r.tokens[jobID]; ok {
		return fmt.Errorf("job %s already launched", jobID)
	}

	tok := newToken()
	r.tokens[jobID] = tok
	r.wg.Add(1)
	go r.run(r.baseCtx, jobID, tok)
	return nil
}

// Pause flips the cooperative pause flag. Returns false for unknown ids.
func (r *Runner) Pause(jobID string) bool {
	if tok := r.lookup(jobID); tok != nil {
		tok.Pause()
		return true
	}
	return false
}

func (r *Runner) Resume(jobID string) bool {
	if tok := r.lookup(jobID); tok != nil {
		tok.Resume()
		return true
	}
	return false
}

func (r *Runner) Cancel(jobID string) bool {
	if tok := r.lookup(jobID); tok != nil {
		tok.Cancel()
		return true
	}
	return false
}

func (r *Runner) lookup(jobID string) *token {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[jobID]
}

func (r *Runner) release(jobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, jobID)
}

func (r *Runner) run(ctx context.Context, jobID string, tok *token) {
	defer r.wg.Done()
	defer r.release(jobID)
	log := zap.S().Named("runner").With("job_id", jobID)

	job, err := r.store.Job().Get(ctx, jobID)
	if err != nil {
		log.Errorw("job disappeared before start", "error", err)
		return
	}

	r.update(ctx, jobID, func(j model.Job) model.Job {
		j.Status = model.JobStatusInProgress
		j.Message = "Starting Shorts automation..."
		j.Progress = 5
		return j
	})
	r.publishStateCounts(ctx)
	log.Infow("job started", "niche", job.Niche, "count", job.RequestedCount)

	produced := 0
	var lastErr error
	for i := 0; i < job.RequestedCount; i++ {
		if err := r.checkpoint(ctx, jobID, tok); err != nil {
			log.Infow("job abandoned", "reason", err, "produced", produced)
			return
		}

		r.update(ctx, jobID, func(j model.Job) model.Job {
			j.Message = fmt.Sprintf("Generating Short %d of %d for %s...", i+1, job.RequestedCount, job.Niche)
			j.Progress = progressFor(i, job.RequestedCount)
			return j
		})

		if err := r.produceUnit(ctx, job, i, tok); err != nil {
			if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
				log.Infow("job abandoned mid-unit", "unit", i+1, "produced", produced)
				return
			}
			lastErr = err
			log.Warnw("unit failed", "unit", i+1, "error", err)
			r.notifier.Error(fmt.Sprintf("Short %d of %d failed: %v", i+1, job.RequestedCount, err))
			r.update(ctx, jobID, func(j model.Job) model.Job {
				j.Message = fmt.Sprintf("Error on Short %d: %v", i+1, err)
				return j
			})
			continue
		}

		produced++
		r.update(ctx, jobID, func(j model.Job) model.Job {
			j.Message = fmt.Sprintf("Generated %d/%d Shorts for niche: %s", i+1, job.RequestedCount, job.Niche)
			j.Progress = progressFor(i+1, job.RequestedCount)
			return j
		})
	}

	if tok.Cancelled() {
		return
	}

	if produced == 0 {
		r.update(ctx, jobID, func(j model.Job) model.Job {
			j.Status = model.JobStatusFailed
			j.Progress = 0
			j.Message = fmt.Sprintf("All %d Shorts failed: %v", job.RequestedCount, lastErr)
			return j
		})
		r.notifier.Error(fmt.Sprintf("Job for %q failed: %v", job.Niche, lastErr))
		r.publishStateCounts(ctx)
		log.Errorw("job failed", "error", lastErr)
		return
	}

	message := fmt.Sprintf("Created %d Shorts for niche: %s", produced, job.Niche)
	if produced < job.RequestedCount {
		message = fmt.Sprintf("Created %d of %d Shorts for niche: %s", produced, job.RequestedCount, job.Niche)
	}
	r.update(ctx, jobID, func(j model.Job) model.Job {
		j.Status = model.JobStatusCompleted
		j.Progress = 100
		j.Message = message
		return j
	})
	r.notifier.Success(message)
	r.publishStateCounts(ctx)
	log.Infow("job completed", "produced", produced)
}

// produceUnit runs the pipeline stages for one short. Checkpoints sit between
// stages only.
func (r *Runner) produceUnit(ctx context.Context, job model.Job, unit int, tok *token) error {
	if r.pipe.Scripts == nil || r.pipe.Narrator == nil || r.pipe.Footage == nil || r.pipe.Assembler == nil {
		return errors.New("pipeline is not fully configured, check the collaborator API keys")
	}

	req := pipeline.Request{
		Niche:         job.Niche,
		Style:         job.Style,
		VoiceID:       job.VoiceID,
		TemplateStyle: job.TemplateStyle,
		MaxDuration:   r.cfg.MaxDuration,
	}

	script, err := timedStage(pipeline.StageScript, func() (pipeline.Script, error) {
		return r.pipe.Scripts.Generate(ctx, req)
	})
	if err != nil {
		return fmt.Errorf("script generation: %w", err)
	}
	if err := tok.Checkpoint(ctx); err != nil {
		return err
	}

	base := sanitizeFilename(script.Title)
	if base == "" {
		base = "short"
	}
	// titles repeat across units, the job id and unit number keep names unique
	stem := fmt.Sprintf("%s_%d_%s", job.ID, unit+1, base)
	audioPath := filepath.Join(r.cfg.WorkDir, stem+".mp3")
	defer os.Remove(audioPath)

	_, err = timedStage(pipeline.StageNarration, func() (struct{}, error) {
		return struct{}{}, r.pipe.Narrator.Narrate(ctx, script, job.VoiceID, audioPath)
	})
	if err != nil {
		return fmt.Errorf("narration: %w", err)
	}
	if err := tok.Checkpoint(ctx); err != nil {
		return err
	}

	clipDir := filepath.Join(r.cfg.WorkDir, stem+"_clips")
	if err := os.MkdirAll(clipDir, 0o755); err != nil {
		return err
	}
	defer os.RemoveAll(clipDir)

	clips, err := timedStage(pipeline.StageFootage, func() ([]string, error) {
		return r.pipe.Footage.Fetch(ctx, job.Niche, 3, clipDir)
	})
	if err != nil {
		return fmt.Errorf("stock footage: %w", err)
	}
	if err := tok.Checkpoint(ctx); err != nil {
		return err
	}

	videoName := stem + "_short.mp4"
	videoPath := filepath.Join(r.cfg.OutputDir, videoName)
	_, err = timedStage(pipeline.StageAssembly, func() (struct{}, error) {
		return struct{}{}, r.pipe.Assembler.Assemble(ctx, audioPath, clips, videoPath)
	})
	if err != nil {
		return fmt.Errorf("video assembly: %w", err)
	}

	// thumbnail failure is cosmetic, the short is already on disk
	thumbName := stem + ".png"
	thumbPath := filepath.Join(r.cfg.ThumbnailDir, thumbName)
	if _, err := timedStage(pipeline.StageThumbnail, func() (struct{}, error) {
		return struct{}{}, r.pipe.Thumbnailer.Thumbnail(ctx, videoPath, thumbPath)
	}); err != nil {
		zap.S().Named("runner").Warnw("thumbnail failed", "job_id", job.ID, "error", err)
		thumbName = ""
	}

	video, err := r.store.Video().Create(ctx, model.Video{
		Title:     script.Title,
		Path:      videoName,
		Thumbnail: thumbName,
		Niche:     job.Niche,
	})
	if err != nil {
		return fmt.Errorf("recording video: %w", err)
	}
	metrics.IncreaseVideosProducedMetric(false)
	r.notifier.Info(fmt.Sprintf("New Short ready: %s", script.Title))

	if !job.AutoUpload {
		return nil
	}
	if r.pipe.Uploader == nil {
		zap.S().Named("runner").Warnw("auto-upload requested but no uploader configured", "job_id", job.ID)
		return nil
	}
	if err := tok.Checkpoint(ctx); err != nil {
		return err
	}

	thumbnailPath := ""
	if thumbName != "" {
		thumbnailPath = thumbPath
	}
	videoID, err := timedStage(pipeline.StageUpload, func() (string, error) {
		return r.pipe.Uploader.Upload(ctx, pipeline.UploadRequest{
			VideoPath:     videoPath,
			ThumbnailPath: thumbnailPath,
			Title:         script.Title,
			Description:   script.Description,
			Tags:          script.Keywords,
		})
	})
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	if _, err := r.store.Video().MarkUploaded(ctx, video.ID, videoID); err != nil {
		return fmt.Errorf("recording upload: %w", err)
	}
	metrics.IncreaseVideosProducedMetric(true)
	r.notifier.Success(fmt.Sprintf("Uploaded Short: %s", script.Title))
	return nil
}

// checkpoint waits out a pause and reports cancellation before the next unit.
func (r *Runner) checkpoint(ctx context.Context, jobID string, tok *token) error {
	if err := tok.Checkpoint(ctx); err != nil {
		return err
	}
	// a resume may have happened while blocked; make sure the record agrees
	job, err := r.store.Job().Get(ctx, jobID)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return ErrCancelled
	}
	return nil
}

// update applies mutate but never resurrects a terminal job: cancellation won
// by the control endpoint sticks even if the runner races it.
func (r *Runner) update(ctx context.Context, jobID string, mutate func(model.Job) model.Job) {
	_, err := r.store.Job().Update(ctx, jobID, func(j model.Job) model.Job {
		if j.Status.Terminal() {
			return j
		}
		next := mutate(j)
		if next.Progress < j.Progress {
			next.Progress = j.Progress
		}
		if next.Status == model.JobStatusFailed {
			next.Progress = 0
		}
		return next
	})
	if err != nil {
		zap.S().Named("runner").Warnw("job update failed", "job_id", jobID, "error", err)
	}
}

func (r *Runner) publishStateCounts(ctx context.Context) {
	counts := r.store.Job().CountByStatus(ctx)
	for _, status := range []model.JobStatus{
		model.JobStatusQueued, model.JobStatusInProgress, model.JobStatusPaused,
		model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusCancelled,
	} {
		metrics.UpdateJobStateCountMetric(string(status), counts[status])
	}
}

func (r *Runner) janitor(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := r.store.Job().Prune(ctx, r.cfg.JobRetention); pruned > 0 {
				zap.S().Named("runner").Debugw("pruned terminal jobs", "count", pruned)
				r.publishStateCounts(ctx)
			}
		}
	}
}

func timedStage[T any](stage string, fn func() (T, error)) (T, error) {
	start := time.Now()
	out, err := fn()
	metrics.ObserveStageDuration(stage, time.Since(start).Seconds())
	return out, err
}

func progressFor(unitsDone, total int) int {
	if total <= 0 {
		return 100
	}
	p := 10 + unitsDone*90/total
	if p > 95 {
		p = 95
	}
	return p
}

// sanitizeFilename keeps letters, digits, dash and underscore, replacing
// whitespace with underscores so titles map to safe file names.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > 80 {
		s = s[:80]
	}
	return s
}
