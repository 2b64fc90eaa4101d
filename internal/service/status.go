package service

import (
	"context"

	"github.com/shortsmith/shortsmith/internal/events"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

// recentVideoLimit caps the media gallery in the polling snapshot; the full
// catalog is available through the filterable video listing.
const recentVideoLimit = 8

// Stats is the aggregate block of a snapshot.
type Stats struct {
	TotalVideos int
	VideosToday int
	ActiveJobs  int
	SuccessRate int
}

// Snapshot is one consistent-enough read of the dashboard state. Reads are
// idempotent apart from notifications, which are drained into the response.
type Snapshot struct {
	Stats         Stats
	Jobs          model.JobList
	Videos        model.VideoList
	Notifications []events.Notification
}

type StatusService struct {
	store    store.Store
	notifier *events.Center
}

func NewStatusService(s store.Store, notifier *events.Center) *StatusService {
	return &StatusService{store: s, notifier: notifier}
}

func (s *StatusService) Snapshot(ctx context.Context) (Snapshot, error) {
	total, today, err := s.store.Video().Counts(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	counts := s.store.Job().CountByStatus(ctx)
	active := counts[model.JobStatusInProgress] + counts[model.JobStatusPaused]

	completed, failed := s.store.Job().Outcomes(ctx)
	successRate := 0
	if completed+failed > 0 {
		successRate = completed * 100 / (completed + failed)
	}

	videos, err := s.store.Video().List(ctx, nil, store.NewVideoQueryOptions().WithLimit(recentVideoLimit))
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		Stats: Stats{
			TotalVideos: int(total),
			VideosToday: int(today),
			ActiveJobs:  active,
			SuccessRate: successRate,
		},
		Jobs:          s.store.Job().List(ctx),
		Videos:        videos,
		Notifications: s.notifier.Drain(),
	}, nil
}
