package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
)

// VideoService answers the gallery queries and owns explicit deletion, the
// only path that ever removes a produced file.
type VideoService struct {
	store        store.Store
	outputDir    string
	thumbnailDir string
}

func NewVideoService(s store.Store, outputDir, thumbnailDir string) *VideoService {
	return &VideoService{store: s, outputDir: outputDir, thumbnailDir: thumbnailDir}
}

// List applies the gallery filters: status is "all", "uploaded" or "local";
// date is "all", "today", "week" or "month"; search matches the title.
func (s *VideoService) List(ctx context.Context, status, date, search string) (model.VideoList, error) {
	filter := store.NewVideoQueryFilter()

	switch status {
	case "", "all":
	case "uploaded":
		filter = filter.ByUploaded(true)
	case "local":
		filter = filter.ByUploaded(false)
	default:
		return nil, NewErrValidation("unknown status filter: " + status)
	}

	now := time.Now()
	switch date {
	case "", "all":
	case "today":
		filter = filter.ByCreatedAfter(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()))
	case "week":
		filter = filter.ByCreatedAfter(now.AddDate(0, 0, -7))
	case "month":
		filter = filter.ByCreatedAfter(now.AddDate(0, 0, -30))
	default:
		return nil, NewErrValidation("unknown date filter: " + date)
	}

	if search != "" {
		filter = filter.ByTitleSearch(strings.ToLower(search))
	}

	return s.store.Video().List(ctx, filter, nil)
}

func (s *VideoService) Get(ctx context.Context, id string) (model.Video, error) {
	video, err := s.store.Video().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Video{}, NewErrVideoNotFound(id)
		}
		return model.Video{}, err
	}
	return video, nil
}

// Delete removes the catalog row and the backing files. The catalog row goes
// first; orphaned files are preferable to dangling rows.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	video, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Video().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrVideoNotFound(id)
		}
		return err
	}

	if err := os.Remove(filepath.Join(s.outputDir, video.Path)); err != nil && !os.IsNotExist(err) {
		zap.S().Named("video_service").Warnw("failed to remove video file", "path", video.Path, "error", err)
	}
	if video.Thumbnail != "" {
		if err := os.Remove(filepath.Join(s.thumbnailDir, video.Thumbnail)); err != nil && !os.IsNotExist(err) {
			zap.S().Named("video_service").Warnw("failed to remove thumbnail", "path", video.Thumbnail, "error", err)
		}
	}

	zap.S().Named("video_service").Infow("video deleted", "video_id", id, "title", video.Title)
	return nil
}
