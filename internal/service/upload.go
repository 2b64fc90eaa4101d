package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/events"
	"github.com/shortsmith/shortsmith/internal/pipeline"
	"github.com/shortsmith/shortsmith/internal/store"
	"github.com/shortsmith/shortsmith/internal/store/model"
	"github.com/shortsmith/shortsmith/pkg/metrics"
)

// UploadService publishes an already-produced artifact on operator request,
// the manual counterpart to the runner's auto-upload stage.
type UploadService struct {
	store        store.Store
	uploader     pipeline.Uploader
	settings     *SettingsService
	notifier     *events.Center
	outputDir    string
	thumbnailDir string
}

func NewUploadService(s store.Store, uploader pipeline.Uploader, settings *SettingsService, notifier *events.Center, outputDir, thumbnailDir string) *UploadService {
	return &UploadService{
		store:        s,
		uploader:     uploader,
		settings:     settings,
		notifier:     notifier,
		outputDir:    outputDir,
		thumbnailDir: thumbnailDir,
	}
}

type UploadRequest struct {
	VideoID   string
	VideoPath string
	Title     string
}

type UploadResult struct {
	VideoID string
	URL     string
	Title   string
}

func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if s.uploader == nil {
		return UploadResult{}, NewErrUploaderNotConfigured()
	}

	video, err := s.resolve(ctx, req)
	if err != nil {
		return UploadResult{}, err
	}
	if video.Uploaded {
		return UploadResult{}, NewErrVideoAlreadyUploaded(video.ID)
	}

	videoPath := filepath.Join(s.outputDir, video.Path)
	if _, err := os.Stat(videoPath); err != nil {
		return UploadResult{}, NewErrVideoNotFound(video.Path)
	}

	title := req.Title
	if title == "" {
		title = video.Title
	}

	uploadSettings, err := s.settings.Upload(ctx)
	if err != nil {
		return UploadResult{}, err
	}

	thumbnailPath := ""
	if video.Thumbnail != "" {
		thumbnailPath = filepath.Join(s.thumbnailDir, video.Thumbnail)
	}

	platformID, err := s.uploader.Upload(ctx, pipeline.UploadRequest{
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
		Title:         title,
		Description:   fmt.Sprintf("#Shorts video about %s", title),
		Tags:          splitTags(uploadSettings.Tags),
		PrivacyStatus: uploadSettings.PrivacyStatus,
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("uploading video: %w", err)
	}

	if _, err := s.store.Video().MarkUploaded(ctx, video.ID, platformID); err != nil {
		if errors.Is(err, store.ErrAlreadyUploaded) {
			return UploadResult{}, NewErrVideoAlreadyUploaded(video.ID)
		}
		return UploadResult{}, err
	}

	metrics.IncreaseVideosProducedMetric(true)
	s.notifier.Success(fmt.Sprintf("Uploaded Short: %s", title))
	zap.S().Named("upload_service").Infow("manual upload finished", "video_id", video.ID, "platform_id", platformID)

	return UploadResult{
		VideoID: platformID,
		URL:     "https://www.youtube.com/shorts/" + platformID,
		Title:   title,
	}, nil
}

// resolve finds the catalog row by id first, then by path; the dashboard
// sends whichever it has.
func (s *UploadService) resolve(ctx context.Context, req UploadRequest) (model.Video, error) {
	if req.VideoID != "" {
		video, err := s.store.Video().Get(ctx, req.VideoID)
		if err == nil {
			return video, nil
		}
		if !errors.Is(err, store.ErrRecordNotFound) {
			return model.Video{}, err
		}
		return model.Video{}, NewErrVideoNotFound(req.VideoID)
	}

	if req.VideoPath == "" {
		return model.Video{}, NewErrValidation("video_path or id is required")
	}

	video, err := s.store.Video().GetByPath(ctx, filepath.Base(req.VideoPath))
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return model.Video{}, NewErrVideoNotFound(req.VideoPath)
		}
		return model.Video{}, err
	}
	return video, nil
}

func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(p), "#"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
