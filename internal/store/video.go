package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shortsmith/shortsmith/internal/store/model"
)

// Video is the catalog of produced artifacts. Rows outlive the process; the
// backing media files are removed only by an explicit delete.
type Video interface {
	Create(ctx context.Context, video model.Video) (model.Video, error)
	Get(ctx context.Context, id string) (model.Video, error)
	GetByPath(ctx context.Context, path string) (model.Video, error)
	List(ctx context.Context, filter *VideoQueryFilter, opts *VideoQueryOptions) (model.VideoList, error)
	Delete(ctx context.Context, id string) error
	// MarkUploaded flips the uploaded flag and records the platform-assigned
	// video id. A video uploads at most once; a second call fails.
	MarkUploaded(ctx context.Context, id string, videoID string) (model.Video, error)
	Counts(ctx context.Context) (total int64, today int64, err error)
	InitialMigration() error
}

type VideoStore struct {
	db *gorm.DB
}

// Make sure we conform to Video interface
var _ Video = (*VideoStore)(nil)

func NewVideoStore(db *gorm.DB) Video {
	return &VideoStore{db: db}
}

func (s *VideoStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Video{})
}

func (s *VideoStore) Create(_ context.Context, video model.Video) (model.Video, error) {
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	result := s.db.Create(&video)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return model.Video{}, ErrDuplicateKey
		}
		return model.Video{}, fmt.Errorf("creating video: %w", result.Error)
	}
	return video, nil
}

func (s *VideoStore) Get(_ context.Context, id string) (model.Video, error) {
	var video model.Video
	result := s.db.First(&video, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return model.Video{}, ErrRecordNotFound
		}
		return model.Video{}, fmt.Errorf("querying video: %w", result.Error)
	}
	return video, nil
}

func (s *VideoStore) GetByPath(_ context.Context, path string) (model.Video, error) {
	var video model.Video
	result := s.db.First(&video, "path = ?", path)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return model.Video{}, ErrRecordNotFound
		}
		return model.Video{}, fmt.Errorf("querying video: %w", result.Error)
	}
	return video, nil
}

// List returns catalog rows, most recent first.
func (s *VideoStore) List(_ context.Context, filter *VideoQueryFilter, opts *VideoQueryOptions) (model.VideoList, error) {
	var videos model.VideoList

	tx := s.db.Model(&model.Video{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}
	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Order("created_at DESC").Find(&videos)
	if result.Error != nil {
		return nil, fmt.Errorf("listing videos: %w", result.Error)
	}
	return videos, nil
}

func (s *VideoStore) Delete(_ context.Context, id string) error {
	result := s.db.Delete(&model.Video{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("deleting video: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *VideoStore) MarkUploaded(ctx context.Context, id string, videoID string) (model.Video, error) {
	result := s.db.Model(&model.Video{}).
		Where("id = ? AND uploaded = ?", id, false).
		Updates(map[string]any{"uploaded": true, "video_id": videoID})
	if result.Error != nil {
		return model.Video{}, fmt.Errorf("marking video uploaded: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// either unknown id or a repeated upload
		if _, err := s.Get(ctx, id); err != nil {
			return model.Video{}, err
		}
		return model.Video{}, ErrAlreadyUploaded
	}
	return s.Get(ctx, id)
}

func (s *VideoStore) Counts(_ context.Context) (int64, int64, error) {
	var total int64
	if result := s.db.Model(&model.Video{}).Count(&total); result.Error != nil {
		return 0, 0, fmt.Errorf("counting videos: %w", result.Error)
	}

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var today int64
	if result := s.db.Model(&model.Video{}).Where("created_at >= ?", midnight).Count(&today); result.Error != nil {
		return 0, 0, fmt.Errorf("counting today's videos: %w", result.Error)
	}
	return total, today, nil
}
