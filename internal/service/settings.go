package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/shortsmith/shortsmith/internal/store"
)

// Setting keys. Values are stored as strings and parsed on read.
const (
	settingShortsStyle    = "shorts.style"
	settingShortsDuration = "shorts.max_duration"
	settingShortsVertical = "shorts.vertical_format"
	settingShortsFast     = "shorts.fast_paced"
	settingUploadTags     = "upload.tags"
	settingUploadPrivacy  = "upload.privacy_status"
	settingUploadAuto     = "upload.auto_upload"
)

// Defaults applied when a key was never saved.
const (
	defaultStyle       = "entertaining"
	defaultMaxDuration = 60
	defaultTags        = "#shorts, #youtubeshorts, #viral"
	defaultPrivacy     = "private"
)

type ShortsSettings struct {
	Style          string
	MaxDuration    int
	VerticalFormat bool
	FastPaced      bool
}

type UploadSettings struct {
	Tags          string
	PrivacyStatus string
	AutoUpload    bool
}

// SettingsService persists the operator-tunable defaults shown in the
// settings page. Collaborator API keys are deliberately not handled here;
// secrets stay in the environment config.
type SettingsService struct {
	store store.Store
}

func NewSettingsService(s store.Store) *SettingsService {
	return &SettingsService{store: s}
}

func (s *SettingsService) Shorts(ctx context.Context) (ShortsSettings, error) {
	out := ShortsSettings{
		Style:          defaultStyle,
		MaxDuration:    defaultMaxDuration,
		VerticalFormat: true,
		FastPaced:      true,
	}

	if v, err := s.get(ctx, settingShortsStyle); err != nil {
		return out, err
	} else if v != "" {
		out.Style = v
	}
	if v, err := s.get(ctx, settingShortsDuration); err != nil {
		return out, err
	} else if v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			out.MaxDuration = n
		}
	}
	if v, err := s.get(ctx, settingShortsVertical); err != nil {
		return out, err
	} else if v != "" {
		out.VerticalFormat = v == "true"
	}
	if v, err := s.get(ctx, settingShortsFast); err != nil {
		return out, err
	} else if v != "" {
		out.FastPaced = v == "true"
	}
	return out, nil
}

func (s *SettingsService) SaveShorts(ctx context.Context, in ShortsSettings) error {
	if in.MaxDuration <= 0 || in.MaxDuration > 180 {
		return NewErrValidation("max duration must be between 1 and 180 seconds")
	}
	pairs := map[string]string{
		settingShortsStyle:    in.Style,
		settingShortsDuration: strconv.Itoa(in.MaxDuration),
		settingShortsVertical: strconv.FormatBool(in.VerticalFormat),
		settingShortsFast:     strconv.FormatBool(in.FastPaced),
	}
	return s.setAll(ctx, pairs)
}

func (s *SettingsService) Upload(ctx context.Context) (UploadSettings, error) {
	out := UploadSettings{
		Tags:          defaultTags,
		PrivacyStatus: defaultPrivacy,
	}

	if v, err := s.get(ctx, settingUploadTags); err != nil {
		return out, err
	} else if v != "" {
		out.Tags = v
	}
	if v, err := s.get(ctx, settingUploadPrivacy); err != nil {
		return out, err
	} else if v != "" {
		out.PrivacyStatus = v
	}
	if v, err := s.get(ctx, settingUploadAuto); err != nil {
		return out, err
	} else if v != "" {
		out.AutoUpload = v == "true"
	}
	return out, nil
}

func (s *SettingsService) SaveUpload(ctx context.Context, in UploadSettings) error {
	switch in.PrivacyStatus {
	case "", "private", "unlisted", "public":
	default:
		return NewErrValidation("unknown privacy status: " + in.PrivacyStatus)
	}
	if in.PrivacyStatus == "" {
		in.PrivacyStatus = defaultPrivacy
	}
	pairs := map[string]string{
		settingUploadTags:    in.Tags,
		settingUploadPrivacy: in.PrivacyStatus,
		settingUploadAuto:    strconv.FormatBool(in.AutoUpload),
	}
	return s.setAll(ctx, pairs)
}

func (s *SettingsService) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Setting().Get(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *SettingsService) setAll(ctx context.Context, pairs map[string]string) error {
	for key, value := range pairs {
		if err := s.store.Setting().Set(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
