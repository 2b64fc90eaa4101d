package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/pipeline"
	"github.com/shortsmith/shortsmith/internal/pipeline/youtube"
)

// AuthState describes the platform connection for the dashboard.
type AuthState struct {
	Configured   bool
	AuthRequired bool
	AuthURL      string
}

// Exchanger is implemented by uploaders that complete an OAuth code exchange.
type Exchanger interface {
	Exchange(ctx context.Context, code string) error
}

// ChannelService fronts the platform-auth collaborator: channel info, the
// consent URL, and the code exchange callback.
type ChannelService struct {
	uploader pipeline.Uploader
}

func NewChannelService(uploader pipeline.Uploader) *ChannelService {
	return &ChannelService{uploader: uploader}
}

func (s *ChannelService) Channel(ctx context.Context) (pipeline.ChannelInfo, error) {
	if s.uploader == nil {
		return pipeline.ChannelInfo{}, NewErrUploaderNotConfigured()
	}
	info, err := s.uploader.Channel(ctx)
	if err != nil {
		if errors.Is(err, youtube.ErrNotAuthenticated) {
			return pipeline.ChannelInfo{}, err
		}
		zap.S().Named("channel_service").Warnw("channel lookup failed", "error", err)
		return pipeline.ChannelInfo{}, err
	}
	return info, nil
}

func (s *ChannelService) Auth(_ context.Context) AuthState {
	if s.uploader == nil {
		return AuthState{}
	}
	if s.uploader.Authenticated() {
		return AuthState{Configured: true}
	}
	url, ok := s.uploader.AuthURL()
	return AuthState{Configured: ok, AuthRequired: true, AuthURL: url}
}

// CompleteAuth finishes the OAuth flow with the consent code.
func (s *ChannelService) CompleteAuth(ctx context.Context, code string) error {
	if s.uploader == nil {
		return NewErrUploaderNotConfigured()
	}
	exchanger, ok := s.uploader.(Exchanger)
	if !ok {
		return NewErrUploaderNotConfigured()
	}
	if code == "" {
		return NewErrValidation("missing auth code")
	}
	if err := exchanger.Exchange(ctx, code); err != nil {
		return err
	}
	zap.S().Named("channel_service").Info("platform authentication completed")
	return nil
}
