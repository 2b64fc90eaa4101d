// Package youtube publishes produced shorts through the YouTube Data API.
// OAuth tokens are cached on disk so the operator authorizes once per machine.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/shortsmith/shortsmith/internal/pipeline"
)

const videoCategoryEntertainment = "24"

var (
	ErrNotConfigured    = errors.New("youtube client credentials not configured")
	ErrNotAuthenticated = errors.New("youtube authentication required")
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenFile    string
}

type Client struct {
	oauth     *oauth2.Config
	tokenFile string

	mu    sync.Mutex
	token *oauth2.Token
}

// Make sure we conform to the pipeline interface
var _ pipeline.Uploader = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, ErrNotConfigured
	}

	c := &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				youtube.YoutubeUploadScope,
				youtube.YoutubeReadonlyScope,
			},
			Endpoint: google.Endpoint,
		},
		tokenFile: cfg.TokenFile,
	}
	c.token = c.loadToken()
	return c, nil
}

func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token != nil
}

// AuthURL returns the consent URL for the operator to visit. ok is always
// true for a configured client.
func (c *Client) AuthURL() (string, bool) {
	return c.oauth.AuthCodeURL("state-token", oauth2.AccessTypeOffline), true
}

// Exchange trades the consent code for a token and persists it.
func (c *Client) Exchange(ctx context.Context, code string) error {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging auth code: %w", err)
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if err := c.saveToken(token); err != nil {
		zap.S().Named("youtube").Warnw("failed to persist token", "error", err)
	}
	return nil
}

func (c *Client) service(ctx context.Context) (*youtube.Service, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == nil {
		return nil, ErrNotAuthenticated
	}
	return youtube.NewService(ctx, option.WithTokenSource(c.oauth.TokenSource(ctx, token)))
}

func (c *Client) Upload(ctx context.Context, req pipeline.UploadRequest) (string, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return "", err
	}

	file, err := os.Open(req.VideoPath)
	if err != nil {
		return "", fmt.Errorf("opening video file: %w", err)
	}
	defer file.Close()

	privacy := req.PrivacyStatus
	if privacy == "" {
		privacy = "private"
	}

	upload := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       req.Title,
			Description: req.Description,
			Tags:        req.Tags,
			CategoryId:  videoCategoryEntertainment,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           privacy,
			SelfDeclaredMadeForKids: false,
		},
	}

	call := svc.Videos.Insert([]string{"snippet", "status"}, upload)
	video, err := call.Media(file).Do()
	if err != nil {
		return "", fmt.Errorf("uploading video: %w", err)
	}

	if req.ThumbnailPath != "" {
		if err := c.setThumbnail(svc, video.Id, req.ThumbnailPath); err != nil {
			// the video is live either way, keep the id
			zap.S().Named("youtube").Warnw("thumbnail upload failed", "video_id", video.Id, "error", err)
		}
	}

	zap.S().Named("youtube").Infow("video uploaded", "video_id", video.Id, "title", req.Title)
	return video.Id, nil
}

func (c *Client) setThumbnail(svc *youtube.Service, videoID, thumbnailPath string) error {
	file, err := os.Open(thumbnailPath)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = svc.Thumbnails.Set(videoID).Media(file).Do()
	return err
}

func (c *Client) Channel(ctx context.Context) (pipeline.ChannelInfo, error) {
	svc, err := c.service(ctx)
	if err != nil {
		return pipeline.ChannelInfo{}, err
	}

	resp, err := svc.Channels.List([]string{"snippet", "statistics"}).Mine(true).Do()
	if err != nil {
		return pipeline.ChannelInfo{}, fmt.Errorf("fetching channel: %w", err)
	}
	if len(resp.Items) == 0 {
		return pipeline.ChannelInfo{}, fmt.Errorf("no channel found for the authenticated account")
	}

	ch := resp.Items[0]
	info := pipeline.ChannelInfo{
		Title:           ch.Snippet.Title,
		SubscriberCount: strconv.FormatUint(ch.Statistics.SubscriberCount, 10),
		VideoCount:      strconv.FormatUint(ch.Statistics.VideoCount, 10),
	}
	if ch.Snippet.Thumbnails != nil && ch.Snippet.Thumbnails.Default != nil {
		info.Thumbnail = ch.Snippet.Thumbnails.Default.Url
	}
	return info, nil
}

func (c *Client) loadToken() *oauth2.Token {
	if c.tokenFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		zap.S().Named("youtube").Warnw("ignoring malformed token file", "path", c.tokenFile, "error", err)
		return nil
	}
	return &token
}

func (c *Client) saveToken(token *oauth2.Token) error {
	if c.tokenFile == "" {
		return nil
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(c.tokenFile, data, 0o600)
}
