// Package pexels fetches vertical stock footage through the Pexels videos
// REST API. There is no maintained Go SDK, so this is a thin HTTP client.
package pexels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/pipeline"
)

const (
	defaultBaseURL = "https://api.pexels.com"
	defaultTimeout = 2 * time.Minute
)

var ErrAPIKeyNotSet = errors.New("Pexels API key not set")

type FootageProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Make sure we conform to the pipeline interface
var _ pipeline.FootageProvider = (*FootageProvider)(nil)

func New(apiKey string) (*FootageProvider, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	return &FootageProvider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (p *FootageProvider) WithBaseURL(url string) *FootageProvider {
	p.baseURL = url
	return p
}

type searchResponse struct {
	Videos []struct {
		ID         int `json:"id"`
		VideoFiles []struct {
			Link    string `json:"link"`
			Width   int    `json:"width"`
			Height  int    `json:"height"`
			Quality string `json:"quality"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Fetch downloads up to count portrait clips matching query into destDir.
func (p *FootageProvider) Fetch(ctx context.Context, query string, count int, destDir string) ([]string, error) {
	if count <= 0 {
		count = 3
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(count))
	q.Set("orientation", "portrait")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/videos/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("footage search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("footage search failed with status %d: %s", resp.StatusCode, detail)
	}

	var search searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("parsing footage search response: %w", err)
	}
	if len(search.Videos) == 0 {
		return nil, fmt.Errorf("no stock footage found for %q", query)
	}

	var paths []string
	for i, video := range search.Videos {
		if len(paths) >= count {
			break
		}
		link := bestPortraitFile(video.VideoFiles)
		if link == "" {
			continue
		}
		dest := filepath.Join(destDir, fmt.Sprintf("clip_%d_%d.mp4", i, video.ID))
		if err := p.download(ctx, link, dest); err != nil {
			zap.S().Named("pexels").Warnw("clip download failed", "id", video.ID, "error", err)
			continue
		}
		paths = append(paths, dest)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("all footage downloads failed for %q", query)
	}
	return paths, nil
}

// bestPortraitFile prefers HD portrait renditions, falling back to anything
// taller than wide.
func bestPortraitFile(files []struct {
	Link    string `json:"link"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Quality string `json:"quality"`
}) string {
	var fallback string
	for _, f := range files {
		if f.Height <= f.Width {
			continue
		}
		if f.Quality == "hd" {
			return f.Link
		}
		if fallback == "" {
			fallback = f.Link
		}
	}
	return fallback
}

func (p *FootageProvider) download(ctx context.Context, link, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}
