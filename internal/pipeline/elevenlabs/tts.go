// Package elevenlabs synthesizes narration audio through the ElevenLabs
// text-to-speech REST API. There is no maintained Go SDK, so this is a thin
// HTTP client.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/pipeline"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultModelID = "eleven_turbo_v2"
	defaultTimeout = 2 * time.Minute
)

var ErrAPIKeyNotSet = errors.New("ElevenLabs API key not set")

type Narrator struct {
	apiKey         string
	baseURL        string
	defaultVoiceID string
	httpClient     *http.Client
}

// Make sure we conform to the pipeline interface
var _ pipeline.Narrator = (*Narrator)(nil)

func New(apiKey, defaultVoiceID string) (*Narrator, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyNotSet
	}
	return &Narrator{
		apiKey:         apiKey,
		baseURL:        defaultBaseURL,
		defaultVoiceID: defaultVoiceID,
		httpClient:     &http.Client{Timeout: defaultTimeout},
	}, nil
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (n *Narrator) WithBaseURL(url string) *Narrator {
	n.baseURL = url
	return n
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

func (n *Narrator) Narrate(ctx context.Context, script pipeline.Script, voiceID string, destPath string) error {
	if voiceID == "" {
		voiceID = n.defaultVoiceID
	}

	body, err := json.Marshal(ttsRequest{
		Text:          script.Text,
		ModelID:       defaultModelID,
		VoiceSettings: voiceSettings{Stability: 0.5, SimilarityBoost: 0.75},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", n.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", n.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("text-to-speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("text-to-speech failed with status %d: %s", resp.StatusCode, detail)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("writing narration audio: %w", err)
	}

	zap.S().Named("elevenlabs").Debugw("narration synthesized",
		"voice_id", voiceID, "bytes", written, "path", destPath)
	return nil
}
