// Package pipeline defines the external collaborators invoked by the job
// runner to produce one short: script generation, narration, stock footage,
// assembly, thumbnail, and upload. Each stage runs to completion once started;
// pause and cancel only take effect between stages.
package pipeline

import "context"

// Stage names, used in job messages and metrics.
const (
	StageScript    = "script"
	StageNarration = "narration"
	StageFootage   = "footage"
	StageAssembly  = "assembly"
	StageThumbnail = "thumbnail"
	StageUpload    = "upload"
)

// Request carries the operator inputs for one content unit. Style, VoiceID
// and TemplateStyle are passed through to the collaborators uninterpreted.
type Request struct {
	Niche         string
	Style         string
	VoiceID       string
	TemplateStyle string
	MaxDuration   int
}

// Script is the generated narration script for one short.
type Script struct {
	Title       string
	Description string
	Text        string
	Keywords    []string
}

type ScriptGenerator interface {
	Generate(ctx context.Context, req Request) (Script, error)
}

// Narrator synthesizes speech for the script and writes an audio file.
type Narrator interface {
	Narrate(ctx context.Context, script Script, voiceID string, destPath string) error
}

// FootageProvider fetches vertical stock clips matching the query into
// destDir and returns their paths.
type FootageProvider interface {
	Fetch(ctx context.Context, query string, count int, destDir string) ([]string, error)
}

// Assembler muxes narration audio over the clips into the final vertical video.
type Assembler interface {
	Assemble(ctx context.Context, audioPath string, clipPaths []string, outPath string) error
}

// Thumbnailer produces a thumbnail image for an assembled video.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, videoPath string, outPath string) error
}

// UploadRequest describes one artifact to publish.
type UploadRequest struct {
	VideoPath     string
	ThumbnailPath string
	Title         string
	Description   string
	Tags          []string
	PrivacyStatus string
}

// ChannelInfo is the connected channel summary shown in the dashboard.
type ChannelInfo struct {
	Title           string
	SubscriberCount string
	VideoCount      string
	Thumbnail       string
}

// Uploader publishes artifacts to the video platform and exposes the
// operator-facing auth state.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (videoID string, err error)
	Channel(ctx context.Context) (ChannelInfo, error)
	// AuthURL returns the consent URL to visit when authentication is still
	// required. ok is false when the uploader is not configured at all.
	AuthURL() (url string, ok bool)
	Authenticated() bool
}
