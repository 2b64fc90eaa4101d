// Package ffmpeg assembles the final vertical video and extracts thumbnails
// by shelling out to ffmpeg.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/shortsmith/shortsmith/internal/pipeline"
)

type Assembler struct {
	binary string
}

// Make sure we conform to the pipeline interfaces
var (
	_ pipeline.Assembler   = (*Assembler)(nil)
	_ pipeline.Thumbnailer = (*Assembler)(nil)
)

func New(binary string) *Assembler {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Assembler{binary: binary}
}

// Assemble concatenates the clips, scales them to 1080x1920 portrait, muxes
// the narration audio on top and cuts the output to the audio length.
func (a *Assembler) Assemble(ctx context.Context, audioPath string, clipPaths []string, outPath string) error {
	if len(clipPaths) == 0 {
		return fmt.Errorf("no clips to assemble")
	}

	listFile, err := writeConcatList(clipPaths, outPath)
	if err != nil {
		return err
	}
	defer os.Remove(listFile)

	args := []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", listFile,
		"-i", audioPath,
		"-filter:v", "scale=1080:1920:force_original_aspect_ratio=increase,crop=1080:1920,setsar=1",
		"-map", "0:v:0", "-map", "1:a:0",
		"-c:v", "libx264", "-preset", "fast", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	}

	return a.run(ctx, args)
}

// Thumbnail grabs a frame one second in.
func (a *Assembler) Thumbnail(ctx context.Context, videoPath string, outPath string) error {
	args := []string{
		"-y",
		"-ss", "1",
		"-i", videoPath,
		"-frames:v", "1",
		outPath,
	}
	return a.run(ctx, args)
}

func (a *Assembler) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, a.binary, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	zap.S().Named("ffmpeg").Debugw("running ffmpeg", "args", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String(), 2048))
	}
	return nil
}

// writeConcatList produces the file list consumed by ffmpeg's concat demuxer.
func writeConcatList(clipPaths []string, outPath string) (string, error) {
	var b strings.Builder
	for _, clip := range clipPaths {
		abs, err := filepath.Abs(clip)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}

	listFile := outPath + ".clips.txt"
	if err := os.WriteFile(listFile, []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return listFile, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
