// Package audio ingests remote voice notes: fetch the file, transcode it
// into something the transcription capability accepts, transcribe, and
// clean the scratch artifacts up on every exit path.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"lingo.chat/etc"
	"lingo.chat/stt"
)

var (
	ErrDownload      = errors.New("voice note download failed")
	ErrTranscode     = errors.New("audio transcode failed")
	ErrTranscription = errors.New("transcription failed")
)

type Pipeline struct {
	client      *http.Client
	transcriber stt.Transcriber
	dir         string
	log         *log.Logger

	// transcode converts the fetched file into the format the transcriber
	// accepts. Swappable so tests don't need ffmpeg on the path.
	transcode func(ctx context.Context, src, dst string) error
}

func NewPipeline(transcriber stt.Transcriber, scratchDir string, logger *log.Logger) *Pipeline {
	return &Pipeline{
		client:      &http.Client{Timeout: 2 * time.Minute},
		transcriber: transcriber,
		dir:         scratchDir,
		log:         logger,
		transcode:   ffmpegTranscode,
	}
}

// Transcribe fetches a remote voice note and returns its transcript. The
// two scratch files it creates are removed whether or not any step fails;
// removal failures are logged and never replace the primary error.
func (p *Pipeline) Transcribe(ctx context.Context, remoteURL string) (string, error) {
	srcPath := filepath.Join(p.dir, etc.ScratchName("voice", ".oga"))
	dstPath := strings.TrimSuffix(srcPath, ".oga") + ".mp3"
	defer p.cleanup(srcPath, dstPath)

	if err := p.download(ctx, remoteURL, srcPath); err != nil {
		return "", err
	}

	if err := p.transcode(ctx, srcPath, dstPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscode, err)
	}

	text, err := p.transcriber.Transcribe(ctx, dstPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	return strings.TrimSpace(text), nil
}

func (p *Pipeline) download(ctx context.Context, remoteURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %s", ErrDownload, resp.Status)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return nil
}

func (p *Pipeline) cleanup(paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			p.log.Error("remove scratch file", "path", path, "error", err)
		}
	}
}

func ffmpegTranscode(ctx context.Context, src, dst string) error {
	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", src,
		"-ar", "16000",
		"-ac", "1",
		"-b:a", "64k",
		dst)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %v: %s", err, lastLine(stderr.String()))
	}
	return nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
