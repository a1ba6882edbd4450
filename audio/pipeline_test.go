package audio

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return f.text, f.err
}

func copyTranscode(_ context.Context, src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func voiceServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, "fake opus bytes")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestPipeline(t *testing.T, tr *fakeTranscriber) (*Pipeline, string) {
	t.Helper()
	dir := t.TempDir()
	p := NewPipeline(tr, dir, log.New(io.Discard))
	p.transcode = copyTranscode
	return p, dir
}

func assertNoScratchFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read scratch dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("leaked %d scratch files", len(entries))
	}
}

func TestTranscribeHappyPath(t *testing.T) {
	srv := voiceServer(t, http.StatusOK)
	p, dir := newTestPipeline(t, &fakeTranscriber{text: "  hello there \n"})

	text, err := p.Transcribe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello there" {
		t.Errorf("text = %q, want trimmed transcript", text)
	}
	assertNoScratchFiles(t, dir)
}

func TestTranscribeDownloadFailure(t *testing.T) {
	srv := voiceServer(t, http.StatusNotFound)
	p, dir := newTestPipeline(t, &fakeTranscriber{text: "unused"})

	_, err := p.Transcribe(context.Background(), srv.URL)
	if !errors.Is(err, ErrDownload) {
		t.Fatalf("want ErrDownload, got %v", err)
	}
	assertNoScratchFiles(t, dir)
}

func TestTranscribeTranscodeFailure(t *testing.T) {
	srv := voiceServer(t, http.StatusOK)
	p, dir := newTestPipeline(t, &fakeTranscriber{text: "unused"})
	p.transcode = func(context.Context, string, string) error {
		return errors.New("codec exploded")
	}

	_, err := p.Transcribe(context.Background(), srv.URL)
	if !errors.Is(err, ErrTranscode) {
		t.Fatalf("want ErrTranscode, got %v", err)
	}
	assertNoScratchFiles(t, dir)
}

func TestTranscribeTranscriptionFailureCleansUp(t *testing.T) {
	srv := voiceServer(t, http.StatusOK)
	// Transcode succeeds, transcription fails: both scratch files exist at
	// the failure point and must still be removed.
	p, dir := newTestPipeline(t, &fakeTranscriber{err: errors.New("capability down")})

	_, err := p.Transcribe(context.Background(), srv.URL)
	if !errors.Is(err, ErrTranscription) {
		t.Fatalf("want ErrTranscription, got %v", err)
	}
	assertNoScratchFiles(t, dir)
}

func TestTranscribeEmptyTranscript(t *testing.T) {
	srv := voiceServer(t, http.StatusOK)
	p, _ := newTestPipeline(t, &fakeTranscriber{text: ""})

	text, err := p.Transcribe(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty string", text)
	}
}

func TestScratchNamesAreUnique(t *testing.T) {
	srv := voiceServer(t, http.StatusOK)
	p, dir := newTestPipeline(t, &fakeTranscriber{text: "x"})

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			_, err := p.Transcribe(context.Background(), srv.URL)
			done <- err
		}()
	}
	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent transcribe: %v", err)
		}
	}
	assertNoScratchFiles(t, dir)
}
