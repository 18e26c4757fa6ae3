package audio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Synthesizer turns model replies into cached MP3 clips so the client can
// play them back. Clips are keyed by content hash; repeated replies reuse
// the same file.
type Synthesizer struct {
	audioDir string
	client   *http.Client
}

const ttsRequestTimeout = 10 * time.Second

func NewSynthesizer(audioDir string) *Synthesizer {
	return &Synthesizer{
		audioDir: audioDir,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// GenerateClip converts text to speech and saves it as MP3.
// Returns the filename (not full path) on success.
func (s *Synthesizer) GenerateClip(text string) (string, error) {
	filename := clipFilename(text)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	if err := s.generateUsingGoogleTTS(text, path); err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	return filename, nil
}

// ClipPath returns the on-disk path for a previously generated clip,
// or an error if no clip exists for the text.
func (s *Synthesizer) ClipPath(text string) (string, error) {
	path := filepath.Join(s.audioDir, clipFilename(text))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no clip for text: %w", err)
	}
	return path, nil
}

func clipFilename(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "reply_" + hex.EncodeToString(sum[:8]) + ".mp3"
}

// generateUsingGoogleTTS uses Google Translate's text-to-speech endpoint.
// Free and keyless, which is plenty for short child-level sentences.
func (s *Synthesizer) generateUsingGoogleTTS(text, outputPath string) error {
	baseURL := "https://translate.google.com/translate_tts"

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", fmt.Sprintf("%d", len(text)))

	fullURL := baseURL + "?" + params.Encode()

	ctx, cancel := context.WithTimeout(context.Background(), ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	return nil
}
