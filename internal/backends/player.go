package backends

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".ogg":  true,
	".m4a":  true,
}

// LocalPlayer plays tracks from a local music library directory. Playback
// state is tracked in memory; the actual audio output is delegated to the
// desktop session via the track path.
type LocalPlayer struct {
	libraryPath string
	logger      zerolog.Logger

	mu      sync.Mutex
	tracks  []string
	current int
	playing bool
}

// NewLocalPlayer creates a player over the given library directory.
func NewLocalPlayer(libraryPath string, logger zerolog.Logger) *LocalPlayer {
	return &LocalPlayer{
		libraryPath: libraryPath,
		logger:      logger,
		current:     -1,
	}
}

// scanLocked refreshes the track list from disk.
func (p *LocalPlayer) scanLocked() error {
	p.tracks = p.tracks[:0]
	err := filepath.WalkDir(p.libraryPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(path))] {
			p.tracks = append(p.tracks, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan library: %w", err)
	}
	return nil
}

// Play starts the first track matching query, or the first track in the
// library when query is empty.
func (p *LocalPlayer) Play(ctx context.Context, query string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.scanLocked(); err != nil {
		return "", err
	}
	if len(p.tracks) == 0 {
		return "", fmt.Errorf("music library %s is empty", p.libraryPath)
	}

	p.current = 0
	if query != "" {
		found := false
		for i, track := range p.tracks {
			if strings.Contains(strings.ToLower(filepath.Base(track)), strings.ToLower(query)) {
				p.current = i
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("no track matching %q", query)
		}
	}

	p.playing = true
	track := p.tracks[p.current]
	p.logger.Info().Str("track", track).Msg("Playback started")
	return trackName(track), nil
}

// Pause pauses playback.
func (p *LocalPlayer) Pause(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return fmt.Errorf("nothing is playing")
	}
	p.playing = false
	return nil
}

// Resume resumes paused playback.
func (p *LocalPlayer) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < 0 {
		return fmt.Errorf("nothing to resume")
	}
	p.playing = true
	return nil
}

// Stop stops playback.
func (p *LocalPlayer) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	p.current = -1
	return nil
}

// Next advances to the next track, wrapping at the end of the library.
func (p *LocalPlayer) Next(ctx context.Context) (string, error) {
	return p.step(1)
}

// Previous steps back to the previous track.
func (p *LocalPlayer) Previous(ctx context.Context) (string, error) {
	return p.step(-1)
}

func (p *LocalPlayer) step(delta int) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < 0 || len(p.tracks) == 0 {
		return "", fmt.Errorf("nothing is playing")
	}
	p.current = (p.current + delta + len(p.tracks)) % len(p.tracks)
	p.playing = true
	return trackName(p.tracks[p.current]), nil
}

func trackName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
