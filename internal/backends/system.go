package backends

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CommandRunner executes one external command. Injected so tests never run
// real system commands.
type CommandRunner func(ctx context.Context, name string, args ...string) error

func execRunner(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// OSController drives the desktop session through external commands.
type OSController struct {
	run      CommandRunner
	logger   zerolog.Logger
	shotsDir string

	mu     sync.Mutex
	volume int
}

// NewOSController creates a controller for the current platform.
func NewOSController(shotsDir string, logger zerolog.Logger) *OSController {
	return &OSController{
		run:      execRunner,
		logger:   logger,
		shotsDir: shotsDir,
		volume:   50,
	}
}

// Shutdown powers off the machine.
func (c *OSController) Shutdown(ctx context.Context) error {
	c.logger.Warn().Msg("Shutting down the machine")
	switch runtime.GOOS {
	case "darwin":
		return c.run(ctx, "osascript", "-e", `tell app "System Events" to shut down`)
	default:
		return c.run(ctx, "systemctl", "poweroff")
	}
}

// LockScreen locks the desktop session.
func (c *OSController) LockScreen(ctx context.Context) error {
	switch runtime.GOOS {
	case "darwin":
		return c.run(ctx, "pmset", "displaysleepnow")
	default:
		return c.run(ctx, "loginctl", "lock-session")
	}
}

// Screenshot captures the screen and returns the file path.
func (c *OSController) Screenshot(ctx context.Context) (string, error) {
	path := filepath.Join(c.shotsDir, fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405")))
	var err error
	switch runtime.GOOS {
	case "darwin":
		err = c.run(ctx, "screencapture", path)
	default:
		err = c.run(ctx, "import", "-window", "root", path)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// SetMute mutes or unmutes the default audio sink.
func (c *OSController) SetMute(ctx context.Context, muted bool) error {
	state := "0"
	if muted {
		state = "1"
	}
	switch runtime.GOOS {
	case "darwin":
		return c.run(ctx, "osascript", "-e", fmt.Sprintf("set volume output muted %t", muted))
	default:
		return c.run(ctx, "pactl", "set-sink-mute", "@DEFAULT_SINK@", state)
	}
}

// AdjustVolume changes volume by delta percent and returns the new level.
func (c *OSController) AdjustVolume(ctx context.Context, delta int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	level := c.volume + delta
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	var err error
	switch runtime.GOOS {
	case "darwin":
		err = c.run(ctx, "osascript", "-e", fmt.Sprintf("set volume output volume %d", level))
	default:
		err = c.run(ctx, "pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", level))
	}
	if err != nil {
		return c.volume, err
	}
	c.volume = level
	return level, nil
}
