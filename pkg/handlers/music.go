package handlers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// Player abstracts the audio backend the music handler drives.
type Player interface {
	Play(ctx context.Context, query string) (string, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) (string, error)
	Previous(ctx context.Context) (string, error)
}

// MusicHandler handles music playback requests
type MusicHandler struct {
	player Player
	logger zerolog.Logger
}

// NewMusicHandler creates a new music handler
func NewMusicHandler(player Player, logger zerolog.Logger) *MusicHandler {
	return &MusicHandler{
		player: player,
		logger: logger,
	}
}

// Descriptor returns the handler's routing contract.
func (h *MusicHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "music",
		Version:      "1.0.0",
		Priority:     3,
		Capabilities: []string{"play_audio", "playback_control"},
		TaskTypes:    []string{"play", "pause", "resume", "stop", "next", "previous"},
		Keywords: map[string]dispatch.Binding{
			"播放音乐": {TaskType: "play"},
			"放音乐":  {TaskType: "play"},
			"暂停":   {TaskType: "pause"},
			"暂停音乐": {TaskType: "pause"},
			"暂停播放": {TaskType: "pause"},
			"继续":   {TaskType: "resume"},
			"继续播放": {TaskType: "resume"},
			"停止音乐": {TaskType: "stop"},
			"停止播放": {TaskType: "stop"},
			"下一首":  {TaskType: "next"},
			"下一曲":  {TaskType: "next"},
			"切歌":   {TaskType: "next"},
			"上一首":  {TaskType: "previous"},
			"上一曲":  {TaskType: "previous"},
		},
	}
}

// Execute runs one playback task.
func (h *MusicHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	switch task.Type {
	case "play":
		track, err := h.player.Play(ctx, task.Param("query"))
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("playback failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("正在播放：%s", track), map[string]interface{}{"track": track})
	case "pause":
		if err := h.player.Pause(ctx); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("pause failed: %v", err), "", nil)
		}
		return dispatch.Success("已暂停播放", nil)
	case "resume":
		if err := h.player.Resume(ctx); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("resume failed: %v", err), "", nil)
		}
		return dispatch.Success("继续播放", nil)
	case "stop":
		if err := h.player.Stop(ctx); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("stop failed: %v", err), "", nil)
		}
		return dispatch.Success("已停止播放", nil)
	case "next":
		track, err := h.player.Next(ctx)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("skip failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("已切到下一首：%s", track), map[string]interface{}{"track": track})
	case "previous":
		track, err := h.player.Previous(ctx)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("skip failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("已切到上一首：%s", track), map[string]interface{}{"track": track})
	default:
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}
}
