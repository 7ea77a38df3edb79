package handlers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// SystemController abstracts the OS operations the system handler performs.
type SystemController interface {
	Shutdown(ctx context.Context) error
	LockScreen(ctx context.Context) error
	Screenshot(ctx context.Context) (string, error)
	SetMute(ctx context.Context, muted bool) error
	AdjustVolume(ctx context.Context, delta int) (int, error)
}

// SystemHandler handles OS control requests. It registers at the highest
// priority so system keywords beat any overlapping media keywords.
type SystemHandler struct {
	controller SystemController
	logger     zerolog.Logger
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(controller SystemController, logger zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		controller: controller,
		logger:     logger,
	}
}

// Descriptor returns the handler's routing contract.
func (h *SystemHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "system",
		Version:      "1.0.0",
		Priority:     1,
		Capabilities: []string{"system_control"},
		TaskTypes:    []string{"shutdown", "lock_screen", "screenshot", "volume_mute", "volume_unmute", "volume_up", "volume_down"},
		Keywords: map[string]dispatch.Binding{
			"关机":    {TaskType: "shutdown"},
			"关闭电脑":  {TaskType: "shutdown"},
			"电脑关机":  {TaskType: "shutdown"},
			"锁屏":    {TaskType: "lock_screen"},
			"锁定屏幕":  {TaskType: "lock_screen"},
			"截图":    {TaskType: "screenshot"},
			"截屏":    {TaskType: "screenshot"},
			"屏幕截图":  {TaskType: "screenshot"},
			"静音":    {TaskType: "volume_mute"},
			"取消静音":  {TaskType: "volume_unmute"},
			"声音大一点": {TaskType: "volume_up"},
			"大声点":   {TaskType: "volume_up"},
			"调大音量":  {TaskType: "volume_up"},
			"声音小一点": {TaskType: "volume_down"},
			"小声点":   {TaskType: "volume_down"},
			"调小音量":  {TaskType: "volume_down"},
		},
	}
}

// Execute runs one system control task.
func (h *SystemHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	switch task.Type {
	case "shutdown":
		if task.Param("confirm") != "yes" {
			return dispatch.CannotHandle(
				"shutdown needs explicit confirmation",
				"",
				map[string]string{"confirm": "回复 yes 确认关机"},
			)
		}
		if err := h.controller.Shutdown(ctx); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("shutdown failed: %v", err), "", nil)
		}
		return dispatch.Success("正在关机", nil)
	case "lock_screen":
		if err := h.controller.LockScreen(ctx); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("lock failed: %v", err), "", nil)
		}
		return dispatch.Success("屏幕已锁定", nil)
	case "screenshot":
		path, err := h.controller.Screenshot(ctx)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("screenshot failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("截图已保存：%s", path), map[string]interface{}{"path": path})
	case "volume_mute":
		if err := h.controller.SetMute(ctx, true); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("mute failed: %v", err), "", nil)
		}
		return dispatch.Success("已静音", nil)
	case "volume_unmute":
		if err := h.controller.SetMute(ctx, false); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("unmute failed: %v", err), "", nil)
		}
		return dispatch.Success("已取消静音", nil)
	case "volume_up":
		level, err := h.controller.AdjustVolume(ctx, 10)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("volume change failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("音量已调大，当前 %d%%", level), map[string]interface{}{"level": level})
	case "volume_down":
		level, err := h.controller.AdjustVolume(ctx, -10)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("volume change failed: %v", err), "", nil)
		}
		return dispatch.Success(fmt.Sprintf("音量已调小，当前 %d%%", level), map[string]interface{}{"level": level})
	default:
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}
}
