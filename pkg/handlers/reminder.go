package handlers

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// Notifier delivers a reminder to the user when it fires.
type Notifier interface {
	Notify(message string)
}

// ReminderHandler schedules recurring reminders on a cron runner. A reminder
// needs both a schedule and a message; either gap is declared as missing info
// so the dispatcher can recover it from conversation context.
type ReminderHandler struct {
	cron     *cron.Cron
	notifier Notifier
	logger   zerolog.Logger

	mu      sync.Mutex
	entries map[cron.EntryID]string
}

// NewReminderHandler creates a reminder handler and starts its scheduler.
func NewReminderHandler(notifier Notifier, logger zerolog.Logger) *ReminderHandler {
	h := &ReminderHandler{
		cron:     cron.New(),
		notifier: notifier,
		logger:   logger,
		entries:  make(map[cron.EntryID]string),
	}
	h.cron.Start()
	return h
}

// Close stops the scheduler.
func (h *ReminderHandler) Close() {
	h.cron.Stop()
}

// Descriptor returns the handler's routing contract.
func (h *ReminderHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "reminder",
		Version:      "1.0.0",
		Priority:     5,
		Capabilities: []string{"schedule_reminder"},
		TaskTypes:    []string{"add", "list", "clear"},
		Keywords: map[string]dispatch.Binding{
			"提醒我":  {TaskType: "add"},
			"添加提醒": {TaskType: "add"},
			"查看提醒": {TaskType: "list"},
			"我的提醒": {TaskType: "list"},
			"清空提醒": {TaskType: "clear"},
			"删除提醒": {TaskType: "clear"},
		},
	}
}

// Execute runs one reminder task.
func (h *ReminderHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	switch task.Type {
	case "add":
		return h.add(task)
	case "list":
		return h.list()
	case "clear":
		return h.clear()
	default:
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}
}

func (h *ReminderHandler) add(task dispatch.Task) dispatch.Outcome {
	spec := task.Param("spec")
	message := task.Param("message")

	missing := make(map[string]string)
	if spec == "" {
		missing["spec"] = "提醒时间（cron 表达式，如 0 9 * * *）"
	}
	if message == "" {
		missing["message"] = "提醒内容"
	}
	if len(missing) > 0 {
		return dispatch.CannotHandle("reminder needs a schedule and a message", "", missing)
	}

	id, err := h.cron.AddFunc(spec, func() {
		h.logger.Info().Str("message", message).Msg("Reminder fired")
		h.notifier.Notify(message)
	})
	if err != nil {
		return dispatch.CannotHandle(fmt.Sprintf("invalid schedule %q: %v", spec, err), "", nil)
	}

	h.mu.Lock()
	h.entries[id] = message
	h.mu.Unlock()

	h.logger.Info().Str("spec", spec).Str("message", message).Msg("Reminder scheduled")
	return dispatch.Success(
		fmt.Sprintf("已设置提醒：%s（%s）", message, spec),
		map[string]interface{}{"id": int(id), "spec": spec, "message": message},
	)
}

func (h *ReminderHandler) list() dispatch.Outcome {
	h.mu.Lock()
	messages := make([]string, 0, len(h.entries))
	for _, m := range h.entries {
		messages = append(messages, m)
	}
	h.mu.Unlock()

	return dispatch.Success(
		fmt.Sprintf("共有 %d 条提醒", len(messages)),
		map[string]interface{}{"reminders": messages},
	)
}

func (h *ReminderHandler) clear() dispatch.Outcome {
	h.mu.Lock()
	n := len(h.entries)
	for id := range h.entries {
		h.cron.Remove(id)
		delete(h.entries, id)
	}
	h.mu.Unlock()

	return dispatch.Success(fmt.Sprintf("已清空 %d 条提醒", n), nil)
}
