package handlers

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/junyi/aria/pkg/dispatch"
)

// FileOps abstracts the filesystem operations the files handler performs.
type FileOps interface {
	Delete(ctx context.Context, path string) error
	Search(ctx context.Context, query, root string) ([]string, error)
	DiskSpace(ctx context.Context) (freeBytes, totalBytes uint64, err error)
}

// FilesHandler handles file management requests. Deletion always requires an
// explicit path; it is never inferred.
type FilesHandler struct {
	ops    FileOps
	logger zerolog.Logger
}

// NewFilesHandler creates a new files handler
func NewFilesHandler(ops FileOps, logger zerolog.Logger) *FilesHandler {
	return &FilesHandler{
		ops:    ops,
		logger: logger,
	}
}

// Descriptor returns the handler's routing contract.
func (h *FilesHandler) Descriptor() dispatch.Descriptor {
	return dispatch.Descriptor{
		Name:         "files",
		Version:      "1.0.0",
		Priority:     5,
		Capabilities: []string{"file_management"},
		TaskTypes:    []string{"delete", "search", "disk_space"},
		Keywords: map[string]dispatch.Binding{
			"删除文件": {TaskType: "delete"},
			"搜索文件": {TaskType: "search"},
			"查找文件": {TaskType: "search"},
			"磁盘空间": {TaskType: "disk_space"},
			"磁盘使用": {TaskType: "disk_space"},
		},
	}
}

// Execute runs one file management task.
func (h *FilesHandler) Execute(ctx context.Context, task dispatch.Task) dispatch.Outcome {
	switch task.Type {
	case "delete":
		path := task.Param("path")
		if path == "" {
			return dispatch.CannotHandle(
				"need the path of the file to delete",
				"",
				map[string]string{"path": "要删除的文件路径"},
			)
		}
		if err := h.ops.Delete(ctx, path); err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("delete failed: %v", err), "", nil)
		}
		h.logger.Info().Str("path", path).Msg("File deleted")
		return dispatch.Success(fmt.Sprintf("已删除文件：%s", path), map[string]interface{}{"path": path})
	case "search":
		query := task.Param("query")
		if query == "" {
			return dispatch.CannotHandle(
				"need something to search for",
				"",
				map[string]string{"query": "要搜索的文件名或关键词"},
			)
		}
		matches, err := h.ops.Search(ctx, query, task.Param("root"))
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("search failed: %v", err), "", nil)
		}
		return dispatch.Success(
			fmt.Sprintf("找到 %d 个匹配的文件", len(matches)),
			map[string]interface{}{"matches": matches},
		)
	case "disk_space":
		free, total, err := h.ops.DiskSpace(ctx)
		if err != nil {
			return dispatch.CannotHandle(fmt.Sprintf("disk query failed: %v", err), "", nil)
		}
		const gb = 1 << 30
		return dispatch.Success(
			fmt.Sprintf("磁盘剩余 %.1fGB / 共 %.1fGB", float64(free)/gb, float64(total)/gb),
			map[string]interface{}{"free_bytes": free, "total_bytes": total},
		)
	default:
		return dispatch.CannotHandle(fmt.Sprintf("unknown task type: %s", task.Type), "", nil)
	}
}
