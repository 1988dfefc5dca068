package queue

import (
	"encoding/json"

	"github.com/ninetytwo-orders/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskExportArchive 订单导出归档任务
	TaskExportArchive = constants.TaskExportArchive
)

// ExportArchivePayload 导出归档任务载荷
type ExportArchivePayload struct {
	Slug        string `json:"slug"`
	Mode        string `json:"mode"`
	RequestedAt int64  `json:"requested_at"`
}

// NewExportArchiveTask 创建导出归档任务
func NewExportArchiveTask(payload ExportArchivePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportArchive, body), nil
}

// ParseExportArchivePayload 解析导出归档任务载荷
func ParseExportArchivePayload(task *asynq.Task) (ExportArchivePayload, error) {
	var payload ExportArchivePayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
