package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/ninetytwo-orders/internal/export"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/provider"
	"github.com/ninetytwo-orders/internal/queue"
	"github.com/ninetytwo-orders/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskExportArchive, c.handleExportArchive)
}

func (c *Consumer) handleExportArchive(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_export_archive_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseExportArchivePayload(task)
	if err != nil {
		logger.Warnw("worker_export_archive_unmarshal_failed", "error", err)
		return err
	}
	slug := strings.TrimSpace(payload.Slug)
	if slug == "" {
		logger.Debugw("worker_export_archive_skip_invalid_payload", "slug", payload.Slug)
		return nil
	}
	mode, err := export.ParseMode(payload.Mode)
	if err != nil {
		logger.Debugw("worker_export_archive_skip_invalid_mode", "slug", slug, "mode", payload.Mode)
		return nil
	}
	if c.Container == nil || c.ExportService == nil {
		logger.Warnw("worker_export_archive_skip_service_nil", "slug", slug)
		return nil
	}
	path, err := c.ExportService.Archive(slug, mode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_export_archive_skip_order_not_found", "slug", slug)
			return nil
		case errors.Is(err, service.ErrArchiveDirMissing):
			logger.Warnw("worker_export_archive_skip_dir_missing", "slug", slug)
			return nil
		default:
			logger.Warnw("worker_export_archive_failed", "slug", slug, "mode", mode, "error", err)
			return err
		}
	}
	logger.Infow("worker_export_archive_done", "slug", slug, "mode", mode, "path", path)
	return nil
}
