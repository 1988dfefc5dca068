package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/export"
	"github.com/ninetytwo-orders/internal/logger"
	"github.com/ninetytwo-orders/internal/queue"
)

var archiveNameSanitizer = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArchiveResult 导出归档请求结果
type ArchiveResult struct {
	Queued bool   `json:"queued"`
	TaskID string `json:"task_id,omitempty"`
	Path   string `json:"path,omitempty"`
}

// ExportService 订单打印文档导出
type ExportService struct {
	orders      *OrderService
	queueClient *queue.Client
	cfg         config.ExportConfig
	now         func() time.Time
}

// NewExportService 创建导出服务
func NewExportService(orders *OrderService, queueClient *queue.Client, cfg config.ExportConfig) *ExportService {
	return &ExportService{
		orders:      orders,
		queueClient: queueClient,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Render 渲染订单打印文档
func (s *ExportService) Render(slug string, mode export.Mode, autoPrint bool) ([]byte, error) {
	doc, err := s.orders.GetOrderBySlug(slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrOrderNotFound
	}
	return export.Render(*doc, export.Options{
		Mode:        mode,
		GeneratedAt: s.now(),
		Brand:       s.cfg.Brand,
		LogoURL:     s.cfg.LogoURL,
		AutoPrint:   autoPrint,
	})
}

// Archive 渲染并写入归档目录，返回文件路径
func (s *ExportService) Archive(slug string, mode export.Mode) (string, error) {
	dir := strings.TrimSpace(s.cfg.ArchiveDir)
	if dir == "" {
		return "", ErrArchiveDirMissing
	}
	body, err := s.Render(slug, mode, false)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir failed: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s.html",
		archiveNameSanitizer.ReplaceAllString(slug, "_"),
		mode,
		s.now().UTC().Format("20060102T150405Z"),
	)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("write archive failed: %w", err)
	}
	logger.Infow("export_archived", "slug", slug, "mode", mode, "path", path, "bytes", len(body))
	return path, nil
}

// RequestArchive 队列启用时异步归档，否则同步归档
func (s *ExportService) RequestArchive(slug string, mode export.Mode) (*ArchiveResult, error) {
	if _, err := s.orders.ResolveOrderID(slug); err != nil {
		return nil, err
	}
	if s.queueClient.Enabled() {
		taskID, err := s.queueClient.EnqueueExportArchive(queue.ExportArchivePayload{
			Slug:        slug,
			Mode:        string(mode),
			RequestedAt: s.now().Unix(),
		})
		if err != nil {
			return nil, err
		}
		logger.Infow("export_archive_enqueued", "slug", slug, "mode", mode, "task_id", taskID)
		return &ArchiveResult{Queued: true, TaskID: taskID}, nil
	}
	path, err := s.Archive(slug, mode)
	if err != nil {
		return nil, err
	}
	return &ArchiveResult{Path: path}, nil
}
