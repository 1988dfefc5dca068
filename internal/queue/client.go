package queue

import (
	"fmt"
	"strings"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
	// ExportQueue 导出队列名称
	ExportQueue = constants.QueueExport
)

// Client 队列客户端封装
type Client struct {
	client      *asynq.Client
	enabled     bool
	exportQueue string
}

// NewClient 创建队列客户端，未启用时返回空操作客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false, exportQueue: ExportQueue}, nil
	}
	return &Client{
		client:      asynq.NewClient(buildRedisOpt(cfg)),
		enabled:     true,
		exportQueue: resolveExportQueue(cfg),
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueExportArchive 推送导出归档任务，返回任务 ID
func (c *Client) EnqueueExportArchive(payload ExportArchivePayload, opts ...asynq.Option) (string, error) {
	if !c.Enabled() {
		return "", nil
	}
	task, err := NewExportArchiveTask(payload)
	if err != nil {
		return "", err
	}
	options := append([]asynq.Option{asynq.Queue(c.exportQueue), asynq.MaxRetry(3)}, opts...)
	info, err := c.client.Enqueue(task, options...)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 4
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1, ExportQueue: 1}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

// resolveExportQueue 配置中未声明 export 队列时回退到默认队列
func resolveExportQueue(cfg *config.QueueConfig) string {
	if cfg == nil || len(cfg.Queues) == 0 {
		return ExportQueue
	}
	if _, ok := cfg.Queues[ExportQueue]; ok {
		return ExportQueue
	}
	return DefaultQueue
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
