package app

import (
	"errors"
	"fmt"

	"github.com/ninetytwo-orders/internal/config"
	"github.com/ninetytwo-orders/internal/provider"
	"github.com/ninetytwo-orders/internal/router"
	"github.com/ninetytwo-orders/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	mode, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	container := provider.NewContainer(cfg)

	var services []Service
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		services = append(services, NewHTTPService(addr, engine))
	}

	// all 模式下队列未启用时导出归档同步执行，不启动 worker
	if mode == ModeWorker || (mode == ModeAll && cfg.Queue.Enabled) {
		workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
		if err != nil {
			container.Close()
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		container.Close()
		return nil, fmt.Errorf("no services for mode %s (worker mode requires queue.enabled)", mode)
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}
	if _, err := ParseMode(opts.Mode); err != nil {
		return err
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
