package app

import (
	"context"
	"errors"

	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/provider"
	"github.com/raviroshan224/MiniDeliveryApp/internal/router"
	"github.com/raviroshan224/MiniDeliveryApp/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	// 启动时先拉取本地订单，填充状态层
	if err := container.OrderStateService.FetchOrders(context.Background()); err != nil {
		logger.Warnw("initial_orders_load_failed", "error", err)
	}

	// 网络恢复后触发待同步订单清扫
	container.Monitor.OnOnline(func(ctx context.Context) {
		if container.QueueClient.Enabled() {
			if err := container.QueueClient.EnqueueSyncSweep(); err != nil {
				logger.Errorw("enqueue_sync_sweep_failed", "error", err)
			}
			return
		}
		if err := container.OrderStateService.SyncPending(ctx); err != nil {
			logger.Errorw("sync_pending_failed", "error", err)
		}
	})

	var services []Service
	services = append(services, container.Monitor)

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		if cfg.Queue.Enabled {
			consumer := worker.NewConsumer(container)
			workerService, err := worker.NewService(&cfg.Queue, consumer)
			if err != nil {
				return nil, err
			}
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
