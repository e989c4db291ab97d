package provider

import (
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/cache"
	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/queue"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"
	"github.com/raviroshan224/MiniDeliveryApp/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	KVRepo     repository.KVRepository
	OrderStore repository.OrderRepository

	// 连通性
	Probe   connectivity.Probe
	Monitor *connectivity.Monitor

	// Services
	SyncService       *service.SyncService
	OrderStateService *service.OrderStateService
	PaymentService    *service.PaymentService
	TrackingService   *service.TrackingService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	cfg := c.Config
	c.Probe = connectivity.NewProbe(&cfg.Connectivity)
	c.Monitor = connectivity.NewMonitor(c.Probe, time.Duration(cfg.Connectivity.IntervalSeconds)*time.Second)

	c.KVRepo = repository.NewKVRepository(models.DB)
	c.OrderStore = repository.NewOrderStore(c.KVRepo, c.Probe)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.SyncService = service.NewSyncService(c.OrderStore, time.Duration(cfg.Sync.LatencyMS)*time.Millisecond)
	c.OrderStateService = service.NewOrderStateService(
		c.OrderStore,
		c.SyncService,
		c.Probe,
		time.Duration(cfg.Sync.SettleMS)*time.Millisecond,
	)
	c.PaymentService = service.NewPaymentService(
		c.OrderStore,
		c.Probe,
		cache.NewReplayGuard(0),
		cfg.Payment,
	)
	c.TrackingService = service.NewTrackingService(c.OrderStore)
}
