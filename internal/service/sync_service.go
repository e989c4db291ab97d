package service

import (
	"context"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"
)

const defaultSyncLatency = 500 * time.Millisecond

// waitFunc 可注入的定时等待抽象
// 真实实现挂在定时器上；将来换成真实网络调用时状态层契约不变。
type waitFunc func(ctx context.Context, d time.Duration) error

func timerWait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SyncService 同步模拟服务
// 不发起网络调用：等待固定模拟延迟后把订单标记为已同步。
type SyncService struct {
	store   repository.OrderRepository
	latency time.Duration
	wait    waitFunc
}

// NewSyncService 创建同步模拟服务
func NewSyncService(store repository.OrderRepository, latency time.Duration) *SyncService {
	if latency <= 0 {
		latency = defaultSyncLatency
	}
	return &SyncService{
		store:   store,
		latency: latency,
		wait:    timerWait,
	}
}

// SyncOne 同步单个订单
// 已同步的订单立即返回；持久层中不存在的订单由 MarkSynced 按空操作处理。
func (s *SyncService) SyncOne(ctx context.Context, order models.Order) error {
	if order.IsSynced {
		return nil
	}
	if err := s.wait(ctx, s.latency); err != nil {
		return err
	}
	if err := s.store.MarkSynced(ctx, order.ID); err != nil {
		return err
	}
	logger.Infow("order_sync_simulated", "order_id", order.ID)
	return nil
}

// SyncAllPending 顺序同步所有未同步订单
// 串行处理：同一时间至多一个写者重写整集合。
func (s *SyncService) SyncAllPending(ctx context.Context) error {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return err
	}
	for _, order := range orders {
		if order.IsSynced {
			continue
		}
		if err := s.SyncOne(ctx, order); err != nil {
			return err
		}
	}
	return nil
}
