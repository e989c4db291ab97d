package worker

import (
	"context"
	"encoding/json"

	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/provider"
	"github.com/raviroshan224/MiniDeliveryApp/internal/queue"

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
	mux.HandleFunc(queue.TaskOrderSync, c.handleOrderSync)
	mux.HandleFunc(queue.TaskSyncSweep, c.handleSyncSweep)
}

func (c *Consumer) handleOrderSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_sync_skip_invalid_payload")
		return nil
	}

	orders, err := c.OrderStore.ListOrders(ctx)
	if err != nil {
		logger.Warnw("worker_order_sync_list_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	for _, order := range orders {
		if order.ID != payload.OrderID {
			continue
		}
		if err := c.SyncService.SyncOne(ctx, order); err != nil {
			logger.Warnw("worker_order_sync_failed", "order_id", order.ID, "error", err)
			return err
		}
		break
	}
	// 订单不存在视为空操作
	return c.OrderStateService.FetchOrders(ctx)
}

func (c *Consumer) handleSyncSweep(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_sync_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	if err := c.OrderStateService.SyncPending(ctx); err != nil {
		logger.Warnw("worker_sync_sweep_failed", "error", err)
		return err
	}
	return nil
}
