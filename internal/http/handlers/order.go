package handlers

import (
	"github.com/raviroshan224/MiniDeliveryApp/internal/http/response"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/queue"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 创建订单请求
type CreateOrderRequest struct {
	RecipientName string `json:"recipient_name" binding:"required"`
	Description   string `json:"description"`
	PackageType   string `json:"package_type"`
	FromLocation  string `json:"from_location"`
	ToLocation    string `json:"to_location"`
	Status        string `json:"status"`
}

// ListOrders 获取订单列表
// 先全量重取再返回状态快照，与移动端进入列表页的行为一致。
func (h *Handler) ListOrders(c *gin.Context) {
	if err := h.OrderStateService.FetchOrders(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, h.OrderStateService.Snapshot())
}

// CreateOrder 创建订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.OrderStateService.CreateOrder(c.Request.Context(), models.OrderDraft{
		RecipientName: req.RecipientName,
		Description:   req.Description,
		PackageType:   req.PackageType,
		FromLocation:  req.FromLocation,
		ToLocation:    req.ToLocation,
		Status:        req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// 创建后仍未同步的订单交给队列补一次定向同步
	if !order.IsSynced && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueOrderSync(queue.OrderSyncPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("enqueue_order_sync_failed", "order_id", order.ID, "error", err)
		}
	}

	response.Success(c, gin.H{
		"order": order,
		"state": h.OrderStateService.Snapshot(),
	})
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")
	orders, err := h.OrderStore.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	for i := range orders {
		if orders[i].ID == orderID {
			response.Success(c, orders[i])
			return
		}
	}
	response.NotFound(c, "order not found")
}

// SyncOrders 触发待同步清扫
// 连通性恢复时外壳也会走同一入口。
func (h *Handler) SyncOrders(c *gin.Context) {
	if h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueSyncSweep(); err != nil {
			respondServiceError(c, err)
			return
		}
		response.Success(c, gin.H{"enqueued": true})
		return
	}

	if err := h.OrderStateService.SyncPending(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, h.OrderStateService.Snapshot())
}
