package handlers

import (
	"github.com/raviroshan224/MiniDeliveryApp/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetStatus 获取连通性与状态层标志
func (h *Handler) GetStatus(c *gin.Context) {
	snapshot := h.OrderStateService.Snapshot()
	response.Success(c, gin.H{
		"online":  h.Probe.Online(c.Request.Context()),
		"loading": snapshot.Loading,
		"error":   snapshot.Error,
	})
}
