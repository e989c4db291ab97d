package handlers

import (
	"github.com/raviroshan224/MiniDeliveryApp/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetTracking 获取订单跟踪快照
func (h *Handler) GetTracking(c *gin.Context) {
	snapshot, err := h.TrackingService.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, snapshot)
}
