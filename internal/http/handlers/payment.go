package handlers

import (
	"github.com/raviroshan224/MiniDeliveryApp/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ProcessPaymentRequest 支付确认请求
type ProcessPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Method  string `json:"method" binding:"required"`
}

// ProcessPayment 处理支付确认
func (h *Handler) ProcessPayment(c *gin.Context) {
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	receipt, err := h.PaymentService.Process(c.Request.Context(), req.OrderID, req.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, receipt)
}
