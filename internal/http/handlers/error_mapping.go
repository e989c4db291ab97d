package handlers

import (
	"errors"

	"github.com/raviroshan224/MiniDeliveryApp/internal/http/response"
	"github.com/raviroshan224/MiniDeliveryApp/internal/service"

	"github.com/gin-gonic/gin"
)

// respondServiceError 将服务层错误映射为统一响应码
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRecipientRequired),
		errors.Is(err, service.ErrInvalidOrderStatus),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrPaymentOffline):
		response.Error(c, response.CodeConflict, err.Error())
	case errors.Is(err, service.ErrPaymentDuplicate):
		response.Error(c, response.CodeConflict, err.Error())
	default:
		response.Error(c, response.CodeInternal, "internal error")
	}
}
