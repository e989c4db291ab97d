package service

import (
	"context"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"
)

const simulatedTripDuration = 25 * time.Minute

// TrackingSnapshot 模拟实时跟踪数据
type TrackingSnapshot struct {
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	ProgressPercent int    `json:"progress_percent"`
	EtaMinutes      int    `json:"eta_minutes"`
	CourierName     string `json:"courier_name"`
	Vehicle         string `json:"vehicle"`
	StatusText      string `json:"status_text"`
}

// TrackingService 跟踪视图数据服务
// 没有真实定位来源：进度按订单创建以来经过的时间对固定行程时长推算。
type TrackingService struct {
	store repository.OrderRepository
	trip  time.Duration
	now   func() time.Time
}

// NewTrackingService 创建跟踪服务
func NewTrackingService(store repository.OrderRepository) *TrackingService {
	return &TrackingService{
		store: store,
		trip:  simulatedTripDuration,
		now:   time.Now,
	}
}

// Snapshot 生成订单的跟踪快照
func (s *TrackingService) Snapshot(ctx context.Context, orderID string) (*TrackingSnapshot, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			return s.build(orders[i]), nil
		}
	}
	return nil, ErrOrderNotFound
}

func (s *TrackingService) build(order models.Order) *TrackingSnapshot {
	snapshot := &TrackingSnapshot{
		OrderID:     order.ID,
		Status:      order.Status,
		CourierName: "Michael S.",
		Vehicle:     "Toyota Prius",
	}

	if order.Status == constants.OrderStatusDelivered {
		snapshot.ProgressPercent = 100
		snapshot.StatusText = "Delivered"
		return snapshot
	}

	elapsed := s.now().Sub(order.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	progress := int(elapsed * 100 / s.trip)
	if progress > 95 {
		// 未标记送达前进度封顶
		progress = 95
	}
	snapshot.ProgressPercent = progress
	remaining := s.trip - elapsed
	if remaining < time.Minute {
		remaining = time.Minute
	}
	snapshot.EtaMinutes = int(remaining.Minutes())

	if order.Status == constants.OrderStatusInTransit || progress >= 50 {
		snapshot.StatusText = "On the way to destination"
	} else {
		snapshot.StatusText = "On the way to pickup"
	}
	return snapshot
}
