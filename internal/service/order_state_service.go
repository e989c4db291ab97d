package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"

	"github.com/google/uuid"
)

const defaultSettleDelay = 500 * time.Millisecond

var (
	// ErrRecipientRequired 收件人为空
	ErrRecipientRequired = errors.New("recipient name is required")
	// ErrInvalidOrderStatus 订单状态非法
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderState 对 UI 协作方暴露的状态快照
type OrderState struct {
	Orders  []models.Order `json:"orders"`
	Loading bool           `json:"loading"`
	Error   string         `json:"error,omitempty"`
}

// OrderStateService 进程内订单状态管理
// 持久层拥有权威数据；这里只是缓存视图，任何变更序列结束后都以全量重读对账。
// 显式构造、经容器注入，不做包级单例。
type OrderStateService struct {
	store  repository.OrderRepository
	syncer *SyncService
	probe  connectivity.Probe
	settle time.Duration
	wait   waitFunc

	mu      sync.Mutex
	orders  []models.Order
	loading bool
	errMsg  string
}

// NewOrderStateService 创建订单状态服务
func NewOrderStateService(store repository.OrderRepository, syncer *SyncService, probe connectivity.Probe, settle time.Duration) *OrderStateService {
	if settle < 0 {
		settle = defaultSettleDelay
	}
	return &OrderStateService{
		store:  store,
		syncer: syncer,
		probe:  probe,
		settle: settle,
		wait:   timerWait,
	}
}

// Snapshot 返回状态快照副本
func (s *OrderStateService) Snapshot() OrderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := make([]models.Order, len(s.orders))
	copy(orders, s.orders)
	return OrderState{
		Orders:  orders,
		Loading: s.loading,
		Error:   s.errMsg,
	}
}

// FetchOrders 全量重读持久层并替换缓存视图
// loading 在所有退出路径上都会释放。
func (s *OrderStateService) FetchOrders(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		s.setError(err.Error())
		return err
	}

	s.mu.Lock()
	s.orders = orders
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// CreateOrder 乐观创建订单
// 先把临时条目插入缓存头部让 UI 立即可见，再做持久化；在线时等待模拟同步并
// 以全量重读替换视图。持久化或同步失败都回退到 FetchOrders 对账。
func (s *OrderStateService) CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	online := false
	if s.probe != nil {
		online = s.probe.Online(ctx)
	}

	status := draft.Status
	if status == "" {
		status = constants.OrderStatusPending
	}
	optimistic := models.Order{
		ID:                  constants.TempOrderIDPrefix + uuid.NewString(),
		RecipientName:       draft.RecipientName,
		Description:         draft.Description,
		PackageType:         draft.PackageType,
		FromLocation:        draft.FromLocation,
		ToLocation:          draft.ToLocation,
		Status:              status,
		IsSynced:            false,
		CreatedWhileOffline: !online,
		CreatedAt:           time.Now(),
	}

	s.mu.Lock()
	s.orders = append([]models.Order{optimistic}, s.orders...)
	s.mu.Unlock()

	created, err := s.store.CreateOrder(ctx, draft)
	if err != nil {
		s.setError(err.Error())
		if fetchErr := s.FetchOrders(ctx); fetchErr != nil {
			logger.Warnw("order_create_fallback_fetch_failed", "error", fetchErr)
		}
		return nil, err
	}

	// 以相关 id 定位临时条目，用权威记录整体替换（不合并）
	s.replaceByID(optimistic.ID, *created)

	if online {
		if err := s.refreshAfterSync(ctx, *created); err == nil {
			if fresh, ok := s.lookup(created.ID); ok {
				return &fresh, nil
			}
			return created, nil
		}
		logger.Warnw("order_create_sync_refresh_failed", "order_id", created.ID)
	}

	if err := s.FetchOrders(ctx); err != nil {
		logger.Warnw("order_create_reconcile_fetch_failed", "order_id", created.ID, "error", err)
	}
	return created, nil
}

// SyncPending 清扫持久层中所有未同步订单并对账
func (s *OrderStateService) SyncPending(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.syncer.SyncAllPending(ctx); err != nil {
		s.setError(err.Error())
		return err
	}
	return s.FetchOrders(ctx)
}

// refreshAfterSync 在线创建路径：等待模拟同步与落盘，再全量替换缓存视图
func (s *OrderStateService) refreshAfterSync(ctx context.Context, order models.Order) error {
	if err := s.syncer.SyncOne(ctx, order); err != nil {
		return err
	}
	if err := s.wait(ctx, s.settle); err != nil {
		return err
	}
	fresh, err := s.store.ListOrders(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.orders = fresh
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// lookup 在缓存视图中按 id 查找订单副本
func (s *OrderStateService) lookup(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			return s.orders[i], true
		}
	}
	return models.Order{}, false
}

func (s *OrderStateService) replaceByID(id string, authoritative models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i] = authoritative
			return
		}
	}
	s.orders = append([]models.Order{authoritative}, s.orders...)
}

func (s *OrderStateService) setLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
}

func (s *OrderStateService) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

func validateDraft(draft models.OrderDraft) error {
	if draft.RecipientName == "" {
		return ErrRecipientRequired
	}
	if draft.Status != "" && !constants.IsValidOrderStatus(draft.Status) {
		return ErrInvalidOrderStatus
	}
	return nil
}
