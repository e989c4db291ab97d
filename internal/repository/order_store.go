package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"

	"github.com/google/uuid"
)

// OrderRepository 订单持久化访问接口
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
	MarkSynced(ctx context.Context, orderID string) error
	FetchRemote(ctx context.Context) ([]models.Order, error)
}

// KVOrderStore 基于键值存储的订单仓库
// 订单集合整体序列化在单个键下，每次变更整体重写。
// 所有读-改-写循环经内部互斥锁串行化，避免整集合覆盖写相互丢失。
type KVOrderStore struct {
	kv    KVRepository
	probe connectivity.Probe

	mu sync.Mutex
}

// NewOrderStore 创建订单仓库
func NewOrderStore(kv KVRepository, probe connectivity.Probe) *KVOrderStore {
	return &KVOrderStore{kv: kv, probe: probe}
}

// ListOrders 读取全部订单，按创建时间倒序
// 介质不可读或记录损坏时返回空集合，不向调用方抛错。
func (s *KVOrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCollection(ctx), nil
}

// CreateOrder 根据草稿构建订单并持久化
// 新订单插入集合头部，整个集合一次性重写。
func (s *KVOrderStore) CreateOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	online := false
	if s.probe != nil {
		online = s.probe.Online(ctx)
	}

	status := draft.Status
	if status == "" {
		status = constants.OrderStatusPending
	}
	order := models.Order{
		ID:                  constants.OrderIDPrefix + uuid.NewString(),
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
	defer s.mu.Unlock()

	orders := s.readCollection(ctx)
	orders = append([]models.Order{order}, orders...)
	if err := s.writeCollection(ctx, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkSynced 将订单标记为已同步并分配服务端标识
// 订单不存在或已同步时为空操作。
func (s *KVOrderStore) MarkSynced(ctx context.Context, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.readCollection(ctx)
	for i := range orders {
		if orders[i].ID != orderID {
			continue
		}
		if orders[i].IsSynced {
			return nil
		}
		orders[i].IsSynced = true
		orders[i].ServerID = constants.ServerIDPrefix + uuid.NewString()
		return s.writeCollection(ctx, orders)
	}
	return nil
}

// FetchRemote 远端订单拉取占位
// 当前没有真实后端，始终返回空集合；接口保留以便将来接入时状态层契约不变。
func (s *KVOrderStore) FetchRemote(ctx context.Context) ([]models.Order, error) {
	_ = ctx
	return []models.Order{}, nil
}

// readCollection 读取并反序列化订单集合
// 调用方必须已持有 s.mu。读失败与内容损坏都降级为空集合。
func (s *KVOrderStore) readCollection(ctx context.Context) []models.Order {
	raw, found, err := s.kv.Get(ctx, constants.OrdersStorageKey)
	if err != nil {
		logger.Warnw("order_store_read_failed", "error", err)
		return []models.Order{}
	}
	if !found || raw == "" {
		return []models.Order{}
	}

	var orders []models.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		logger.Warnw("order_store_record_corrupt", "error", err)
		return []models.Order{}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

// writeCollection 序列化并整体重写订单集合
// 调用方必须已持有 s.mu。
func (s *KVOrderStore) writeCollection(ctx context.Context, orders []models.Order) error {
	raw, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, constants.OrdersStorageKey, string(raw))
}
