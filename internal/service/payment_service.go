package service

import (
	"context"
	"errors"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/cache"
	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidPaymentMethod 支付方式非法
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrPaymentOffline 在线支付要求当前在线
	ErrPaymentOffline = errors.New("online payment requires connectivity")
	// ErrPaymentDuplicate 重复提交
	ErrPaymentDuplicate = errors.New("payment already submitted for this order")
)

// Receipt 支付确认回执（无持久化状态）
type Receipt struct {
	ReceiptID   string       `json:"receipt_id"`
	OrderID     string       `json:"order_id"`
	Method      string       `json:"method"`
	Amount      models.Money `json:"amount"`
	ProcessedAt time.Time    `json:"processed_at"`
}

// PaymentService 支付确认服务
// 在线支付按提交瞬间的连通性快照闸门；金额按包裹类型计费。
type PaymentService struct {
	store        repository.OrderRepository
	probe        connectivity.Probe
	guard        *cache.ReplayGuard
	baseFee      decimal.Decimal
	codSurcharge decimal.Decimal
	packageFees  map[string]decimal.Decimal
}

// NewPaymentService 创建支付确认服务
func NewPaymentService(store repository.OrderRepository, probe connectivity.Probe, guard *cache.ReplayGuard, cfg config.PaymentConfig) *PaymentService {
	return &PaymentService{
		store:        store,
		probe:        probe,
		guard:        guard,
		baseFee:      parseFee(cfg.BaseFee, decimal.NewFromInt(5)),
		codSurcharge: parseFee(cfg.CODSurcharge, decimal.NewFromFloat(1.5)),
		packageFees:  parsePackageFees(cfg.PackageFees),
	}
}

// Process 处理一次支付确认
func (s *PaymentService) Process(ctx context.Context, orderID, method string) (*Receipt, error) {
	if !constants.IsValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	var order *models.Order
	for i := range orders {
		if orders[i].ID == orderID {
			order = &orders[i]
			break
		}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if method == constants.PaymentMethodOnline && (s.probe == nil || !s.probe.Online(ctx)) {
		return nil, ErrPaymentOffline
	}

	if s.guard != nil && !s.guard.FirstSeen(ctx, orderID) {
		return nil, ErrPaymentDuplicate
	}

	receipt := &Receipt{
		ReceiptID:   constants.ReceiptIDPrefix + uuid.NewString(),
		OrderID:     order.ID,
		Method:      method,
		Amount:      models.NewMoneyFromDecimal(s.Quote(order.PackageType, method)),
		ProcessedAt: time.Now(),
	}
	logger.Infow("payment_processed",
		"order_id", order.ID,
		"method", method,
		"amount", receipt.Amount.String(),
	)
	return receipt, nil
}

// Quote 按包裹类型与支付方式计算金额
func (s *PaymentService) Quote(packageType, method string) decimal.Decimal {
	amount := s.baseFee
	if fee, ok := s.packageFees[packageType]; ok {
		amount = amount.Add(fee)
	}
	if method == constants.PaymentMethodCOD {
		amount = amount.Add(s.codSurcharge)
	}
	return amount.Round(2)
}

func parseFee(raw string, fallback decimal.Decimal) decimal.Decimal {
	if raw == "" {
		return fallback
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Warnw("payment_fee_parse_failed", "raw", raw, "error", err)
		return fallback
	}
	return fee
}

func parsePackageFees(raw map[string]string) map[string]decimal.Decimal {
	fees := make(map[string]decimal.Decimal, len(raw))
	for packageType, value := range raw {
		fees[packageType] = parseFee(value, decimal.Zero)
	}
	return fees
}
