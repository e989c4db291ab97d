package constants

// 订单状态常量
const (
	OrderStatusPending   = "Pending"
	OrderStatusInTransit = "InTransit"
	OrderStatusDelivered = "Delivered"
)

// 包裹类型常量
const (
	PackageTypeDocument  = "document"
	PackageTypeParcel    = "parcel"
	PackageTypeFragile   = "fragile"
	PackageTypeOversized = "oversized"
)

// 支付方式常量
const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// 持久化存储常量
const (
	// OrdersStorageKey 订单集合在 KV 存储中的键
	OrdersStorageKey = "orders"
)

// 标识符前缀常量
const (
	OrderIDPrefix     = "local_"
	TempOrderIDPrefix = "temp_"
	ServerIDPrefix    = "srv_"
	ReceiptIDPrefix   = "rcpt_"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskOrderSync = "order:sync"
	TaskSyncSweep = "order:sync_sweep"
)

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusInTransit, OrderStatusDelivered:
		return true
	}
	return false
}

// IsValidPaymentMethod 判断支付方式是否合法
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCOD, PaymentMethodOnline:
		return true
	}
	return false
}
