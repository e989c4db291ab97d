package models

import "time"

// Order 配送订单
// 不建独立数据表：订单集合整体序列化为 JSON 数组，存放在 KV 存储的单个键下。
type Order struct {
	ID                  string    `json:"id"`                     // 本地生成的唯一标识
	ServerID            string    `json:"serverId,omitempty"`     // 同步成功后分配的服务端标识
	RecipientName       string    `json:"recipientName"`          // 收件人
	Description         string    `json:"description,omitempty"`  // 物品描述
	PackageType         string    `json:"packageType,omitempty"`  // 包裹类型
	FromLocation        string    `json:"fromLocation,omitempty"` // 取件地址
	ToLocation          string    `json:"toLocation,omitempty"`   // 送达地址
	Status              string    `json:"status"`                 // 订单状态
	IsSynced            bool      `json:"isSynced"`               // 是否已同步
	CreatedWhileOffline bool      `json:"createdWhileOffline"`    // 创建时设备是否离线
	CreatedAt           time.Time `json:"createdAt"`              // 创建时间（展示时按此倒序）
}

// OrderDraft 创建订单输入
type OrderDraft struct {
	RecipientName string
	Description   string
	PackageType   string
	FromLocation  string
	ToLocation    string
	Status        string
}
