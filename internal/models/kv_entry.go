package models

// KVEntry 设备侧键值存储表
// 整个订单集合序列化后存放在单个键下，写入即整体覆盖。
type KVEntry struct {
	Key   string `gorm:"primarykey" json:"key"`  // 存储键
	Value string `gorm:"type:text" json:"value"` // 序列化内容
}

// TableName 指定表名
func (KVEntry) TableName() string {
	return "kv_entries"
}
