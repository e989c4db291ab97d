package repository

import (
	"context"
	"errors"

	"github.com/raviroshan224/MiniDeliveryApp/internal/models"

	"gorm.io/gorm"
)

// KVRepository 键值存储访问接口
// 模拟设备侧持久化介质：字符串键、字符串值、进程重启后仍然存在。
type KVRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// GormKVRepository GORM 实现
type GormKVRepository struct {
	db *gorm.DB
}

// NewKVRepository 创建键值存储仓库
func NewKVRepository(db *gorm.DB) *GormKVRepository {
	return &GormKVRepository{db: db}
}

// Get 读取键值
func (r *GormKVRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set 写入键值（单键整体覆盖）
func (r *GormKVRepository) Set(ctx context.Context, key, value string) error {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		entry = models.KVEntry{Key: key, Value: value}
		return r.db.WithContext(ctx).Create(&entry).Error
	}

	entry.Value = value
	return r.db.WithContext(ctx).Save(&entry).Error
}
