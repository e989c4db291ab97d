package main

import (
	"context"

	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	store := repository.NewOrderStore(
		repository.NewKVRepository(models.DB),
		connectivity.NewStaticProbe(true),
	)

	drafts := []models.OrderDraft{
		{
			RecipientName: "Rahul Sharma",
			Description:   "手机壳两件",
			PackageType:   constants.PackageTypeParcel,
			FromLocation:  "Thamel, Kathmandu",
			ToLocation:    "Patan Durbar Square, Lalitpur",
			Status:        constants.OrderStatusPending,
		},
		{
			RecipientName: "Sita Koirala",
			Description:   "生日蛋糕",
			PackageType:   constants.PackageTypeFragile,
			FromLocation:  "New Road, Kathmandu",
			ToLocation:    "Boudha, Kathmandu",
			Status:        constants.OrderStatusInTransit,
		},
		{
			RecipientName: "Anil Thapa",
			Description:   "办公文件一箱",
			PackageType:   constants.PackageTypeDocument,
			FromLocation:  "Baneshwor, Kathmandu",
			ToLocation:    "Bhaktapur Durbar Square",
			Status:        constants.OrderStatusDelivered,
		},
	}

	for _, draft := range drafts {
		order, err := store.CreateOrder(ctx, draft)
		if err != nil {
			stdLog.Fatalf("Failed to seed order: %v", err)
		}
		stdLog.Printf("Seeded order %s (%s)", order.ID, order.RecipientName)
	}

	stdLog.Printf("Seed completed: %d orders", len(drafts))
}
