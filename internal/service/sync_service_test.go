package service

import (
	"context"
	"testing"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestOrderStore(t *testing.T, online bool) *repository.KVOrderStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return repository.NewOrderStore(repository.NewKVRepository(db), connectivity.NewStaticProbe(online))
}

func TestSyncOneMarksOrderSynced(t *testing.T) {
	store := newTestOrderStore(t, true)
	ctx := context.Background()
	syncer := NewSyncService(store, time.Millisecond)

	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Alice"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := syncer.SyncOne(ctx, *order); err != nil {
		t.Fatalf("sync one failed: %v", err)
	}

	orders, _ := store.ListOrders(ctx)
	if !orders[0].IsSynced || orders[0].ServerID == "" {
		t.Fatalf("expected synced order with server id, got %+v", orders[0])
	}
}

func TestSyncOneIdempotent(t *testing.T) {
	store := newTestOrderStore(t, true)
	ctx := context.Background()
	syncer := NewSyncService(store, time.Millisecond)

	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Bob"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := syncer.SyncOne(ctx, *order); err != nil {
		t.Fatalf("first sync failed: %v", err)
	}
	orders, _ := store.ListOrders(ctx)
	firstServerID := orders[0].ServerID

	// 用过期快照再次同步：持久层已同步，必须为空操作
	if err := syncer.SyncOne(ctx, *order); err != nil {
		t.Fatalf("stale re-sync must not fail: %v", err)
	}
	// 用新快照再次同步：立即返回
	if err := syncer.SyncOne(ctx, orders[0]); err != nil {
		t.Fatalf("re-sync of synced order must not fail: %v", err)
	}

	orders, _ = store.ListOrders(ctx)
	if orders[0].ServerID != firstServerID {
		t.Fatalf("server id changed on repeated sync: %s != %s", orders[0].ServerID, firstServerID)
	}
}

func TestSyncOneMissingOrderIsNoOp(t *testing.T) {
	store := newTestOrderStore(t, true)
	syncer := NewSyncService(store, time.Millisecond)

	phantom := models.Order{ID: "local_gone", IsSynced: false}
	if err := syncer.SyncOne(context.Background(), phantom); err != nil {
		t.Fatalf("sync of missing order must be a no-op, got: %v", err)
	}
}

func TestSyncAllPendingSyncsEveryUnsyncedOrder(t *testing.T) {
	store := newTestOrderStore(t, false)
	ctx := context.Background()
	syncer := NewSyncService(store, time.Millisecond)

	for _, name := range []string{"a", "b", "c"} {
		if _, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: name}); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	if err := syncer.SyncAllPending(ctx); err != nil {
		t.Fatalf("sync all pending failed: %v", err)
	}

	orders, _ := store.ListOrders(ctx)
	if len(orders) != 3 {
		t.Fatalf("order count changed during sweep: %d", len(orders))
	}
	seen := map[string]bool{}
	for _, order := range orders {
		if !order.IsSynced || order.ServerID == "" {
			t.Fatalf("order %s not synced after sweep", order.ID)
		}
		if seen[order.ServerID] {
			t.Fatalf("duplicate server id: %s", order.ServerID)
		}
		seen[order.ServerID] = true
	}
}

func TestSyncOneHonorsContextCancel(t *testing.T) {
	store := newTestOrderStore(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	syncer := NewSyncService(store, 10*time.Second)

	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Eve"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	cancel()
	if err := syncer.SyncOne(ctx, *order); err == nil {
		t.Fatalf("expected context error")
	}
	orders, _ := store.ListOrders(context.Background())
	if orders[0].IsSynced {
		t.Fatalf("canceled sync must not mark order synced")
	}
}
