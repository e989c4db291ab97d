package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/cache"
	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
	"github.com/raviroshan224/MiniDeliveryApp/internal/provider"
	"github.com/raviroshan224/MiniDeliveryApp/internal/repository"
	"github.com/raviroshan224/MiniDeliveryApp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	probe := connectivity.NewStaticProbe(true)
	kv := repository.NewKVRepository(db)
	store := repository.NewOrderStore(kv, probe)
	syncer := service.NewSyncService(store, time.Millisecond)
	state := service.NewOrderStateService(store, syncer, probe, 0)

	container := &provider.Container{
		KVRepo:            kv,
		OrderStore:        store,
		Probe:             probe,
		SyncService:       syncer,
		OrderStateService: state,
		PaymentService: service.NewPaymentService(store, probe, cache.NewReplayGuard(0), config.PaymentConfig{
			BaseFee:      "5.00",
			CODSurcharge: "1.50",
			PackageFees:  map[string]string{"fragile": "2.00"},
		}),
		TrackingService: service.NewTrackingService(store),
	}

	h := New(container)
	r := gin.New()
	r.GET("/api/v1/status", h.GetStatus)
	r.GET("/api/v1/orders", h.ListOrders)
	r.POST("/api/v1/orders", h.CreateOrder)
	r.GET("/api/v1/orders/:id", h.GetOrder)
	r.POST("/api/v1/orders/sync", h.SyncOrders)
	r.GET("/api/v1/orders/:id/tracking", h.GetTracking)
	r.POST("/api/v1/payments", h.ProcessPayment)
	return r, container
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, json.RawMessage) {
	t.Helper()
	var resp struct {
		StatusCode int             `json:"status_code"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Data
}

func TestCreateOrderRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{
		"recipient_name": "Rahul Sharma",
		"package_type":   "parcel",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}

	var payload struct {
		Order models.Order       `json:"order"`
		State service.OrderState `json:"state"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal payload failed: %v", err)
	}
	if !strings.HasPrefix(payload.Order.ID, "local_") {
		t.Fatalf("order id want local_ prefix got %s", payload.Order.ID)
	}
	if !payload.Order.IsSynced {
		t.Fatalf("online create should return synced order")
	}
	for _, order := range payload.State.Orders {
		if strings.HasPrefix(order.ID, "temp_") {
			t.Fatalf("state should not contain optimistic entries, got %s", order.ID)
		}
	}
}

func TestCreateOrderRouteValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders", gin.H{"description": "no recipient"})
	code, _ := decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("status_code want 400 got %d", code)
	}
}

func TestGetOrderRouteNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/orders/local_missing", nil)
	code, _ := decodeEnvelope(t, w)
	if code != 404 {
		t.Fatalf("status_code want 404 got %d", code)
	}
}

func TestProcessPaymentRoute(t *testing.T) {
	r, container := newTestRouter(t)

	order, err := container.OrderStore.CreateOrder(context.Background(), models.OrderDraft{
		RecipientName: "Sita Koirala",
		PackageType:   "fragile",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/payments", gin.H{
		"order_id": order.ID,
		"method":   "cod",
	})
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}

	var receipt service.Receipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		t.Fatalf("unmarshal receipt failed: %v", err)
	}
	if !strings.HasPrefix(receipt.ReceiptID, "rcpt_") {
		t.Fatalf("receipt id want rcpt_ prefix got %s", receipt.ReceiptID)
	}
	if receipt.OrderID != order.ID {
		t.Fatalf("receipt order id want %s got %s", order.ID, receipt.OrderID)
	}
}

func TestSyncOrdersRouteWithoutQueue(t *testing.T) {
	r, container := newTestRouter(t)

	order, err := container.OrderStore.CreateOrder(context.Background(), models.OrderDraft{RecipientName: "Anil Thapa"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/orders/sync", nil)
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d", code)
	}

	var state service.OrderState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("unmarshal state failed: %v", err)
	}
	found := false
	for _, item := range state.Orders {
		if item.ID == order.ID {
			found = true
			if !item.IsSynced {
				t.Fatalf("order %s should be synced after sweep", item.ID)
			}
		}
	}
	if !found {
		t.Fatalf("order %s missing from state after sweep", order.ID)
	}
}
