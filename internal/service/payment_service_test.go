package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/cache"
	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
	"github.com/raviroshan224/MiniDeliveryApp/internal/connectivity"
	"github.com/raviroshan224/MiniDeliveryApp/internal/constants"
	"github.com/raviroshan224/MiniDeliveryApp/internal/models"
)

func paymentTestConfig() config.PaymentConfig {
	return config.PaymentConfig{
		BaseFee:      "5.00",
		CODSurcharge: "1.50",
		PackageFees: map[string]string{
			constants.PackageTypeParcel:  "2.00",
			constants.PackageTypeFragile: "4.00",
		},
	}
}

func TestProcessOnlinePaymentRequiresConnectivity(t *testing.T) {
	store := newTestOrderStore(t, true)
	ctx := context.Background()
	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Alice"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	probe := connectivity.NewStaticProbe(false)
	payments := NewPaymentService(store, probe, cache.NewReplayGuard(time.Minute), paymentTestConfig())

	if _, err := payments.Process(ctx, order.ID, constants.PaymentMethodOnline); !errors.Is(err, ErrPaymentOffline) {
		t.Fatalf("expected ErrPaymentOffline, got %v", err)
	}

	probe.SetOnline(true)
	receipt, err := payments.Process(ctx, order.ID, constants.PaymentMethodOnline)
	if err != nil {
		t.Fatalf("online payment while online failed: %v", err)
	}
	if !strings.HasPrefix(receipt.ReceiptID, constants.ReceiptIDPrefix) {
		t.Fatalf("unexpected receipt id: %s", receipt.ReceiptID)
	}
}

func TestProcessCODWorksOffline(t *testing.T) {
	store := newTestOrderStore(t, false)
	ctx := context.Background()
	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Bob", PackageType: constants.PackageTypeParcel})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	payments := NewPaymentService(store, connectivity.NewStaticProbe(false), cache.NewReplayGuard(time.Minute), paymentTestConfig())
	receipt, err := payments.Process(ctx, order.ID, constants.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("cod payment failed: %v", err)
	}
	// 5.00 基础 + 2.00 parcel + 1.50 货到付款
	if receipt.Amount.String() != "8.50" {
		t.Fatalf("unexpected amount: %s", receipt.Amount.String())
	}
	if receipt.OrderID != order.ID || receipt.Method != constants.PaymentMethodCOD {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestProcessDuplicateSubmissionRejected(t *testing.T) {
	store := newTestOrderStore(t, true)
	ctx := context.Background()
	order, err := store.CreateOrder(ctx, models.OrderDraft{RecipientName: "Carol"})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	payments := NewPaymentService(store, connectivity.NewStaticProbe(true), cache.NewReplayGuard(time.Minute), paymentTestConfig())
	if _, err := payments.Process(ctx, order.ID, constants.PaymentMethodCOD); err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if _, err := payments.Process(ctx, order.ID, constants.PaymentMethodCOD); !errors.Is(err, ErrPaymentDuplicate) {
		t.Fatalf("expected ErrPaymentDuplicate, got %v", err)
	}
}

func TestProcessRejectsUnknownOrderAndMethod(t *testing.T) {
	store := newTestOrderStore(t, true)
	payments := NewPaymentService(store, connectivity.NewStaticProbe(true), cache.NewReplayGuard(time.Minute), paymentTestConfig())
	ctx := context.Background()

	if _, err := payments.Process(ctx, "local_missing", constants.PaymentMethodCOD); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := payments.Process(ctx, "local_missing", "crypto"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}

func TestQuoteFeeTable(t *testing.T) {
	store := newTestOrderStore(t, true)
	payments := NewPaymentService(store, connectivity.NewStaticProbe(true), cache.NewReplayGuard(time.Minute), paymentTestConfig())

	cases := []struct {
		packageType string
		method      string
		want        string
	}{
		{constants.PackageTypeDocument, constants.PaymentMethodOnline, "5.00"},
		{constants.PackageTypeParcel, constants.PaymentMethodOnline, "7.00"},
		{constants.PackageTypeFragile, constants.PaymentMethodCOD, "10.50"},
		{"", constants.PaymentMethodCOD, "6.50"},
	}
	for _, tc := range cases {
		got := payments.Quote(tc.packageType, tc.method).StringFixed(2)
		if got != tc.want {
			t.Fatalf("quote(%s,%s)=%s, want %s", tc.packageType, tc.method, got, tc.want)
		}
	}
}
