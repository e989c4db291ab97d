package connectivity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
)

const defaultProbeInterval = 5 * time.Second

// Monitor 连通性监听服务
// 周期性探测连通性，在离线恢复为在线时触发回调（外层用它挂接待同步清扫）。
type Monitor struct {
	name     string
	probe    Probe
	interval time.Duration

	mu         sync.Mutex
	known      bool
	lastOnline bool
	onOnline   func(ctx context.Context)
}

// NewMonitor 创建连通性监听服务
func NewMonitor(probe Probe, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	return &Monitor{
		name:     "connectivity",
		probe:    probe,
		interval: interval,
	}
}

// OnOnline 注册离线恢复回调
func (m *Monitor) OnOnline(fn func(ctx context.Context)) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.onOnline = fn
	m.mu.Unlock()
}

// Online 返回当前连通性快照
func (m *Monitor) Online(ctx context.Context) bool {
	if m == nil || m.probe == nil {
		return false
	}
	return m.probe.Online(ctx)
}

// Name 服务名称
func (m *Monitor) Name() string {
	if m == nil || m.name == "" {
		return "connectivity"
	}
	return m.name
}

// Start 启动监听
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil || m.probe == nil {
		return errors.New("connectivity monitor not initialized")
	}
	m.observe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.observe(ctx)
		}
	}
}

// Stop 停止监听
func (m *Monitor) Stop(ctx context.Context) error {
	_ = ctx
	return nil
}

func (m *Monitor) observe(ctx context.Context) {
	online := m.probe.Online(ctx)

	m.mu.Lock()
	wasKnown := m.known
	wasOnline := m.lastOnline
	m.known = true
	m.lastOnline = online
	fn := m.onOnline
	m.mu.Unlock()

	if wasKnown && wasOnline == online {
		return
	}
	logger.Infow("connectivity_changed", "online", online)
	if online && fn != nil {
		fn(ctx)
	}
}
