package connectivity

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/config"
)

const (
	defaultProbeAddr    = "1.1.1.1:443"
	defaultProbeTimeout = 1500 * time.Millisecond
)

// Probe 网络连通性探测接口
// Online 返回调用瞬间的连通性快照。
type Probe interface {
	Online(ctx context.Context) bool
}

// DialProbe 通过 TCP 拨号探测连通性
type DialProbe struct {
	addr    string
	timeout time.Duration
}

// NewDialProbe 创建拨号探测器
func NewDialProbe(addr string, timeout time.Duration) *DialProbe {
	if strings.TrimSpace(addr) == "" {
		addr = defaultProbeAddr
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &DialProbe{addr: addr, timeout: timeout}
}

// Online 探测当前连通性
func (p *DialProbe) Online(ctx context.Context) bool {
	if p == nil {
		return false
	}
	dialer := net.Dialer{Timeout: p.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// StaticProbe 固定结果探测器（强制离线模式与测试用）
type StaticProbe struct {
	mu     sync.RWMutex
	online bool
}

// NewStaticProbe 创建固定结果探测器
func NewStaticProbe(online bool) *StaticProbe {
	return &StaticProbe{online: online}
}

// Online 返回当前设定值
func (p *StaticProbe) Online(_ context.Context) bool {
	if p == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.online
}

// SetOnline 修改设定值
func (p *StaticProbe) SetOnline(online bool) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.online = online
	p.mu.Unlock()
}

// NewProbe 根据配置创建探测器
func NewProbe(cfg *config.ConnectivityConfig) Probe {
	if cfg == nil {
		return NewDialProbe("", 0)
	}
	if cfg.ForceOffline {
		return NewStaticProbe(false)
	}
	return NewDialProbe(cfg.ProbeAddr, time.Duration(cfg.TimeoutMS)*time.Millisecond)
}
