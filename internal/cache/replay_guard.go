package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raviroshan224/MiniDeliveryApp/internal/logger"
)

const defaultReplayTTL = 10 * time.Minute

// ReplayGuard 重复提交防护
// 同一订单短时间内的重复支付提交会被拒绝。Redis 启用时跨进程生效，
// 否则退化为进程内记录。
type ReplayGuard struct {
	ttl time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewReplayGuard 创建重复提交防护
func NewReplayGuard(ttl time.Duration) *ReplayGuard {
	if ttl <= 0 {
		ttl = defaultReplayTTL
	}
	return &ReplayGuard{
		ttl:  ttl,
		seen: make(map[string]time.Time),
	}
}

// FirstSeen 记录一次提交，返回是否为首次
func (g *ReplayGuard) FirstSeen(ctx context.Context, key string) bool {
	if g == nil {
		return true
	}
	if Enabled() {
		ok, err := SetNX(ctx, replayKey(key), "1", g.ttl)
		if err == nil {
			return ok
		}
		logger.Warnw("replay_guard_redis_failed", "key", key, "error", err)
		// Redis 异常时退回进程内记录
	}

	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	if expiry, ok := g.seen[key]; ok && now.Before(expiry) {
		return false
	}
	g.seen[key] = now.Add(g.ttl)
	return true
}

func replayKey(key string) string {
	return fmt.Sprintf("payment:replay:%s", key)
}
