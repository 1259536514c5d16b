package quota

import (
	"context"
	"time"

	"lifex-api/internal/domain/entity"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"
)

// Decision 一次配额裁决结果
type Decision struct {
	Allowed   bool
	Unlimited bool
	Current   int
	Limit     int
	Remaining int
	ResetAt   time.Time
	// Degraded 表示用量读取失败、按零用量放行
	Degraded bool
}

// Gate 配额闸门。只读裁决，放行本身不消耗配额；
// 计数在下游动作成功后由 Recorder 单独完成。
type Gate struct {
	policy *Policy
	stores *StoreSet
	now    func() time.Time
}

// NewGate 创建配额闸门
func NewGate(policy *Policy, stores *StoreSet) *Gate {
	return &Gate{
		policy: policy,
		stores: stores,
		now:    time.Now,
	}
}

// Check 裁决身份当前能否再执行一次特性调用。
// 存储读取失败时按零用量放行（可用性优先），并在结果中标记 Degraded。
func (g *Gate) Check(ctx context.Context, id entity.Identity, feature entity.Feature) Decision {
	limit := g.policy.LimitFor(id, feature)
	now := g.now().UTC()

	if limit.IsUnlimited() {
		return Decision{
			Allowed:   true,
			Unlimited: true,
			Limit:     Unlimited,
			Remaining: Unlimited,
			ResetAt:   limit.Period.NextReset(now),
		}
	}

	resetAt := limit.Period.NextReset(now)

	if limit.IsDisabled() {
		metrics.QuotaDenialsTotal.WithLabelValues(string(feature), string(id.Tier)).Inc()
		return Decision{
			Allowed:   false,
			Limit:     0,
			Remaining: 0,
			ResetAt:   resetAt,
		}
	}

	periodKey := limit.Period.PeriodKey(now)
	current, degraded := g.readCount(ctx, id, feature, periodKey)

	if current >= limit.Max {
		metrics.QuotaDenialsTotal.WithLabelValues(string(feature), string(id.Tier)).Inc()
		return Decision{
			Allowed:   false,
			Current:   current,
			Limit:     limit.Max,
			Remaining: 0,
			ResetAt:   resetAt,
			Degraded:  degraded,
		}
	}

	// Remaining 预留本次被放行的名额
	remaining := limit.Max - current - 1
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   true,
		Current:   current,
		Limit:     limit.Max,
		Remaining: remaining,
		ResetAt:   resetAt,
		Degraded:  degraded,
	}
}

// readCount 读取当前周期用量；读取失败按零用量放行
func (g *Gate) readCount(ctx context.Context, id entity.Identity, feature entity.Feature, periodKey string) (int, bool) {
	store := g.stores.For(id)
	count, err := store.GetCount(ctx, id.QuotaKey(), feature, periodKey)
	if err == nil {
		return count, false
	}

	logger.Warn(ctx, "usage read failed, failing open",
		"identity_key", id.QuotaKey(),
		"feature", feature,
		"error", err,
	)
	return 0, true
}
