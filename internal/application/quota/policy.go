// Package quota 提供按订阅层级的配额裁决与用量记账能力
package quota

import (
	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
)

// Unlimited 表示不限额
const Unlimited = -1

// Limit 单特性配额上限
type Limit struct {
	Max    int
	Period entity.Period
}

// IsUnlimited 是否不限额
func (l Limit) IsUnlimited() bool {
	return l.Max < 0
}

// IsDisabled 是否禁用（上限为 0）
func (l Limit) IsDisabled() bool {
	return l.Max == 0
}

// Policy 配额策略表。进程启动时从配置构建一次，之后只读。
// 未知层级回落到 free；未配置的特性视为禁用（上限 0）。
type Policy struct {
	anonymous map[entity.Feature]Limit
	tiers     map[entity.SubscriptionTier]map[entity.Feature]Limit
}

// NewPolicy 从配置构建配额策略表
func NewPolicy(cfg *config.QuotaConfig) *Policy {
	p := &Policy{
		anonymous: make(map[entity.Feature]Limit),
		tiers:     make(map[entity.SubscriptionTier]map[entity.Feature]Limit),
	}

	// 匿名上限固定按日
	for feature, max := range cfg.AnonymousLimits {
		p.anonymous[entity.Feature(feature)] = Limit{
			Max:    max,
			Period: entity.PeriodDay,
		}
	}

	for tier, features := range cfg.TierLimits {
		limits := make(map[entity.Feature]Limit, len(features))
		for feature, fl := range features {
			limits[entity.Feature(feature)] = Limit{
				Max:    fl.Max,
				Period: entity.ParsePeriod(fl.Period),
			}
		}
		p.tiers[entity.ParseTier(tier)] = limits
	}

	return p
}

// Limit 查询层级对特性的上限。无副作用，总是返回一个值。
func (p *Policy) Limit(tier entity.SubscriptionTier, feature entity.Feature) Limit {
	limits, ok := p.tiers[tier]
	if !ok {
		limits = p.tiers[entity.TierFree]
	}
	if limits == nil {
		return Limit{Max: 0, Period: entity.PeriodDay}
	}
	l, ok := limits[feature]
	if !ok {
		return Limit{Max: 0, Period: entity.PeriodDay}
	}
	return l
}

// AnonymousLimit 查询匿名身份对特性的固定上限
func (p *Policy) AnonymousLimit(feature entity.Feature) Limit {
	l, ok := p.anonymous[feature]
	if !ok {
		return Limit{Max: 0, Period: entity.PeriodDay}
	}
	return l
}

// LimitFor 按身份类别查询上限。演示身份不限额。
func (p *Policy) LimitFor(id entity.Identity, feature entity.Feature) Limit {
	switch id.Class {
	case entity.IdentityDemo:
		return Limit{Max: Unlimited, Period: entity.PeriodDay}
	case entity.IdentityAnonymous:
		return p.AnonymousLimit(feature)
	default:
		return p.Limit(id.Tier, feature)
	}
}
