// Package ads 提供广告挑选
package ads

import (
	"context"
	"strings"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"
)

// Selector 广告挑选器。按投放位置取当前生效广告，
// 过滤层级定向后按权重挑选，消息命中关键词的广告优先。
type Selector struct {
	adRepo  repository.AdRepository
	enabled bool
}

// NewSelector 创建广告挑选器
func NewSelector(adRepo repository.AdRepository, enabled bool) *Selector {
	return &Selector{
		adRepo:  adRepo,
		enabled: enabled,
	}
}

// Select 为一次请求挑选广告；无合适广告或广告功能关闭时返回 nil。
// 广告查询失败只记日志，不影响主流程。
func (s *Selector) Select(ctx context.Context, id entity.Identity, placement entity.AdPlacement, messageText string) *entity.Ad {
	if s == nil || !s.enabled || s.adRepo == nil {
		return nil
	}

	liveAds, err := s.adRepo.ListLive(ctx, placement)
	if err != nil {
		logger.Warn(ctx, "failed to list live ads", "placement", placement, "error", err)
		return nil
	}

	text := strings.ToLower(messageText)

	var best *entity.Ad
	bestScore := 0
	for _, ad := range liveAds {
		if !ad.TargetsTier(id.Tier) {
			continue
		}

		score := ad.Weight
		if score <= 0 {
			score = 1
		}
		// 关键词命中的广告优先于纯权重
		if matchesKeyword(text, ad.Keywords) {
			score += 1000
		}

		if score > bestScore {
			best = ad
			bestScore = score
		}
	}

	if best != nil {
		metrics.AdsServedTotal.WithLabelValues(string(placement), string(id.Tier)).Inc()
	}
	return best
}

func matchesKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
