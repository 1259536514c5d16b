package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifex-api/internal/config"
	"lifex-api/internal/domain/entity"
)

func testQuotaConfig() *config.QuotaConfig {
	return &config.QuotaConfig{
		AnonymousLimits: map[string]int{
			"chat": 10,
			"ads":  0,
		},
		TierLimits: map[string]map[string]config.FeatureLimit{
			"free": {
				"chat":     {Max: 20, Period: "day"},
				"trending": {Max: 100, Period: "hour"},
			},
			"premium": {
				"chat": {Max: -1, Period: "day"},
			},
		},
	}
}

func TestPolicyLimit(t *testing.T) {
	p := NewPolicy(testQuotaConfig())

	l := p.Limit(entity.TierFree, entity.FeatureChat)
	assert.Equal(t, 20, l.Max)
	assert.Equal(t, entity.PeriodDay, l.Period)

	l = p.Limit(entity.TierFree, entity.FeatureTrending)
	assert.Equal(t, entity.PeriodHour, l.Period)
}

func TestPolicyUnknownTierFallsBackToFree(t *testing.T) {
	p := NewPolicy(testQuotaConfig())

	l := p.Limit(entity.SubscriptionTier("gold"), entity.FeatureChat)
	assert.Equal(t, 20, l.Max)
}

func TestPolicyMissingFeatureIsDisabled(t *testing.T) {
	p := NewPolicy(testQuotaConfig())

	l := p.Limit(entity.TierFree, entity.FeatureAds)
	assert.True(t, l.IsDisabled())
}

func TestPolicyUnlimitedTier(t *testing.T) {
	p := NewPolicy(testQuotaConfig())

	l := p.Limit(entity.TierPremium, entity.FeatureChat)
	assert.True(t, l.IsUnlimited())
}

func TestLimitForDemoIsUnlimited(t *testing.T) {
	p := NewPolicy(testQuotaConfig())
	id := entity.ClassifyIdentity(entity.DemoUserID, "s1")

	l := p.LimitFor(id, entity.FeatureChat)
	assert.True(t, l.IsUnlimited())
}

func TestLimitForAnonymousUsesDailyAnonymousLimits(t *testing.T) {
	p := NewPolicy(testQuotaConfig())
	id := entity.ClassifyIdentity("anonymous", "s1")

	l := p.LimitFor(id, entity.FeatureChat)
	assert.Equal(t, 10, l.Max)
	assert.Equal(t, entity.PeriodDay, l.Period)

	assert.True(t, p.LimitFor(id, entity.FeatureAds).IsDisabled())
}

func TestLimitForRegisteredUsesTier(t *testing.T) {
	p := NewPolicy(testQuotaConfig())
	id := entity.ClassifyIdentity("4c2f9a0e-7a06-4de2-9f3a-1f1a9ea0b001", "s1")
	id.Tier = entity.TierPremium

	assert.True(t, p.LimitFor(id, entity.FeatureChat).IsUnlimited())
}
