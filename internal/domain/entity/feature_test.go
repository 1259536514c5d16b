package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFeature(t *testing.T) {
	assert.Equal(t, FeatureTrending, ParseFeature("trending"))
	assert.Equal(t, FeatureAds, ParseFeature("ads"))
	assert.Equal(t, FeatureProducts, ParseFeature("products"))
	assert.Equal(t, FeatureStores, ParseFeature("stores"))
	assert.Equal(t, FeatureChat, ParseFeature("chat"))
	assert.Equal(t, FeatureChat, ParseFeature(""))
	assert.Equal(t, FeatureChat, ParseFeature("bogus"))
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, PeriodHour, ParsePeriod("hour"))
	assert.Equal(t, PeriodMonth, ParsePeriod("month"))
	assert.Equal(t, PeriodDay, ParsePeriod("day"))
	assert.Equal(t, PeriodDay, ParsePeriod("week"))
}

func TestPeriodKeyIsUTC(t *testing.T) {
	// UTC+10 的本地时间 2026-03-15 02:30 对应 UTC 2026-03-14 16:30
	loc := time.FixedZone("AEST", 10*3600)
	local := time.Date(2026, 3, 15, 2, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-14T16", PeriodHour.PeriodKey(local))
	assert.Equal(t, "2026-03-14", PeriodDay.PeriodKey(local))
	assert.Equal(t, "2026-03", PeriodMonth.PeriodKey(local))
}

func TestNextReset(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 30, 45, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC), PeriodHour.NextReset(now))
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), PeriodDay.NextReset(now))
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.NextReset(now))
}

// 跨年边界
func TestNextResetMonthAcrossYear(t *testing.T) {
	now := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.NextReset(now))
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), PeriodDay.NextReset(now))
}
