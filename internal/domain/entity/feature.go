// Package entity 定义领域实体
package entity

import (
	"time"
)

// Feature 受配额约束的产品特性
type Feature string

const (
	FeatureChat     Feature = "chat"
	FeatureTrending Feature = "trending"
	FeatureAds      Feature = "ads"
	FeatureProducts Feature = "products"
	FeatureStores   Feature = "stores"
)

// ParseFeature 解析特性字符串，未知值回落到 chat
func ParseFeature(s string) Feature {
	switch Feature(s) {
	case FeatureTrending:
		return FeatureTrending
	case FeatureAds:
		return FeatureAds
	case FeatureProducts:
		return FeatureProducts
	case FeatureStores:
		return FeatureStores
	default:
		return FeatureChat
	}
}

// Period 配额统计周期
type Period string

const (
	PeriodHour  Period = "hour"
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod 解析周期字符串，未知值回落到 day
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodHour:
		return PeriodHour
	case PeriodMonth:
		return PeriodMonth
	default:
		return PeriodDay
	}
}

// PeriodKey 返回给定时刻所属周期的键。所有周期均按 UTC 计算。
func (p Period) PeriodKey(t time.Time) string {
	t = t.UTC()
	switch p {
	case PeriodHour:
		return t.Format("2006-01-02T15")
	case PeriodMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// NextReset 返回下一周期的起始时刻（UTC）
func (p Period) NextReset(t time.Time) time.Time {
	t = t.UTC()
	switch p {
	case PeriodHour:
		return t.Truncate(time.Hour).Add(time.Hour)
	case PeriodMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	}
}
