package entity

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestAdLiveAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ad := &Ad{Active: true, StartsAt: start, EndsAt: end}

	assert.True(t, ad.LiveAt(start))
	assert.True(t, ad.LiveAt(start.Add(15*24*time.Hour)))
	assert.False(t, ad.LiveAt(start.Add(-time.Second)))
	// 截止时刻本身不在投放期内
	assert.False(t, ad.LiveAt(end))

	ad.Active = false
	assert.False(t, ad.LiveAt(start.Add(time.Hour)))
}

func TestAdTargetsTier(t *testing.T) {
	open := &Ad{}
	assert.True(t, open.TargetsTier(TierFree))
	assert.True(t, open.TargetsTier(TierPremium))

	targeted := &Ad{TargetTiers: pq.StringArray{"premium", "enterprise_business"}}
	assert.True(t, targeted.TargetsTier(TierPremium))
	assert.True(t, targeted.TargetsTier(TierEnterpriseBusiness))
	assert.False(t, targeted.TargetsTier(TierFree))
}

func TestBookingCanCancel(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingPending}).CanCancel())
	assert.True(t, (&Booking{Status: BookingConfirmed}).CanCancel())
	assert.False(t, (&Booking{Status: BookingCancelled}).CanCancel())
}

func TestNewBookingNormalizesPartySize(t *testing.T) {
	b := NewBooking("u-1", "b-1", 0, time.Now().Add(time.Hour), "")

	assert.Equal(t, 1, b.PartySize)
	assert.Equal(t, BookingPending, b.Status)
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{MinLat: -34.0, MaxLat: -33.0, MinLng: 150.0, MaxLng: 151.5}

	assert.True(t, box.Contains(-33.8, 151.2))
	assert.False(t, box.Contains(-32.9, 151.2))
	assert.False(t, box.Contains(-33.8, 149.9))
	assert.False(t, box.IsZero())
	assert.True(t, BoundingBox{}.IsZero())
}
