package quota

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/domain/entity"
)

// fakeCounterStore 内存用量存储，可注入读写错误
type fakeCounterStore struct {
	counts  map[string]int
	getErr  error
	incErr  error
	getHits int
	incHits int
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counts: make(map[string]int)}
}

func (s *fakeCounterStore) key(identityKey string, feature entity.Feature, periodKey string) string {
	return fmt.Sprintf("%s|%s|%s", identityKey, feature, periodKey)
}

func (s *fakeCounterStore) GetCount(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	s.getHits++
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.counts[s.key(identityKey, feature, periodKey)], nil
}

func (s *fakeCounterStore) Increment(ctx context.Context, identityKey string, feature entity.Feature, periodKey string) (int, error) {
	s.incHits++
	if s.incErr != nil {
		return 0, s.incErr
	}
	k := s.key(identityKey, feature, periodKey)
	s.counts[k]++
	return s.counts[k], nil
}

func (s *fakeCounterStore) set(id entity.Identity, feature entity.Feature, periodKey string, count int) {
	s.counts[s.key(id.QuotaKey(), feature, periodKey)] = count
}

func registeredIdentity(tier entity.SubscriptionTier) entity.Identity {
	id := entity.ClassifyIdentity("8f6e2f61-2a0f-44f5-9a51-54c4b913f001", "session-1")
	id.Tier = tier
	return id
}

func newTestGate(store *fakeCounterStore) *Gate {
	g := NewGate(NewPolicy(testQuotaConfig()), NewStoreSet(nil, store))
	g.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	return g
}

func TestGateAllowsBelowLimit(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)

	d := gate.Check(context.Background(), id, entity.FeatureChat)

	require.True(t, d.Allowed)
	assert.Equal(t, 0, d.Current)
	assert.Equal(t, 20, d.Limit)
	// 放行即预留一个名额
	assert.Equal(t, 19, d.Remaining)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d.ResetAt)
}

func TestGateAllowsLastSlot(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)
	store.set(id, entity.FeatureChat, "2026-03-14", 19)

	d := gate.Check(context.Background(), id, entity.FeatureChat)

	require.True(t, d.Allowed)
	assert.Equal(t, 19, d.Current)
	assert.Equal(t, 0, d.Remaining)
}

func TestGateDeniesAtLimit(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)
	store.set(id, entity.FeatureChat, "2026-03-14", 20)

	d := gate.Check(context.Background(), id, entity.FeatureChat)

	require.False(t, d.Allowed)
	assert.Equal(t, 20, d.Current)
	assert.Equal(t, 0, d.Remaining)
	assert.False(t, d.ResetAt.IsZero())
}

func TestGateDeniesDisabledFeature(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)

	d := gate.Check(context.Background(), id, entity.FeatureAds)

	require.False(t, d.Allowed)
	assert.Equal(t, 0, d.Limit)
	// 禁用特性不读存储
	assert.Equal(t, 0, store.getHits)
}

func TestGateUnlimitedSkipsStore(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierPremium)

	d := gate.Check(context.Background(), id, entity.FeatureChat)

	require.True(t, d.Allowed)
	assert.True(t, d.Unlimited)
	assert.Equal(t, Unlimited, d.Limit)
	assert.Equal(t, Unlimited, d.Remaining)
	assert.Equal(t, 0, store.getHits)
}

func TestGateFailsOpenOnReadError(t *testing.T) {
	store := newFakeCounterStore()
	store.getErr = errors.New("connection refused")
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)

	d := gate.Check(context.Background(), id, entity.FeatureChat)

	require.True(t, d.Allowed)
	assert.True(t, d.Degraded)
	assert.Equal(t, 0, d.Current)
}

func TestGateCheckDoesNotConsume(t *testing.T) {
	store := newFakeCounterStore()
	gate := newTestGate(store)
	id := registeredIdentity(entity.TierFree)
	store.set(id, entity.FeatureChat, "2026-03-14", 5)

	for i := 0; i < 3; i++ {
		d := gate.Check(context.Background(), id, entity.FeatureChat)
		require.True(t, d.Allowed)
		assert.Equal(t, 5, d.Current)
	}
	assert.Equal(t, 0, store.incHits)
}

func TestGateAnonymousUsesAnonymousStore(t *testing.T) {
	anonStore := newFakeCounterStore()
	regStore := newFakeCounterStore()
	g := NewGate(NewPolicy(testQuotaConfig()), NewStoreSet(anonStore, regStore))
	g.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	id := entity.ClassifyIdentity("anonymous", "sess-42")

	d := g.Check(context.Background(), id, entity.FeatureChat)

	require.True(t, d.Allowed)
	assert.Equal(t, 10, d.Limit)
	assert.Equal(t, 1, anonStore.getHits)
	assert.Equal(t, 0, regStore.getHits)
}
