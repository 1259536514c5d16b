package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "lifex-api/pkg/errors"

	"lifex-api/internal/domain/entity"
)

func newTestRecorder(anon, reg *fakeCounterStore, strict bool) *Recorder {
	// 接口字段不能直接塞 nil 指针，逐项判空赋值
	set := &StoreSet{}
	if anon != nil {
		set.Anonymous = anon
	}
	if reg != nil {
		set.Registered = reg
	}
	r := NewRecorder(NewPolicy(testQuotaConfig()), set, strict)
	r.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	}
	return r
}

func TestRecorderIncrementsRegistered(t *testing.T) {
	store := newFakeCounterStore()
	rec := newTestRecorder(nil, store, false)
	id := registeredIdentity(entity.TierFree)

	count, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestRecorderDemoIsNoop(t *testing.T) {
	store := newFakeCounterStore()
	rec := newTestRecorder(nil, store, false)
	id := entity.ClassifyIdentity(entity.DemoUserID, "s1")

	count, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, store.incHits)
}

func TestRecorderAnonymousFallsBackToRegisteredStore(t *testing.T) {
	anon := newFakeCounterStore()
	anon.incErr = errors.New("redis down")
	reg := newFakeCounterStore()
	rec := newTestRecorder(anon, reg, false)
	id := entity.ClassifyIdentity("anonymous", "sess-42")

	count, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, anon.incHits)
	assert.Equal(t, 1, reg.incHits)
}

func TestRecorderLenientSwallowsTotalFailure(t *testing.T) {
	store := newFakeCounterStore()
	store.incErr = errors.New("postgres down")
	rec := newTestRecorder(nil, store, false)
	id := registeredIdentity(entity.TierFree)

	count, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRecorderStrictReturnsError(t *testing.T) {
	store := newFakeCounterStore()
	store.incErr = errors.New("postgres down")
	rec := newTestRecorder(nil, store, true)
	id := registeredIdentity(entity.TierFree)

	_, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUsageRecordFailed, appErr.Code)
}

func TestRecorderUsesUTCPeriodKey(t *testing.T) {
	store := newFakeCounterStore()
	rec := newTestRecorder(nil, store, false)
	id := registeredIdentity(entity.TierFree)

	_, err := rec.Record(context.Background(), id, entity.FeatureChat)
	require.NoError(t, err)

	k := store.key(id.QuotaKey(), entity.FeatureChat, "2026-03-14")
	assert.Equal(t, 1, store.counts[k])
}
