package ads

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/domain/entity"
)

type fakeAdRepo struct {
	ads []*entity.Ad
	err error
}

func (r *fakeAdRepo) Create(ctx context.Context, ad *entity.Ad) error { return nil }

func (r *fakeAdRepo) ListLive(ctx context.Context, placement entity.AdPlacement) ([]*entity.Ad, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Ad
	for _, ad := range r.ads {
		if ad.Placement == placement {
			out = append(out, ad)
		}
	}
	return out, nil
}

func anonymous() entity.Identity {
	return entity.ClassifyIdentity("anonymous", "session-1")
}

func premiumUser() entity.Identity {
	id := entity.ClassifyIdentity("8f6e2f61-2a0f-44f5-9a51-54c4b913f001", "session-1")
	id.Tier = entity.TierPremium
	return id
}

func TestSelectPicksHighestWeight(t *testing.T) {
	repo := &fakeAdRepo{ads: []*entity.Ad{
		{ID: "ad-1", Title: "light", Placement: entity.PlacementChat, Weight: 2},
		{ID: "ad-2", Title: "heavy", Placement: entity.PlacementChat, Weight: 8},
	}}
	s := NewSelector(repo, true)

	ad := s.Select(context.Background(), anonymous(), entity.PlacementChat, "hello")

	require.NotNil(t, ad)
	assert.Equal(t, "ad-2", ad.ID)
}

// 关键词命中优先于权重
func TestSelectKeywordMatchBeatsWeight(t *testing.T) {
	repo := &fakeAdRepo{ads: []*entity.Ad{
		{ID: "ad-1", Placement: entity.PlacementChat, Weight: 50},
		{ID: "ad-2", Placement: entity.PlacementChat, Weight: 1, Keywords: pq.StringArray{"coffee"}},
	}}
	s := NewSelector(repo, true)

	ad := s.Select(context.Background(), anonymous(), entity.PlacementChat, "any good COFFEE nearby?")

	require.NotNil(t, ad)
	assert.Equal(t, "ad-2", ad.ID)
}

func TestSelectFiltersTierTargeting(t *testing.T) {
	repo := &fakeAdRepo{ads: []*entity.Ad{
		{ID: "ad-premium", Placement: entity.PlacementChat, Weight: 10, TargetTiers: pq.StringArray{"premium"}},
		{ID: "ad-any", Placement: entity.PlacementChat, Weight: 1},
	}}
	s := NewSelector(repo, true)

	ad := s.Select(context.Background(), anonymous(), entity.PlacementChat, "hello")
	require.NotNil(t, ad)
	assert.Equal(t, "ad-any", ad.ID)

	ad = s.Select(context.Background(), premiumUser(), entity.PlacementChat, "hello")
	require.NotNil(t, ad)
	assert.Equal(t, "ad-premium", ad.ID)
}

func TestSelectIgnoresOtherPlacements(t *testing.T) {
	repo := &fakeAdRepo{ads: []*entity.Ad{
		{ID: "ad-1", Placement: entity.PlacementTrending, Weight: 5},
	}}
	s := NewSelector(repo, true)

	assert.Nil(t, s.Select(context.Background(), anonymous(), entity.PlacementChat, "hello"))
}

// 仓储报错不影响主流程，只是不带广告
func TestSelectSwallowsRepositoryError(t *testing.T) {
	s := NewSelector(&fakeAdRepo{err: errors.New("db down")}, true)

	assert.Nil(t, s.Select(context.Background(), anonymous(), entity.PlacementChat, "hello"))
}

func TestSelectDisabledOrNil(t *testing.T) {
	repo := &fakeAdRepo{ads: []*entity.Ad{
		{ID: "ad-1", Placement: entity.PlacementChat, Weight: 5},
	}}

	disabled := NewSelector(repo, false)
	assert.Nil(t, disabled.Select(context.Background(), anonymous(), entity.PlacementChat, "hello"))

	var s *Selector
	assert.Nil(t, s.Select(context.Background(), anonymous(), entity.PlacementChat, "hello"))
}
