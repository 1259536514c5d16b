package trending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

type fakeBusinessRepo struct {
	businesses []*entity.Business
	err        error
	topCalls   int
	lastCat    entity.BusinessCategory
	lastN      int
}

func (r *fakeBusinessRepo) Create(ctx context.Context, b *entity.Business) error { return nil }
func (r *fakeBusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) Search(ctx context.Context, filter repository.BusinessFilter, p repository.Pagination) (*repository.PagedResult[*entity.Business], error) {
	return nil, nil
}

func (r *fakeBusinessRepo) TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error) {
	r.topCalls++
	r.lastCat = category
	r.lastN = n
	if r.err != nil {
		return nil, r.err
	}
	return r.businesses, nil
}

func TestTrendingWithoutCacheQueriesStore(t *testing.T) {
	repo := &fakeBusinessRepo{businesses: []*entity.Business{
		{ID: "b-1", Name: "Grind House", Rating: 4.9},
		{ID: "b-2", Name: "Bean Scene", Rating: 4.7},
	}}
	s := NewService(repo, nil, time.Minute, 10)

	out, err := s.Trending(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 1, repo.topCalls)
	assert.Equal(t, 10, repo.lastN)
}

func TestTrendingPassesCategoryFilter(t *testing.T) {
	repo := &fakeBusinessRepo{}
	s := NewService(repo, nil, time.Minute, 5)

	_, err := s.Trending(context.Background(), entity.CategoryCoffee)

	require.NoError(t, err)
	assert.Equal(t, entity.CategoryCoffee, repo.lastCat)
	assert.Equal(t, 5, repo.lastN)
}

func TestTrendingPropagatesStoreError(t *testing.T) {
	repo := &fakeBusinessRepo{err: errors.New("db down")}
	s := NewService(repo, nil, time.Minute, 10)

	_, err := s.Trending(context.Background(), "")

	require.Error(t, err)
}

// 非法参数回落到默认值
func TestNewServiceDefaults(t *testing.T) {
	s := NewService(&fakeBusinessRepo{}, nil, 0, -1)

	assert.Equal(t, 5*time.Minute, s.ttl)
	assert.Equal(t, 10, s.size)
}
