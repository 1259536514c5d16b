package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

// fakeBusinessRepo 记录最近一次 Search 调用的条件
type fakeBusinessRepo struct {
	businesses []*entity.Business
	lastFilter repository.BusinessFilter
	lastPage   repository.Pagination
	searchErr  error
}

func (r *fakeBusinessRepo) Create(ctx context.Context, b *entity.Business) error { return nil }
func (r *fakeBusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error) {
	return nil, nil
}
func (r *fakeBusinessRepo) Search(ctx context.Context, filter repository.BusinessFilter, p repository.Pagination) (*repository.PagedResult[*entity.Business], error) {
	r.lastFilter = filter
	r.lastPage = p
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	return repository.NewPagedResult(r.businesses, int64(len(r.businesses)), p), nil
}
func (r *fakeBusinessRepo) TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error) {
	return r.businesses, nil
}

func TestRecommendWithoutVectorSideUsesFilterSearch(t *testing.T) {
	repo := &fakeBusinessRepo{businesses: []*entity.Business{
		{ID: "b-1", Name: "Grind House", Category: entity.CategoryCoffee, Rating: 4.8},
	}}
	engine := NewEngine(repo, nil, nil)

	got, err := engine.Recommend(context.Background(), Query{
		Text:     "cozy coffee near the station",
		Category: entity.CategoryCoffee,
		Limit:    3,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entity.CategoryCoffee, repo.lastFilter.Category)
	assert.Equal(t, 3, repo.lastPage.PageSize)
}

func TestRecommendDefaultsLimit(t *testing.T) {
	repo := &fakeBusinessRepo{}
	engine := NewEngine(repo, nil, nil)

	_, err := engine.Recommend(context.Background(), Query{Category: entity.CategoryBar})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.lastPage.PageSize)
}

func TestRecommendPropagatesSearchError(t *testing.T) {
	repo := &fakeBusinessRepo{searchErr: errors.New("connection reset")}
	engine := NewEngine(repo, nil, nil)

	_, err := engine.Recommend(context.Background(), Query{Category: entity.CategoryGym})
	assert.Error(t, err)
}

func TestRecommendNilEngine(t *testing.T) {
	var engine *Engine
	_, err := engine.Recommend(context.Background(), Query{})
	assert.Error(t, err)
}
