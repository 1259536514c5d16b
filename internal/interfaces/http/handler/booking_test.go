package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
)

const (
	testBookingID = "6f0b8c3a-52d1-4e9a-b7a4-1c2d3e4f5a60"
	testOwnerID   = "8f6e2f61-2a0f-44f5-9a51-54c4b913f001"
)

// fakeBookingRepo 内存预订仓储，记录状态更新
type fakeBookingRepo struct {
	bookings map[string]*entity.Booking
	updated  map[string]entity.BookingStatus
}

func newFakeBookingRepo(bookings ...*entity.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{
		bookings: make(map[string]*entity.Booking),
		updated:  make(map[string]entity.BookingStatus),
	}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	return r.bookings[id], nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID string, p repository.Pagination) (*repository.PagedResult[*entity.Booking], error) {
	var items []*entity.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	return repository.NewPagedResult(items, int64(len(items)), p), nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	r.updated[id] = status
	return nil
}

type fakeBookingBusinessRepo struct{}

func (r *fakeBookingBusinessRepo) Create(ctx context.Context, b *entity.Business) error { return nil }
func (r *fakeBookingBusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	return nil, nil
}
func (r *fakeBookingBusinessRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Business, error) {
	return nil, nil
}
func (r *fakeBookingBusinessRepo) Search(ctx context.Context, filter repository.BusinessFilter, p repository.Pagination) (*repository.PagedResult[*entity.Business], error) {
	return repository.NewPagedResult[*entity.Business](nil, 0, p), nil
}
func (r *fakeBookingBusinessRepo) TopRated(ctx context.Context, category entity.BusinessCategory, n int) ([]*entity.Business, error) {
	return nil, nil
}

// recordingTx 直接执行回调并记录调用次数
type recordingTx struct {
	calls int
}

func (t *recordingTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

func newBookingRouter(t *testing.T, repo *fakeBookingRepo, tx *recordingTx, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := NewBookingHandler(repo, &fakeBookingBusinessRepo{}, tx)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.DELETE("/v1/bookings/:id", h.Cancel)
	return r
}

func cancelRequest(r *gin.Engine, bookingID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/v1/bookings/"+bookingID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pendingBooking(owner string) *entity.Booking {
	return &entity.Booking{
		ID:         testBookingID,
		UserID:     owner,
		BusinessID: "b-1",
		Status:     entity.BookingPending,
		PartySize:  2,
		BookingAt:  time.Now().Add(24 * time.Hour),
	}
}

func TestCancelBookingRunsInTransaction(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking(testOwnerID))
	tx := &recordingTx{}
	r := newBookingRouter(t, repo, tx, testOwnerID)

	w := cancelRequest(r, testBookingID)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, entity.BookingCancelled, repo.updated[testBookingID])
}

func TestCancelBookingOwnedByOtherUserIsNotFound(t *testing.T) {
	repo := newFakeBookingRepo(pendingBooking("3c1d9a04-7be2-4f0e-8d23-0a9f5cd2a002"))
	r := newBookingRouter(t, repo, &recordingTx{}, testOwnerID)

	w := cancelRequest(r, testBookingID)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, repo.updated)
}

func TestCancelBookingAlreadyCancelledConflicts(t *testing.T) {
	booking := pendingBooking(testOwnerID)
	booking.Status = entity.BookingCancelled
	repo := newFakeBookingRepo(booking)
	r := newBookingRouter(t, repo, &recordingTx{}, testOwnerID)

	w := cancelRequest(r, testBookingID)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, repo.updated)
}

func TestCancelBookingRejectsBadID(t *testing.T) {
	repo := newFakeBookingRepo()
	r := newBookingRouter(t, repo, &recordingTx{}, testOwnerID)

	w := cancelRequest(r, "not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
