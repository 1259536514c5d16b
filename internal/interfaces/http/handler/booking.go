package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifex-api/internal/domain/entity"
	"lifex-api/internal/domain/repository"
	"lifex-api/internal/interfaces/http/dto"
	apperrors "lifex-api/pkg/errors"
	"lifex-api/pkg/logger"
	"lifex-api/pkg/metrics"
)

// BookingHandler 预订处理器
type BookingHandler struct {
	bookingRepo  repository.BookingRepository
	businessRepo repository.BusinessRepository
	tx           repository.Transactor
}

// NewBookingHandler 创建预订处理器
func NewBookingHandler(bookingRepo repository.BookingRepository, businessRepo repository.BusinessRepository, tx repository.Transactor) *BookingHandler {
	return &BookingHandler{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		tx:           tx,
	}
}

// Create 创建预订
func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.BookingAt.After(time.Now()) {
		dto.BadRequest(c, "bookingAt must be in the future")
		return
	}

	ctx := c.Request.Context()

	business, err := h.businessRepo.GetByID(ctx, req.BusinessID)
	if err != nil {
		logger.Error(ctx, "failed to get business", err, "business_id", req.BusinessID)
		dto.InternalError(c, "failed to create booking")
		return
	}
	if business == nil || !business.Active {
		dto.AppError(c, apperrors.New(apperrors.CodeBusinessNotFound, "business not found"))
		return
	}

	booking := entity.NewBooking(userID, req.BusinessID, req.PartySize, req.BookingAt, req.Note)
	if err := h.bookingRepo.Create(ctx, booking); err != nil {
		logger.Error(ctx, "failed to create booking", err, "user_id", userID, "business_id", req.BusinessID)
		dto.InternalError(c, "failed to create booking")
		return
	}

	metrics.BookingsCreatedTotal.WithLabelValues(string(booking.Status)).Inc()
	dto.Created(c, dto.ToBookingDTO(booking))
}

// List 分页返回当前用户的预订
func (h *BookingHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	var pageQuery struct {
		Page     int `form:"page,default=1" binding:"omitempty,min=1"`
		PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&pageQuery); err != nil {
		dto.BadRequest(c, "invalid pagination: "+err.Error())
		return
	}

	result, err := h.bookingRepo.ListByUser(c.Request.Context(), userID,
		repository.NewPagination(pageQuery.Page, pageQuery.PageSize))
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list bookings", err, "user_id", userID)
		dto.InternalError(c, "failed to list bookings")
		return
	}

	bookings := make([]*dto.BookingDTO, 0, len(result.Items))
	for _, b := range result.Items {
		bookings = append(bookings, dto.ToBookingDTO(b))
	}
	dto.SuccessWithPage(c, bookings, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Cancel 取消预订。仅限本人，且仅 pending/confirmed 可取消。
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		dto.Unauthorized(c, "authentication required")
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		dto.BadRequest(c, "invalid booking id")
		return
	}

	ctx := c.Request.Context()

	// 读取、校验、改状态放进同一事务，避免并发取消之间互相覆盖
	var booking *entity.Booking
	err := h.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		booking, err = h.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to get booking")
		}
		// 归属不符按不存在处理，避免泄露他人预订
		if booking == nil || booking.UserID != userID {
			return apperrors.New(apperrors.CodeBookingNotFound, "booking not found")
		}
		if !booking.CanCancel() {
			return apperrors.New(apperrors.CodeBookingConflict, "booking cannot be cancelled")
		}
		return h.bookingRepo.UpdateStatus(ctx, id, entity.BookingCancelled)
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code != apperrors.CodeDatabaseError {
			dto.AppError(c, appErr)
			return
		}
		logger.Error(ctx, "failed to cancel booking", err, "booking_id", id)
		dto.InternalError(c, "failed to cancel booking")
		return
	}

	booking.Status = entity.BookingCancelled
	dto.Success(c, dto.ToBookingDTO(booking))
}
