package admin

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/middleware"
	"github.com/lidiabooking/booking-api/internal/model"
	"github.com/lidiabooking/booking-api/internal/service/booking"
	"github.com/lidiabooking/booking-api/internal/service/staff"
	"github.com/lidiabooking/booking-api/pkg/auth"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/httputil"
	"github.com/lidiabooking/booking-api/pkg/security"
	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

type Handler struct {
	bookings     *booking.Service
	staff        *staff.Service
	jwtSvc       auth.TokenService
	verifier     security.Verifier
	passwordHash string
}

func NewHandler(bookings *booking.Service, staffSvc *staff.Service, jwtSvc auth.TokenService, verifier security.Verifier, passwordHash string) *Handler {
	return &Handler{
		bookings:     bookings,
		staff:        staffSvc,
		jwtSvc:       jwtSvc,
		verifier:     verifier,
		passwordHash: passwordHash,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AdminAuthMiddleware) {
	admin := r.Group("/admin")
	admin.POST("/login", h.Login)

	guarded := admin.Group("", authMW.Authenticate())
	{
		guarded.GET("/appointments", h.ListAppointments)
		guarded.PATCH("/appointments/:id", h.PatchAppointment)
		guarded.POST("/blackouts", h.CreateBlackout)
		guarded.GET("/blackouts", h.ListBlackouts)
	}
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if h.passwordHash == "" {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}
	if err := h.verifier.Verify(h.passwordHash, req.Password); err != nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(err))
		return
	}

	token, err := h.jwtSvc.GenerateToken("admin")
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"token": token})
}

// ListAppointments lists bookings in a local date range, both bounds
// inclusive. Missing bounds default to today.
func (h *Handler) ListAppointments(c *gin.Context) {
	dateFrom, dateTo, err := h.parseDateRange(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var staffID *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		staffID = &id
	}

	var status *model.BookingStatus
	if raw := c.Query("status"); raw != "" {
		s := model.BookingStatus(raw)
		status = &s
	}

	rows, err := h.bookings.ListAdmin(c.Request.Context(), dateFrom, dateTo, staffID, status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rows)
}

func (h *Handler) PatchAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.PatchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	updated, err := h.bookings.PatchBooking(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) CreateBlackout(c *gin.Context) {
	var req model.CreateBlackoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	created, err := h.staff.CreateBlackout(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListBlackouts(c *gin.Context) {
	var staffID *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		staffID = &id
	}

	blackouts, err := h.staff.ListBlackouts(c.Request.Context(), staffID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, blackouts)
}

func (h *Handler) parseDateRange(c *gin.Context) (time.Time, time.Time, error) {
	// Defaults are today in the business timezone, not the server's.
	today, err := h.bookings.TodayLocal()
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Internal(err)
	}
	dateFrom := today
	dateTo := today

	if raw := c.Query("date_from"); raw != "" {
		parsed, err := timeutil.ParseLocalDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.BadRequest("invalid date_from, expected YYYY-MM-DD", err)
		}
		dateFrom = parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := timeutil.ParseLocalDate(raw)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.BadRequest("invalid date_to, expected YYYY-MM-DD", err)
		}
		dateTo = parsed
	}
	return dateFrom, dateTo, nil
}
