package availability

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/service/availability"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/httputil"
	"github.com/lidiabooking/booking-api/pkg/timeutil"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
	r.GET("/bookings/available-slots", h.GetAvailableSlots)
}

// GetAvailability returns per-staff open slots for a service on a
// given local date. staff_id narrows the result to one staff member.
func (h *Handler) GetAvailability(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	day, err := timeutil.ParseLocalDate(c.Query("day"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid day, expected YYYY-MM-DD", err))
		return
	}

	var staffFilter *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		staffID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		staffFilter = &staffID
	}

	result, err := h.service.ComputeAvailability(c.Request.Context(), serviceID, day, staffFilter)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}

// GetAvailableSlots returns the fixed-window slot list used by the
// public booking form.
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Query("service_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid service ID", err))
		return
	}

	staffID, err := uuid.Parse(c.Query("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	// Both "date" and "day" are accepted for compatibility.
	raw := c.Query("date")
	if raw == "" {
		raw = c.Query("day")
	}
	day, err := timeutil.ParseLocalDate(raw)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", err))
		return
	}

	slots, err := h.service.AvailableSlots(c.Request.Context(), serviceID, staffID, day)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"slots": slots})
}
