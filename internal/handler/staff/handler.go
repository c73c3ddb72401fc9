package staff

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lidiabooking/booking-api/internal/service/staff"
	apperrors "github.com/lidiabooking/booking-api/pkg/errors"
	"github.com/lidiabooking/booking-api/pkg/httputil"
)

type Handler struct {
	service *staff.Service
}

func NewHandler(service *staff.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/staff")
	{
		group.GET("", h.ListStaff)
		group.GET("/:id/schedules", h.ListSchedules)
	}
}

func (h *Handler) ListStaff(c *gin.Context) {
	members, err := h.service.ListActiveStaff(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, members)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	schedules, err := h.service.ListSchedules(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, schedules)
}
