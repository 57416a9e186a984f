package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kiings/services/scheduler"
	"kiings/utils"
)

// SlotLister is the availability surface the handler needs.
type SlotLister interface {
	AvailableSlots(ctx context.Context, date string) ([]string, error)
}

// AvailabilityHandler serves the available-slots endpoint.
type AvailabilityHandler struct {
	Svc    SlotLister
	Logger *zap.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc SlotLister, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Logger: logger}
}

// GetAvailableSlots returns the ordered bookable slot labels for a date.
func (h *AvailabilityHandler) GetAvailableSlots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "Date is required", "pass ?date=YYYY-MM-DD")
		return
	}

	slots, err := h.Svc.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		if errors.Is(err, scheduler.ErrInvalidDate) {
			utils.JSONError(c, http.StatusBadRequest, "Invalid date", "date must be in YYYY-MM-DD form")
			return
		}
		h.Logger.Error("failed to resolve available slots", zap.String("date", date), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Server error fetching slots", "")
		return
	}

	c.JSON(http.StatusOK, slots)
}
