package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kiings/models"
	"kiings/services/booking"
	"kiings/utils"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// CreateBooking validates and persists a new booking, then returns the
// checkout redirect reference.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	resp, err := h.Svc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMyBookings returns the bookings made with the given email.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "Email is required", "pass ?email=")
		return
	}

	bookings, err := h.Svc.ListBookings(c.Request.Context(), email)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListAllBookings returns every booking record.
func (h *BookingHandler) ListAllBookings(c *gin.Context) {
	bookings, err := h.Svc.ListBookings(c.Request.Context(), "")
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CancelBooking deletes a booking if it is still outside the cutoff window.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")

	if err := h.Svc.CancelBooking(c.Request.Context(), bookingID); err != nil {
		h.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// respondServiceError maps the lifecycle manager's typed errors to HTTP
// statuses.
func (h *BookingHandler) respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *booking.ValidationError
		notFoundErr   *booking.NotFoundError
		conflictErr   *booking.ConflictError
		cutoffErr     *booking.CutoffError
		upstreamErr   *booking.UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Validation failed", validationErr.Error())
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFoundErr.Error())
	case errors.As(err, &conflictErr):
		utils.JSONError(c, http.StatusConflict, "Slot conflict", conflictErr.Error())
	case errors.As(err, &cutoffErr):
		utils.JSONError(c, http.StatusConflict, "Cancellation cutoff", cutoffErr.Error())
	case errors.As(err, &upstreamErr):
		h.Logger.Error("upstream failure", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Upstream failure", "please try again later")
	default:
		h.Logger.Error("unexpected error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}
