package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kiings/utils"
)

// ConfirmPayment handles the gateway's asynchronous payment-status callback.
// The underlying operation is idempotent, so retried deliveries are safe.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId"`
		Status    string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.SessionID == "" || req.Status == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request data", "sessionId and status are required")
		return
	}

	result, err := h.Svc.ConfirmPayment(c.Request.Context(), req.SessionID, req.Status)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	if result.AlreadyProcessed {
		c.JSON(http.StatusOK, gin.H{"message": "Payment already processed", "status": result.Status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully", "status": result.Status})
}
