package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
)

type VerifyClientRecordRequest struct {
	PatientID flexString `json:"patientId" binding:"required"`
	Mobile    flexString `json:"mobile" binding:"required"`
}

type VerifyClientRecordResult struct {
	Found   bool                  `json:"found"`
	Message string                `json:"message,omitempty"`
	Client  *models.ClientSummary `json:"client,omitempty"`
}

// VerifyClientRecord confirms a patient id / mobile pair before sign-up. It reads with
// service privileges, so only the summary projection ever leaves this handler.
func (h *Handler) VerifyClientRecord(c *gin.Context) {
	log := h.requestLogger(c, "verifyClientRecord")

	var req VerifyClientRecordRequest
	if err := bindCallable(c, &req); err != nil {
		writeError(c, InvalidArgument("Patient ID and mobile number are required."))
		return
	}

	summary, err := h.clients.FindSummary(c.Request.Context(), string(req.PatientID), string(req.Mobile))
	if errors.Is(err, services.ErrClientNotFound) {
		writeResult(c, VerifyClientRecordResult{Found: false, Message: "No matching client record found."})
		return
	}
	if err != nil {
		h.internalFailure(c, log, "verifyClientRecord", err, Internal("Server error", ""))
		return
	}

	if summary.HasPasswordSet {
		writeError(c, FailedPrecondition("Account exists."))
		return
	}
	writeResult(c, VerifyClientRecordResult{Found: true, Client: &summary})
}
