package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

const (
	OtpStatusSentViaPush = "SENT_VIA_PUSH"
	OtpStatusSMSRequired = "SMS_REQUIRED"
)

type IssueOtpRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	FCMToken     string `json:"fcmToken"`
}

type IssueOtpResult struct {
	Status         string `json:"status"`
	VerificationID string `json:"verificationId,omitempty"`
}

// IssueOtp stores a fresh code and tries one push delivery. When push is not possible the
// caller is told to send the code by SMS itself, and no verification id is returned.
func (h *Handler) IssueOtp(c *gin.Context) {
	log := h.requestLogger(c, "issueOtp")

	var req IssueOtpRequest
	if err := bindCallable(c, &req); err != nil {
		writeError(c, InvalidArgument("Mobile number is required."))
		return
	}
	ctx := c.Request.Context()

	code, err := utils.GenerateOTP()
	if err != nil {
		h.internalFailure(c, log, "issueOtp", err, Internal("Could not generate code.", ""))
		return
	}

	session := models.OtpSession{
		ID:     h.sessions.NewID(),
		Code:   code,
		Mobile: req.MobileNumber,
		TTL:    h.opts.OtpTTL,
	}
	if err := h.sessions.Save(ctx, session); err != nil {
		h.internalFailure(c, log, "issueOtp", err, Internal("Could not store code.", err.Error()))
		return
	}

	if req.FCMToken != "" {
		err := h.notifier.SendOTPPush(ctx, req.FCMToken, code, session.ID, session.TTL)
		if err == nil {
			writeResult(c, IssueOtpResult{Status: OtpStatusSentViaPush, VerificationID: session.ID})
			return
		}
		log.Warn("otp push failed, falling back to sms", zap.Error(fmt.Errorf("session %s: %w", session.ID, err)))
	}

	writeResult(c, IssueOtpResult{Status: OtpStatusSMSRequired})
}
