package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
)

type LookupClientRequest struct {
	LoginID flexString `json:"loginId"`
}

// LookupClientByLoginOrMobile matches loginId first and then treats the same value as a
// mobile number. A miss is an empty object, not an error.
func (h *Handler) LookupClientByLoginOrMobile(c *gin.Context) {
	log := h.requestLogger(c, "lookupClientByLoginOrMobile")

	var req LookupClientRequest
	if err := bindCallable(c, &req); err != nil {
		writeError(c, InvalidArgument("Invalid request body."))
		return
	}
	loginID := string(req.LoginID)
	if loginID == "" {
		writeResult(c, models.ClientProfile{})
		return
	}
	ctx := c.Request.Context()

	for _, field := range []string{models.FieldLoginID, models.FieldMobile} {
		profile, err := h.clients.FindOneBy(ctx, field, loginID)
		if errors.Is(err, services.ErrClientNotFound) {
			continue
		}
		if err != nil {
			h.internalFailure(c, log, "lookupClientByLoginOrMobile", err, Internal("Server error", ""))
			return
		}
		writeResult(c, profile)
		return
	}
	writeResult(c, models.ClientProfile{})
}
