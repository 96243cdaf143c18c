package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
)

const provisionFailedMessage = "Authentication process failed on the server. Please check logs."

type ProvisionCredentialRequest struct {
	ClientID     string                 `json:"clientId" binding:"required"`
	MobileNumber string                 `json:"mobileNumber" binding:"required"`
	Password     string                 `json:"password" binding:"required,min=6"`
	UpdateData   map[string]interface{} `json:"updateData"`
}

type ProvisionCredentialResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProvisionCredential creates or overwrites the login credential for a client,
// optionally patching the client profile first.
func (h *Handler) ProvisionCredential(c *gin.Context) {
	log := h.requestLogger(c, "provisionCredential")

	var req ProvisionCredentialRequest
	if err := bindCallable(c, &req); err != nil {
		writeError(c, InvalidArgument("Client ID, mobile number, and password are required."))
		return
	}
	ctx := c.Request.Context()

	fail := func(err error) {
		h.internalFailure(c, log, "provisionCredential", err, Internal(provisionFailedMessage, err.Error()))
	}

	if len(req.UpdateData) > 0 {
		if err := h.clients.Patch(ctx, req.ClientID, req.UpdateData); err != nil {
			fail(err)
			return
		}
	}

	_, err := h.identity.GetCredential(ctx, req.ClientID)
	switch {
	case errors.Is(err, services.ErrCredentialNotFound):
		_, err = h.identity.CreateCredential(ctx, models.NewCredential{
			ID:            req.ClientID,
			Email:         h.authEmail(req.MobileNumber),
			Password:      req.Password,
			DisplayName:   req.MobileNumber,
			EmailVerified: true,
		})
		if err != nil {
			fail(err)
			return
		}
		log.Info("credential created", zap.String("client_id", req.ClientID))
		writeResult(c, ProvisionCredentialResult{Success: true, Message: "created"})
	case err != nil:
		fail(fmt.Errorf("lookup credential: %w", err))
	default:
		err = h.identity.UpdateCredential(ctx, req.ClientID, models.CredentialUpdate{
			Password:      req.Password,
			EmailVerified: true,
		})
		if err != nil {
			fail(err)
			return
		}
		log.Info("credential updated", zap.String("client_id", req.ClientID))
		writeResult(c, ProvisionCredentialResult{Success: true, Message: "updated"})
	}
}

func (h *Handler) authEmail(mobile string) string {
	return mobile + "@" + h.opts.EmailDomain
}
