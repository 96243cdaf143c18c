package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

const RoleClient = "client"

type SignInRequest struct {
	MobileNumber string `json:"mobileNumber" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type SignInResult struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"clientId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SignInWithPassword exchanges a provisioned credential for a bearer token.
func (h *Handler) SignInWithPassword(c *gin.Context) {
	log := h.requestLogger(c, "signInWithPassword")

	var req SignInRequest
	if err := bindCallable(c, &req); err != nil {
		writeError(c, InvalidArgument("Mobile number and password are required."))
		return
	}

	cred, err := h.identity.GetCredentialByEmail(c.Request.Context(), h.authEmail(req.MobileNumber))
	if errors.Is(err, services.ErrCredentialNotFound) {
		writeError(c, Unauthenticated("Invalid credentials"))
		return
	}
	if err != nil {
		h.internalFailure(c, log, "signInWithPassword", err, Internal("Server error", ""))
		return
	}

	if !utils.CheckPasswordHash(req.Password, cred.PasswordHash) {
		writeError(c, Unauthenticated("Invalid credentials"))
		return
	}

	token, expiresAt, err := h.tokens.GenerateJWT(cred.ID, RoleClient)
	if err != nil {
		h.internalFailure(c, log, "signInWithPassword", err, Internal("Could not generate token", ""))
		return
	}
	writeResult(c, SignInResult{Token: token, ClientID: cred.ID, ExpiresAt: expiresAt})
}
