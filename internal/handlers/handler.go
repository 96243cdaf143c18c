package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/services"
	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/utils"
)

const (
	ContextCallerID   = "callerID"
	ContextCallerRole = "callerRole"
	ContextRequestID  = "requestID"
)

type Options struct {
	EmailDomain string
	OtpTTL      time.Duration
}

// Handler holds everything the callable endpoints talk to. All of it is injected by main.
type Handler struct {
	clients  services.ClientStore
	sessions services.OtpStore
	identity services.IdentityProvider
	notifier *services.NotificationService
	tokens   *utils.TokenIssuer
	reporter *services.SentryService
	logger   *zap.Logger
	opts     Options
}

func NewHandler(
	clients services.ClientStore,
	sessions services.OtpStore,
	identity services.IdentityProvider,
	notifier *services.NotificationService,
	tokens *utils.TokenIssuer,
	reporter *services.SentryService,
	logger *zap.Logger,
	opts Options,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = "nutricarewellness.in"
	}
	if opts.OtpTTL <= 0 {
		opts.OtpTTL = 5 * time.Minute
	}
	return &Handler{
		clients:  clients,
		sessions: sessions,
		identity: identity,
		notifier: notifier,
		tokens:   tokens,
		reporter: reporter,
		logger:   logger,
		opts:     opts,
	}
}

// requestLogger scopes the logger to the operation, the request id, and the caller if any.
func (h *Handler) requestLogger(c *gin.Context, operation string) *zap.Logger {
	fields := []zap.Field{zap.String("operation", operation)}
	if id := c.GetString(ContextRequestID); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if caller := c.GetString(ContextCallerID); caller != "" {
		fields = append(fields, zap.String("caller_id", caller), zap.String("caller_role", c.GetString(ContextCallerRole)))
	}
	return h.logger.With(fields...)
}

// internalFailure logs and reports err, then answers with the given masked error.
func (h *Handler) internalFailure(c *gin.Context, log *zap.Logger, operation string, err error, resp *CallableError) {
	log.Error("request failed", zap.Error(err))
	h.reporter.CaptureException(operation, err)
	writeError(c, resp)
}
