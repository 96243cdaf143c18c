package services

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// SentryService reports masked internal failures. A zero DSN disables it.
type SentryService struct {
	initialized bool
}

func NewSentryService(dsn, environment string, logger *zap.Logger) *SentryService {
	if dsn == "" {
		logger.Info("SENTRY_DSN not set, Sentry disabled")
		return &SentryService{}
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	})
	if err != nil {
		logger.Warn("sentry initialization failed", zap.Error(err))
		return &SentryService{}
	}
	return &SentryService{initialized: true}
}

// CaptureException tags the event with the endpoint that failed.
func (s *SentryService) CaptureException(operation string, err error) {
	if s == nil || !s.initialized {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("operation", operation)
		sentry.CaptureException(err)
	})
}

// Flush waits for queued events, returning true when there was nothing left to send.
func (s *SentryService) Flush(timeout time.Duration) bool {
	if s == nil || !s.initialized {
		return true
	}
	return sentry.Flush(timeout)
}
