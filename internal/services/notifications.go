package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
)

const otpPushTitle = "NutriCare OTP Code"

var ErrPushUnavailable = errors.New("push delivery is not configured")

// PushSender delivers one message to one device token.
type PushSender interface {
	Send(ctx context.Context, msg models.PushMessage) (string, error)
}

// NotificationService builds the messages this API pushes to client devices.
type NotificationService struct {
	sender PushSender
}

// NewNotificationService accepts a nil sender; every send then fails with ErrPushUnavailable.
func NewNotificationService(sender PushSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// SendOTPPush makes a single delivery attempt carrying the code in the body and in the data payload.
func (s *NotificationService) SendOTPPush(ctx context.Context, token, code, sessionID string, ttl time.Duration) error {
	if s == nil || s.sender == nil {
		return ErrPushUnavailable
	}

	msg := models.PushMessage{
		Token: token,
		Title: otpPushTitle,
		Body:  fmt.Sprintf("Your verification code is: %s. It expires in %d minutes.", code, int(ttl.Minutes())),
		Data: map[string]string{
			"otp_code":   code,
			"session_id": sessionID,
		},
	}
	if _, err := s.sender.Send(ctx, msg); err != nil {
		return err
	}
	return nil
}
