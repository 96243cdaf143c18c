package services

import (
	"context"
	"fmt"

	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"

	"github.com/dietitianpushpakumari-ship-it/nutricarewellness-connect/internal/models"
)

// FCMSender sends through the Firebase Cloud Messaging HTTP v1 API.
type FCMSender struct {
	svc    *fcm.Service
	parent string
}

func NewFCMSender(ctx context.Context, projectID string, opts ...option.ClientOption) (*FCMSender, error) {
	if projectID == "" {
		return nil, fmt.Errorf("fcm project id is required")
	}
	svc, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create fcm service: %w", err)
	}
	return &FCMSender{svc: svc, parent: "projects/" + projectID}, nil
}

// Send returns the message name assigned by FCM.
func (s *FCMSender) Send(ctx context.Context, msg models.PushMessage) (string, error) {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: msg.Token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
		},
	}
	resp, err := s.svc.Projects.Messages.Send(s.parent, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("fcm send: %w", err)
	}
	return resp.Name, nil
}
