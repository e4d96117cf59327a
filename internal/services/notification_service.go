package services

import (
	"context"
	"fmt"

	"campusperks/internal/models"
	"campusperks/pkg/logger"
	"campusperks/pkg/push"
)

// Notifier fans out push notifications. Delivery is best effort: failures
// are logged and never bubble into the operation that triggered them.
type Notifier interface {
	NotifyRedemptionValidated(ctx context.Context, user *models.User, redemption *models.Redemption)
	NotifyAnnouncementDecision(ctx context.Context, supplier *models.User, announcement *models.Announcement)
}

type pushNotifier struct {
	android push.PushProvider
	ios     push.PushProvider
	logger  *logger.Logger
}

func NewPushNotifier(android, ios push.PushProvider, log *logger.Logger) Notifier {
	return &pushNotifier{
		android: android,
		ios:     ios,
		logger:  log,
	}
}

func (n *pushNotifier) NotifyRedemptionValidated(ctx context.Context, user *models.User, redemption *models.Redemption) {
	title := "Redemption confirmed"
	body := fmt.Sprintf("Your %q redemption was validated.", redemption.BenefitTitle)
	if redemption.RewardPoints > 0 {
		body = fmt.Sprintf("Your %q redemption was validated. You earned %d points!", redemption.BenefitTitle, redemption.RewardPoints)
	}

	n.sendToDevices(ctx, user, &push.NotificationRequest{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type":          "redemption_validated",
			"redemption_id": redemption.ID.Hex(),
		},
	})
}

func (n *pushNotifier) NotifyAnnouncementDecision(ctx context.Context, supplier *models.User, announcement *models.Announcement) {
	var body string
	switch announcement.Status {
	case models.AnnouncementStatusApproved:
		body = fmt.Sprintf("Your announcement %q was approved and is now live.", announcement.Title)
	case models.AnnouncementStatusRejected:
		body = fmt.Sprintf("Your announcement %q was rejected.", announcement.Title)
	default:
		return
	}

	n.sendToDevices(ctx, supplier, &push.NotificationRequest{
		Title: "Announcement reviewed",
		Body:  body,
		Data: map[string]string{
			"type":            "announcement_decision",
			"announcement_id": announcement.ID.Hex(),
		},
	})
}

func (n *pushNotifier) sendToDevices(ctx context.Context, user *models.User, request *push.NotificationRequest) {
	for _, device := range user.DeviceTokens {
		provider := n.providerFor(device.Platform)
		if provider == nil {
			continue
		}

		req := *request
		req.Token = device.Token

		if _, err := provider.SendNotification(ctx, &req); err != nil {
			n.logger.WithError(err).WithUserID(user.ID).WithField("platform", string(device.Platform)).Warn("Push notification delivery failed")
		}
	}
}

func (n *pushNotifier) providerFor(platform models.DevicePlatform) push.PushProvider {
	switch platform {
	case models.DevicePlatformAndroid:
		return n.android
	case models.DevicePlatformIOS:
		return n.ios
	default:
		return nil
	}
}
