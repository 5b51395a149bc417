package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to console
// events. Delivery runs inline with the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification worker disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started", zap.Bool("webhook", notificationService.WebhookEnabled()))
}
