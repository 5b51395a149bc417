package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-directory/internal/config"
	"github.com/spec-kit/worker-directory/internal/events"
)

// NotificationService handles emitting notifications for console events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	httpClient *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// WebhookEnabled reports whether events are forwarded to a webhook.
func (n *NotificationService) WebhookEnabled() bool {
	return strings.TrimSpace(n.cfg.WebhookURL) != ""
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventStaffListLoaded, n.handleStaffListLoaded)
	n.dispatcher.Subscribe(events.EventStaffDeleted, n.handleStaffDeleted)
	n.dispatcher.Subscribe(events.EventStaffOperationFailed, n.handleOperationFailed)
	n.dispatcher.Subscribe(events.EventReportExported, n.handleReportExported)
}

func (n *NotificationService) handleStaffListLoaded(_ context.Context, event events.Event) error {
	n.logger.Debug("StaffListLoaded", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleStaffDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("StaffDeleted", zap.String("session_id", event.SessionID), zap.String("record_id", event.RecordID))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleOperationFailed(ctx context.Context, event events.Event) error {
	n.logger.Warn("StaffOperationFailed",
		zap.String("session_id", event.SessionID),
		zap.String("record_id", event.RecordID),
		zap.String("message", event.Message))
	return n.sendWebhook(ctx, event)
}

func (n *NotificationService) handleReportExported(_ context.Context, event events.Event) error {
	n.logger.Info("ReportExported", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

// sendWebhook posts the event to the configured webhook. Failures are logged
// and returned but never undo the operation that produced the event.
func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.String("url", url), zap.Error(err))
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		n.logger.Warn("webhook rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook rejected: status %d", resp.StatusCode)
	}
	n.logger.Debug("webhook delivered", zap.String("url", url), zap.String("event_type", string(event.Type)))
	return nil
}
