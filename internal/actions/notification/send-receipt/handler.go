// internal/actions/notification/send-receipt/handler.go
package sendreceipt

import (
	"context"
	"fmt"
	"strings"
	"time"

	commonaws "claims-portal/internal/common/aws"
	"claims-portal/internal/common/errors"
	"claims-portal/internal/common/logger"
	"claims-portal/internal/common/metrics"

	"github.com/google/uuid"
)

const (
	TaskType = "send-receipt"
)

type (
	SESService = commonaws.EmailAPI
	SNSService = commonaws.TopicAPI
)

type Handler struct {
	config   *Config
	logger   logger.Logger
	mailer   *commonaws.Mailer
	notifier *commonaws.Notifier
}

// NewHandler builds AWS clients only for the channels that are enabled.
func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}

	ctx := context.Background()
	if config.EmailEnabled {
		mailer, err := commonaws.NewSESMailer(ctx, config.AWSRegion, config.FromEmail)
		if err != nil {
			return nil, fmt.Errorf("email channel: %w", err)
		}
		h.mailer = mailer
	}
	if config.SMSEnabled {
		notifier, err := commonaws.NewSNSNotifier(ctx, config.AWSRegion, config.TopicARN)
		if err != nil {
			return nil, fmt.Errorf("sns channel: %w", err)
		}
		h.notifier = notifier
	}
	return h, nil
}

func NewHandlerWithClients(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	h := &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	if sesClient != nil {
		h.mailer = commonaws.NewMailer(sesClient, config.FromEmail)
	}
	if snsClient != nil {
		h.notifier = commonaws.NewNotifier(snsClient, config.TopicARN)
	}
	return h
}

// Send notifies the customer and never fails the caller: problems end up in
// the returned status and the log.
func (h *Handler) Send(ctx context.Context, input *Input) *Output {
	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.logger.Error("receipt failed", map[string]interface{}{
			"errorCode": errors.ErrCodeNotificationSendFailed,
			"error":     err,
		})
		return &Output{NotificationID: uuid.New().String(), Status: StatusFailed, SentAt: time.Now().UTC().Format(time.RFC3339)}
	}
	return output
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	sentAt := time.Now().UTC().Format(time.RFC3339)
	notificationID := uuid.New().String()

	if !h.config.Enabled() {
		return &Output{NotificationID: notificationID, Status: StatusDisabled, SentAt: sentAt}, nil
	}

	body := renderTemplate(receiptBody, map[string]string{
		"customerName": input.CustomerName,
		"claimRef":     claimRef(input.ClaimID),
		"plate":        input.Plate,
		"workshop":     input.Workshop,
		"message":      input.Message,
	})

	emailSent := false
	smsSent := false

	if h.config.EmailEnabled && input.Email != "" && h.mailer != nil {
		messageID, err := h.mailer.Send(ctx, input.Email, receiptSubject, body)
		if err != nil {
			metrics.NotificationsSent.WithLabelValues("email", StatusFailed).Inc()
			h.logger.Error("email send failed", map[string]interface{}{
				"error": errors.NewNotificationSendFailedError("email", err),
				"email": input.Email,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		metrics.NotificationsSent.WithLabelValues("email", StatusSent).Inc()
		h.logger.Debug("receipt mailed", map[string]interface{}{"messageId": messageID})
		emailSent = true
	}

	if h.config.SMSEnabled && h.config.TopicARN != "" && h.notifier != nil {
		messageID, err := h.notifier.Publish(ctx, receiptSubject, body)
		if err != nil {
			metrics.NotificationsSent.WithLabelValues("sns", StatusFailed).Inc()
			h.logger.Error("SNS publish failed", map[string]interface{}{
				"error":    errors.NewNotificationSendFailedError("sns", err),
				"topicArn": h.config.TopicARN,
			})
			return &Output{NotificationID: notificationID, Status: StatusFailed, SentAt: sentAt}, nil
		}
		metrics.NotificationsSent.WithLabelValues("sns", StatusSent).Inc()
		h.logger.Debug("receipt published", map[string]interface{}{"messageId": messageID})
		smsSent = true
	}

	status := StatusDisabled
	if emailSent || smsSent {
		status = StatusSent
	}

	h.logger.Info("receipt processed", map[string]interface{}{
		"notificationId": notificationID,
		"status":         status,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		SentAt:         sentAt,
	}, nil
}

func claimRef(id string) string {
	if id == "" {
		return ""
	}
	return " '" + id + "'"
}

// renderTemplate fills {{key}} placeholders in one left-to-right pass.
// Unknown keys are dropped and substituted values are never rescanned.
func renderTemplate(tmpl string, data map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	rest := tmpl
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			break
		}
		b.WriteString(rest[:start])
		b.WriteString(data[rest[start+2:start+end]])
		rest = rest[start+end+2:]
	}
	b.WriteString(rest)
	return b.String()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
