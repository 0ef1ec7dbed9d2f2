// internal/actions/notification/send-receipt/config.go
package sendreceipt

import (
	"time"

	"claims-portal/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	TopicARN     string
	AWSRegion    string
	Timeout      time.Duration
}

// LoadConfig maps the notifications section. Timeout comes from the
// send-receipt action entry, 10s when unset.
func LoadConfig(cfg *config.Config) *Config {
	timeout := config.GetDuration(config.GetActionConfig(cfg, TaskType).Timeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Config{
		EmailEnabled: cfg.Notifications.Email.Enabled,
		SMSEnabled:   cfg.Notifications.SMS.Enabled,
		FromEmail:    cfg.Notifications.Email.FromEmail,
		TopicARN:     cfg.Notifications.SMS.TopicARN,
		AWSRegion:    cfg.Notifications.AWS.Region,
		Timeout:      timeout,
	}
}

// Enabled reports whether any channel is on.
func (c *Config) Enabled() bool {
	return c.EmailEnabled || c.SMSEnabled
}
