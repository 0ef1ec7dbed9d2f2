// internal/actions/claims/submit-claim/config.go
package submitclaim

import (
	"time"

	"claims-portal/internal/common/config"
)

type Config struct {
	Timeout  time.Duration // 0 = the request context decides
	FlashTTL time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout:  config.GetDuration(config.GetActionConfig(cfg, TaskType).Timeout),
		FlashTTL: time.Duration(cfg.Flash.TTLSeconds) * time.Second,
	}
}
