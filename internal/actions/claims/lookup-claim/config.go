// internal/actions/claims/lookup-claim/config.go
package lookupclaim

import (
	"time"

	"claims-portal/internal/common/config"
)

type Config struct {
	Timeout time.Duration // 0 = the request context decides
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetActionConfig(cfg, TaskType).Timeout),
	}
}
