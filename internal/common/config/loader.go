// internal/common/config/loader.go
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // env file is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	// API_BASE_URL overrides api.base_url, DATABASE_REDIS_ADDRESS overrides database.redis.address, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "claims-portal")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.metrics_address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 15000)

	v.SetDefault("api.base_url", DefaultAPIBaseURL)
	v.SetDefault("api.config_json", "")
	v.SetDefault("api.timeout_ms", 0)

	v.SetDefault("flash.backend", "memory")
	v.SetDefault("flash.ttl_seconds", 60)
	v.SetDefault("flash.key_prefix", "flash:")

	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("notifications.email.enabled", false)
	v.SetDefault("notifications.email.from_email", "")
	v.SetDefault("notifications.sms.enabled", false)
	v.SetDefault("notifications.sms.topic_arn", "")
	v.SetDefault("notifications.aws.region", "us-east-1")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", "claims-portal")
	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults repairs values that unmarshal fine but make no sense.
func applyDefaults(cfg *Config) {
	if cfg.Flash.TTLSeconds <= 0 {
		cfg.Flash.TTLSeconds = 60
	}
	if cfg.Flash.Backend == "" {
		cfg.Flash.Backend = "memory"
	}
	if cfg.API.Timeout < 0 {
		cfg.API.Timeout = 0
	}
	if cfg.Tracing.SampleRatio <= 0 || cfg.Tracing.SampleRatio > 1 {
		cfg.Tracing.SampleRatio = 1
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	if cfg.Actions == nil {
		cfg.Actions = map[string]ActionConfig{}
	}
	for key, action := range cfg.Actions {
		if action.Timeout < 0 {
			action.Timeout = 0
		}
		cfg.Actions[key] = action
	}
}

// overrideEmptyConfig honours the bare variable names deployments already set:
// API_URL, REDIS_PASSWORD, SNS_TOPIC_ARN and AWS_REGION.
func overrideEmptyConfig(cfg *Config) {
	if val := os.Getenv("API_URL"); val != "" {
		cfg.API.BaseURL = strings.TrimRight(val, "/")
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
	if val := os.Getenv("SNS_TOPIC_ARN"); val != "" && cfg.Notifications.SMS.TopicARN == "" {
		cfg.Notifications.SMS.TopicARN = val
	}
	if val := os.Getenv("AWS_REGION"); val != "" && cfg.Notifications.AWS.Region == "" {
		cfg.Notifications.AWS.Region = val
	}
}

func validateConfig(cfg *Config) error {
	if err := validateBaseURL(cfg.API.BaseURL); err != nil {
		return err
	}

	switch cfg.Flash.Backend {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required when flash.backend is redis")
		}
	default:
		return fmt.Errorf("flash.backend must be memory or redis, got %q", cfg.Flash.Backend)
	}

	if cfg.Notifications.Email.Enabled && cfg.Notifications.Email.FromEmail == "" {
		return fmt.Errorf("notifications.email.from_email is required when email notifications are enabled")
	}
	if cfg.Notifications.SMS.Enabled && cfg.Notifications.SMS.TopicARN == "" {
		return fmt.Errorf("notifications.sms.topic_arn is required when sms notifications are enabled")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url has no host: %q", raw)
	}
	return nil
}

type apiURLFile struct {
	APIURL string `json:"API_URL"`
}

// LoadAPIURL reads a config.json of the form {"API_URL": "..."}.
func LoadAPIURL(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	var f apiURLFile
	if err := json.Unmarshal(data, &f); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	base := strings.TrimRight(strings.TrimSpace(f.APIURL), "/")
	if err := validateBaseURL(base); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

// ApplyAPIURLFile replaces cfg.API.BaseURL with the URL from cfg.API.ConfigJSON.
// On error the configured base URL is left untouched.
func ApplyAPIURLFile(cfg *Config) error {
	if cfg.API.ConfigJSON == "" {
		return nil
	}
	base, err := LoadAPIURL(cfg.API.ConfigJSON)
	if err != nil {
		return err
	}
	cfg.API.BaseURL = base
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetActionConfig retrieves action-specific configuration with fallback to defaults.
func GetActionConfig(cfg *Config, actionName string) ActionConfig {
	if action, exists := cfg.Actions[actionName]; exists {
		return action
	}
	return ActionConfig{Enabled: true}
}

// IsActionEnabled checks if a specific action is enabled. Unlisted actions are on.
func IsActionEnabled(cfg *Config, actionName string) bool {
	return GetActionConfig(cfg, actionName).Enabled
}
