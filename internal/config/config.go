package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIBaseURL string
	APIToken   string
	APITimeout time.Duration
	SpanDays   int
	StartDate  string
	LogLevel   string
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SALON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", "http://127.0.0.1:8080")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("timeline.span_days", 7)
	v.SetDefault("timeline.start_date", "")
	v.SetDefault("log.level", "info")

	_ = v.BindEnv("api.base_url", "SALON_API_BASE_URL", "API_BASE_URL")
	_ = v.BindEnv("api.token", "SALON_API_TOKEN", "API_TOKEN")
	_ = v.BindEnv("api.timeout", "SALON_API_TIMEOUT")
	_ = v.BindEnv("timeline.span_days", "SALON_TIMELINE_SPAN_DAYS")
	_ = v.BindEnv("timeline.start_date", "SALON_TIMELINE_START_DATE")
	_ = v.BindEnv("log.level", "SALON_LOG_LEVEL", "LOG_LEVEL")

	timeout, err := time.ParseDuration(v.GetString("api.timeout"))
	if err != nil {
		return Config{}, err
	}

	baseURL := strings.TrimSpace(v.GetString("api.base_url"))
	if baseURL == "" {
		return Config{}, errors.New("api.base_url is required")
	}

	return Config{
		APIBaseURL: baseURL,
		APIToken:   v.GetString("api.token"),
		APITimeout: timeout,
		SpanDays:   v.GetInt("timeline.span_days"),
		StartDate:  strings.TrimSpace(v.GetString("timeline.start_date")),
		LogLevel:   v.GetString("log.level"),
	}, nil
}
