package config

import (
	"errors"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/keepalive/internal/window"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	HealthyAnyResponse = "any"
	HealthyStatus2xx   = "2xx"
)

const (
	DefaultIntervalMinutes = 14
	DefaultTimeout         = "30s"
	DefaultUserAgent       = "keepalive/1.0"
)

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type TargetConfig struct {
	URL           string            `mapstructure:"url"`
	Timeout       string            `mapstructure:"timeout"`
	HealthyStatus string            `mapstructure:"healthy_status"`
	UserAgent     string            `mapstructure:"user_agent"`
	Headers       map[string]string `mapstructure:"headers"`
}

type ActiveWindowConfig struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type ScheduleConfig struct {
	IntervalMinutes int                `mapstructure:"interval_minutes"`
	RunOnStart      bool               `mapstructure:"run_on_start"`
	ActiveWindow    ActiveWindowConfig `mapstructure:"active_window"`
	Timezone        string             `mapstructure:"timezone"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Target   TargetConfig   `mapstructure:"target"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// Load reads config.yaml from ./config or the working directory, overlays the
// environment and validates the result. A missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", "")
	v.SetDefault("target.timeout", DefaultTimeout)
	v.SetDefault("target.healthy_status", HealthyAnyResponse)
	v.SetDefault("target.user_agent", DefaultUserAgent)
	v.SetDefault("schedule.interval_minutes", DefaultIntervalMinutes)
	v.SetDefault("schedule.run_on_start", true)
	v.SetDefault("schedule.active_window.start", "00:00")
	v.SetDefault("schedule.active_window.end", "23:59")
	v.SetDefault("schedule.timezone", "")
	v.SetDefault("logging.level", LogLevelInfo)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short names used by deployments of the original pinger script.
	_ = v.BindEnv("target.url", "ENDPOINT_URL", "TARGET_URL")
	_ = v.BindEnv("schedule.interval_minutes", "INTERVAL_MINUTES", "SCHEDULE_INTERVAL_MINUTES")
	_ = v.BindEnv("schedule.active_window.start", "ACTIVE_WINDOW_START", "SCHEDULE_ACTIVE_WINDOW_START")
	_ = v.BindEnv("schedule.active_window.end", "ACTIVE_WINDOW_END", "SCHEDULE_ACTIVE_WINDOW_END")
	_ = v.BindEnv("schedule.timezone", "TIMEZONE", "SCHEDULE_TIMEZONE")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, &ConfigurationError{Err: err}
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, &ConfigurationError{Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every field. Failures are returned as *ConfigurationError.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Server),
		validation.Field(&c.Target),
		validation.Field(&c.Schedule),
		validation.Field(&c.Logging),
	)
	if err != nil {
		return &ConfigurationError{Err: err}
	}

	return nil
}

func (s ServerConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Environment,
			validation.Required,
			validation.In(EnvDev, EnvStaging, EnvProd),
		),
		validation.Field(&s.Address,
			validation.By(validateHostPort),
		),
	)
}

func (t TargetConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.URL,
			validation.Required,
			validation.By(validateEndpointURL),
		),
		validation.Field(&t.Timeout,
			validation.Required,
			validation.By(validateDuration),
		),
		validation.Field(&t.HealthyStatus,
			validation.Required,
			validation.In(HealthyAnyResponse, HealthyStatus2xx),
		),
	)
}

func (s ScheduleConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.IntervalMinutes,
			validation.Required.Error("must be a positive number of minutes"),
			validation.Min(1),
		),
		validation.Field(&s.ActiveWindow),
		validation.Field(&s.Timezone,
			validation.By(validateTimezone),
		),
	)
}

func (w ActiveWindowConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Start,
			validation.Required,
			validation.By(validateClock),
		),
		validation.Field(&w.End,
			validation.Required,
			validation.By(validateClock),
		),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level,
			validation.Required,
			validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
		),
	)
}

// Interval is the time between two ticks.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

// RequestTimeout bounds a single health-check request.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Target.Timeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultTimeout)
	}
	return d
}

// ActiveWindow returns the parsed daily window.
func (c *Config) ActiveWindow() (window.Window, error) {
	return window.New(c.Schedule.ActiveWindow.Start, c.Schedule.ActiveWindow.End)
}

// Location returns the timezone the active window is evaluated in.
func (c *Config) Location() (*time.Location, error) {
	return window.ParseLocation(c.Schedule.Timezone)
}

// EndpointURL returns the parsed target URL.
func (c *Config) EndpointURL() (*url.URL, error) {
	return url.Parse(c.Target.URL)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	// An empty address disables the status server.
	if addr == "" {
		return nil
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateDuration(value interface{}) error {
	durationStr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "must be a valid duration (e.g., 10s, 30s, 1m)")
	}

	if d <= 0 {
		return validation.NewError("validation_invalid_duration", "must be positive")
	}

	return nil
}

func validateEndpointURL(value interface{}) error {
	endpoint, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	parsedURL, err := url.Parse(endpoint)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}

func validateClock(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := window.ParseClock(s); err != nil {
		return validation.NewError("validation_invalid_clock", "must be a 24-hour time in HH:MM format")
	}

	return nil
}

func validateTimezone(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if _, err := window.ParseLocation(s); err != nil {
		return validation.NewError("validation_invalid_timezone", "must be an IANA zone name or a UTC offset like +05:30")
	}

	return nil
}
