package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Paths      PathsConfig      `mapstructure:"paths"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Occupation OccupationConfig `mapstructure:"occupation"`
	Location   LocationConfig   `mapstructure:"location"`
	Tracking   TrackingConfig   `mapstructure:"tracking"`
	Daemon     DaemonConfig     `mapstructure:"daemon"`

	// SpecialHolidays maps "DD-MM" day-month keys to a holiday label,
	// applied to every contract year (e.g. "24-12": "Heiligabend")
	SpecialHolidays map[string]string `mapstructure:"special_holidays"`
}

// PathsConfig locates the data files the tracker works with
type PathsConfig struct {
	LocalLedger     string `mapstructure:"local_ledger"`
	RemoteMirror    string `mapstructure:"remote_mirror"`
	ContractPeriods string `mapstructure:"contract_periods"`
	ManualOverrides string `mapstructure:"manual_overrides"`
}

// RemoteConfig represents the SFTP endpoint holding the shared ledger.
// An empty host disables remote synchronization.
type RemoteConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Username   string `mapstructure:"username"`
	Password   string `mapstructure:"password"`
	KeyFile    string `mapstructure:"key_file"`
	RemotePath string `mapstructure:"remote_path"`
}

// OccupationConfig represents the set of trackable occupations
type OccupationConfig struct {
	Occupations    []string `mapstructure:"occupations"`
	LastOccupation string   `mapstructure:"last_occupation"`
}

// LocationConfig selects the public holiday calendar
type LocationConfig struct {
	Country     string `mapstructure:"country"`
	Subdivision string `mapstructure:"subdivision"`
}

// TrackingConfig tunes the session tracking loop
type TrackingConfig struct {
	TickInterval string `mapstructure:"tick_interval"`
	PushEvery    int    `mapstructure:"push_every"`
	ShortBreak   string `mapstructure:"short_break"`
	MinSession   string `mapstructure:"min_session"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	LogFile    string `mapstructure:"log_file"`
	LogLevel   string `mapstructure:"log_level"`
	SystemTray bool   `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.work-tracker")
		v.AddConfigPath("/etc/work-tracker")
	}

	// Read environment variables
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Paths.LocalLedger == "" {
		return fmt.Errorf("paths.local_ledger is required")
	}

	if c.Remote.Host != "" {
		if c.Remote.Username == "" {
			return fmt.Errorf("remote.username is required when remote.host is set")
		}
		if c.Remote.RemotePath == "" {
			return fmt.Errorf("remote.remote_path is required when remote.host is set")
		}
		if c.Remote.Password == "" && c.Remote.KeyFile == "" {
			return fmt.Errorf("remote.password or remote.key_file is required when remote.host is set")
		}
		if c.Paths.RemoteMirror == "" {
			return fmt.Errorf("paths.remote_mirror is required when remote.host is set")
		}
	}

	if len(c.Occupation.Occupations) == 0 {
		return fmt.Errorf("occupation.occupations must list at least one occupation")
	}
	if c.Occupation.LastOccupation != "" && !c.HasOccupation(c.Occupation.LastOccupation) {
		return fmt.Errorf("occupation.last_occupation '%s' is not in occupation.occupations",
			c.Occupation.LastOccupation)
	}

	if c.Tracking.PushEvery < 0 {
		return fmt.Errorf("tracking.push_every must not be negative")
	}

	return nil
}

// HasOccupation reports whether tag is one of the configured occupations
func (c *Config) HasOccupation(tag string) bool {
	for _, occ := range c.Occupation.Occupations {
		if occ == tag {
			return true
		}
	}
	return false
}

// ActiveOccupation returns the occupation to resume tracking with
func (c *Config) ActiveOccupation() string {
	if c.Occupation.LastOccupation != "" {
		return c.Occupation.LastOccupation
	}
	return c.Occupation.Occupations[0]
}

// GetPort returns the SFTP port, defaulting to 22
func (c *RemoteConfig) GetPort() int {
	if c.Port <= 0 {
		return 22
	}
	return c.Port
}

// GetTickInterval returns the tracking tick interval duration
func (c *TrackingConfig) GetTickInterval() time.Duration {
	if c.TickInterval == "" {
		return time.Minute
	}
	duration, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return time.Minute
	}
	return duration
}

// GetPushEvery returns how many ticks pass between remote pushes
func (c *TrackingConfig) GetPushEvery() int {
	if c.PushEvery <= 0 {
		return 10
	}
	return c.PushEvery
}

// GetShortBreak returns the break duration still counted as one session
func (c *TrackingConfig) GetShortBreak() time.Duration {
	if c.ShortBreak == "" {
		return 10 * time.Minute
	}
	duration, err := time.ParseDuration(c.ShortBreak)
	if err != nil {
		return 10 * time.Minute
	}
	return duration
}

// GetMinSession returns the duration below which sessions are dropped
func (c *TrackingConfig) GetMinSession() time.Duration {
	if c.MinSession == "" {
		return time.Minute
	}
	duration, err := time.ParseDuration(c.MinSession)
	if err != nil {
		return time.Minute
	}
	return duration
}
