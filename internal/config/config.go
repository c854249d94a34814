package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Monitor (capture/analysis cadence) configuration
	Monitor MonitorConfig

	// Notification configuration
	Notify NotifyConfig

	// Rule source configuration
	Rules RulesConfig

	// Daily summary configuration
	Summary SummaryConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig

	// Verbose enables debug-level logging
	Verbose bool
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// MonitorConfig holds control-loop cadence configuration
type MonitorConfig struct {
	CaptureInterval   time.Duration // How often a screen capture is taken
	AnalysisInterval  time.Duration // How often a classification is performed
	ClassifierTimeout time.Duration // Upper bound on a single classifier call
	CaptureCommand    string        // External command producing capture file paths
	ClassifierCommand string        // External command performing classification
}

// NotifyConfig holds notification and escalation configuration
type NotifyConfig struct {
	Cooldown        time.Duration // Minimum gap between notifications
	EscalationDelay time.Duration // Continuous off-task time before urgent
	Style           string        // "system" or "banner"
	Command         string        // External dispatcher command; empty logs instead
}

// RulesConfig holds rule-file configuration
type RulesConfig struct {
	Path string // Path to the free-form rules file
}

// SummaryConfig holds daily summary configuration
type SummaryConfig struct {
	BaselineDays int // How many prior days feed the rolling baseline
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
	LogFile string // Path the forked child redirects its logs to
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/focus/focus.db
		},
		Monitor: MonitorConfig{
			CaptureInterval:   10 * time.Second,
			AnalysisInterval:  30 * time.Second,
			ClassifierTimeout: 25 * time.Second,
		},
		Notify: NotifyConfig{
			Cooldown:        120 * time.Second,
			EscalationDelay: 120 * time.Second,
			Style:           "system",
		},
		Rules: RulesConfig{
			Path: "rules.md",
		},
		Summary: SummaryConfig{
			BaselineDays: 30,
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/focus-%d.pid", os.Getuid()),
			LogFile: "/tmp/focus.log",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid. It runs before the control
// loop starts; any error here is fatal at startup, never deferred to first use.
func (c *Config) Validate() error {
	if c.Monitor.CaptureInterval <= 0 {
		return fmt.Errorf("capture interval must be positive, got %v", c.Monitor.CaptureInterval)
	}

	if c.Monitor.AnalysisInterval <= 0 {
		return fmt.Errorf("analysis interval must be positive, got %v", c.Monitor.AnalysisInterval)
	}

	if c.Monitor.AnalysisInterval < c.Monitor.CaptureInterval {
		return fmt.Errorf("analysis interval (%v) cannot be less than capture interval (%v)",
			c.Monitor.AnalysisInterval, c.Monitor.CaptureInterval)
	}

	if c.Monitor.ClassifierTimeout <= 0 {
		return fmt.Errorf("classifier timeout must be positive, got %v", c.Monitor.ClassifierTimeout)
	}

	if c.Notify.Cooldown < 0 {
		return fmt.Errorf("notification cooldown cannot be negative, got %v", c.Notify.Cooldown)
	}

	if c.Notify.EscalationDelay < 0 {
		return fmt.Errorf("escalation delay cannot be negative, got %v", c.Notify.EscalationDelay)
	}

	if c.Notify.Style != "system" && c.Notify.Style != "banner" {
		return fmt.Errorf("notification style must be \"system\" or \"banner\", got %q", c.Notify.Style)
	}

	if c.Rules.Path == "" {
		return fmt.Errorf("rules path cannot be empty")
	}

	if c.Summary.BaselineDays < 1 {
		return fmt.Errorf("baseline days must be at least 1, got %d", c.Summary.BaselineDays)
	}

	// Validate web config
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	// Validate daemon config
	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Monitor:
    Capture Interval: %v
    Analysis Interval: %v
    Classifier Timeout: %v
  Notify:
    Cooldown: %v
    Escalation Delay: %v
    Style: %s
  Rules:
    Path: %s
  Summary:
    Baseline Days: %d
  Daemon:
    PID File: %s
    Log File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Monitor.CaptureInterval,
		c.Monitor.AnalysisInterval,
		c.Monitor.ClassifierTimeout,
		c.Notify.Cooldown,
		c.Notify.EscalationDelay,
		c.Notify.Style,
		c.Rules.Path,
		c.Summary.BaselineDays,
		c.Daemon.PIDFile,
		c.Daemon.LogFile,
		c.Web.Host,
		c.Web.Port,
	)
}
