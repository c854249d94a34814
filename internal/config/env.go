package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override defaults and file values.
func LoadFromEnv(cfg *Config) {
	// Database configuration
	if dbPath := os.Getenv("FOCUS_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Monitor configuration
	if v := os.Getenv("FOCUS_CAPTURE_INTERVAL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.Monitor.CaptureInterval = time.Duration(seconds) * time.Second
		}
	}

	if v := os.Getenv("FOCUS_ANALYSIS_INTERVAL"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.Monitor.AnalysisInterval = time.Duration(seconds) * time.Second
		}
	}

	if v := os.Getenv("FOCUS_CLASSIFIER_TIMEOUT"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			cfg.Monitor.ClassifierTimeout = time.Duration(seconds) * time.Second
		}
	}

	if cmd := os.Getenv("FOCUS_CAPTURE_COMMAND"); cmd != "" {
		cfg.Monitor.CaptureCommand = cmd
	}

	if cmd := os.Getenv("FOCUS_CLASSIFIER_COMMAND"); cmd != "" {
		cfg.Monitor.ClassifierCommand = cmd
	}

	// Notification configuration
	if v := os.Getenv("FOCUS_NOTIFICATION_COOLDOWN"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			cfg.Notify.Cooldown = time.Duration(seconds) * time.Second
		}
	}

	if v := os.Getenv("FOCUS_ESCALATION_DELAY"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds >= 0 {
			cfg.Notify.EscalationDelay = time.Duration(seconds) * time.Second
		}
	}

	if style := os.Getenv("FOCUS_NOTIFICATION_STYLE"); style != "" {
		cfg.Notify.Style = style
	}

	if cmd := os.Getenv("FOCUS_NOTIFICATION_COMMAND"); cmd != "" {
		cfg.Notify.Command = cmd
	}

	// Rules configuration
	if rulesPath := os.Getenv("FOCUS_RULES_FILE"); rulesPath != "" {
		cfg.Rules.Path = rulesPath
	}

	// Daemon configuration
	if pidFile := os.Getenv("FOCUS_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	// Web configuration
	if webHost := os.Getenv("FOCUS_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("FOCUS_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}

	if v := os.Getenv("FOCUS_VERBOSE"); v != "" {
		if verbose, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = verbose
		}
	}
}

// New creates a Config from defaults, the optional YAML file, and the
// environment, in that order of precedence.
func New(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		configPath = "config.yaml"
	}
	if err := LoadFile(cfg, configPath); err != nil {
		return nil, err
	}
	LoadFromEnv(cfg)
	return cfg, nil
}
