package config

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk YAML schema. Durations are plain seconds so the
// file stays hand-editable.
type fileConfig struct {
	DatabasePath      string `yaml:"database_path"`
	CaptureInterval   *int   `yaml:"capture_interval"`
	AnalysisInterval  *int   `yaml:"analysis_interval"`
	ClassifierTimeout *int   `yaml:"classifier_timeout"`

	CaptureCommand    string `yaml:"capture_command"`
	ClassifierCommand string `yaml:"classifier_command"`

	NotificationCooldown *int   `yaml:"notification_cooldown"`
	EscalationDelay      *int   `yaml:"escalation_delay"`
	NotificationStyle    string `yaml:"notification_style"`
	NotificationCommand  string `yaml:"notification_command"`

	RulesFile    string `yaml:"rules_file"`
	BaselineDays *int   `yaml:"baseline_days"`

	PIDFile string `yaml:"pid_file"`
	LogFile string `yaml:"log_file"`

	WebHost string `yaml:"web_host"`
	WebPort *int   `yaml:"web_port"`

	Verbose *bool `yaml:"verbose"`
}

// LoadFile overlays values from a YAML config file onto cfg. A missing file
// is not an error; a malformed one is.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	if fc.DatabasePath != "" {
		cfg.Database.Path = fc.DatabasePath
	}
	if fc.CaptureInterval != nil {
		cfg.Monitor.CaptureInterval = time.Duration(*fc.CaptureInterval) * time.Second
	}
	if fc.AnalysisInterval != nil {
		cfg.Monitor.AnalysisInterval = time.Duration(*fc.AnalysisInterval) * time.Second
	}
	if fc.ClassifierTimeout != nil {
		cfg.Monitor.ClassifierTimeout = time.Duration(*fc.ClassifierTimeout) * time.Second
	}
	if fc.CaptureCommand != "" {
		cfg.Monitor.CaptureCommand = fc.CaptureCommand
	}
	if fc.ClassifierCommand != "" {
		cfg.Monitor.ClassifierCommand = fc.ClassifierCommand
	}
	if fc.NotificationCooldown != nil {
		cfg.Notify.Cooldown = time.Duration(*fc.NotificationCooldown) * time.Second
	}
	if fc.EscalationDelay != nil {
		cfg.Notify.EscalationDelay = time.Duration(*fc.EscalationDelay) * time.Second
	}
	if fc.NotificationStyle != "" {
		cfg.Notify.Style = fc.NotificationStyle
	}
	if fc.NotificationCommand != "" {
		cfg.Notify.Command = fc.NotificationCommand
	}
	if fc.RulesFile != "" {
		cfg.Rules.Path = fc.RulesFile
	}
	if fc.BaselineDays != nil {
		cfg.Summary.BaselineDays = *fc.BaselineDays
	}
	if fc.PIDFile != "" {
		cfg.Daemon.PIDFile = fc.PIDFile
	}
	if fc.LogFile != "" {
		cfg.Daemon.LogFile = fc.LogFile
	}
	if fc.WebHost != "" {
		cfg.Web.Host = fc.WebHost
	}
	if fc.WebPort != nil {
		cfg.Web.Port = *fc.WebPort
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}

	return nil
}
