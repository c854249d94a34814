package config_test

import (
	"fmt"
	"time"

	"github.com/biirving/focus/internal/config"
)

// Example of creating a default configuration
func ExampleDefault() {
	cfg := config.Default()
	fmt.Println("Capture Interval:", cfg.Monitor.CaptureInterval)
	fmt.Println("Analysis Interval:", cfg.Monitor.AnalysisInterval)
	fmt.Println("Notification Style:", cfg.Notify.Style)
	// Output:
	// Capture Interval: 10s
	// Analysis Interval: 30s
	// Notification Style: system
}

// Example of validating configuration
func ExampleConfig_Validate() {
	cfg := config.Default()

	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	} else {
		fmt.Println("Configuration is valid")
	}

	cfg.Monitor.AnalysisInterval = 5 * time.Second
	if err := cfg.Validate(); err != nil {
		fmt.Println("Invalid config:", err)
	}

	// Output:
	// Configuration is valid
	// Invalid config: analysis interval (5s) cannot be less than capture interval (10s)
}
