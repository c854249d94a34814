package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/biirving/focus/internal/activity"
	"github.com/biirving/focus/internal/capture"
	"github.com/biirving/focus/internal/classifier"
	"github.com/biirving/focus/internal/config"
	"github.com/biirving/focus/internal/daemon"
	"github.com/biirving/focus/internal/database"
	"github.com/biirving/focus/internal/logging"
	"github.com/biirving/focus/internal/models"
	"github.com/biirving/focus/internal/monitor"
	"github.com/biirving/focus/internal/notify"
	"github.com/biirving/focus/internal/rules"
	"github.com/biirving/focus/internal/summary"
	"github.com/biirving/focus/internal/web"
)

var (
	version = "0.1.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Optional .env for FOCUS_* variables.
	_ = godotenv.Load()

	command := os.Args[1]

	switch command {
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "summary":
		generateSummary()
	case "report":
		showReport()
	case "clear":
		clearDatabase()
	case "version":
		fmt.Printf("focus version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`focus - on-screen attention monitor with escalating reminders

Usage:
  focus <command> [options]

Commands:
  start              Start the monitoring daemon
  serve              Start the daemon with the status web API
  stop               Stop the monitoring daemon
  status             Show daemon status and current focus state
  summary [date]     Generate the daily summary (default: today; --json for JSON)
  report [days]      List recent daily summaries (default: 7 days)
  clear              Clear all recorded data from the database
  version            Show version information
  help               Show this help message

Examples:
  focus start
  focus status
  focus summary 2026-08-28
  focus report 14
  focus stop

Environment Variables:
  FOCUS_CONFIG                 Config file path (default config.yaml)
  FOCUS_DB_PATH                Database file path
  FOCUS_RULES_FILE             Rules file path
  FOCUS_CAPTURE_INTERVAL       Capture cadence in seconds
  FOCUS_ANALYSIS_INTERVAL      Analysis cadence in seconds
  FOCUS_CLASSIFIER_COMMAND     External classifier helper command
  FOCUS_CAPTURE_COMMAND        External capture helper command
  FOCUS_NOTIFICATION_COMMAND   External notification renderer command
  FOCUS_NOTIFICATION_COOLDOWN  Seconds between notifications
  FOCUS_ESCALATION_DELAY       Off-task seconds before urgent alerts

Version: %s
`, version)
}

func loadConfig() *config.Config {
	cfg, err := config.New(os.Getenv("FOCUS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func mustLogger(cfg *config.Config, toFile bool) *logging.Logger {
	var log *logging.Logger
	var err error
	if toFile {
		log, err = logging.New(cfg.Verbose, cfg.Daemon.LogFile)
	} else {
		log, err = logging.New(cfg.Verbose)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

func startDaemon(withWeb bool) {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Monitor.ClassifierCommand == "" || cfg.Monitor.CaptureCommand == "" {
		fmt.Fprintln(os.Stderr, "classifier_command and capture_command must be configured")
		os.Exit(1)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to check daemon status: %v\n", err)
		os.Exit(1)
	}
	if running {
		fmt.Fprintf(os.Stderr, "Daemon is already running (PID: %d)\n", pid)
		os.Exit(1)
	}

	if os.Getenv("FOCUS_DAEMON_CHILD") != "1" {
		daemonize(cfg, withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	log := mustLogger(cfg, true)
	defer log.Sync()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatal("failed to initialize database", "error", err)
	}

	if err := dm.WritePID(); err != nil {
		log.Fatal("failed to write PID file", "error", err)
	}
	defer dm.RemovePID()

	activityRepo := activity.NewRepository(db)
	summaryRepo := summary.NewRepository(db)
	summarySvc := summary.NewService(cfg, activityRepo, summaryRepo, log)
	ruleSource := rules.NewSource(cfg.Rules.Path, log)

	var dispatcher notify.Dispatcher
	if cfg.Notify.Command != "" {
		dispatcher = notify.NewCommandDispatcher(cfg.Notify.Command)
	} else {
		dispatcher = notify.NewLogDispatcher(log)
	}

	mon := monitor.NewService(
		cfg,
		log,
		capture.NewCommandSource(cfg.Monitor.CaptureCommand),
		classifier.NewCommandClassifier(cfg.Monitor.ClassifierCommand),
		dispatcher,
		ruleSource,
		activity.NewLog(activityRepo, log),
		summarySvc,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var webServer *web.Server
	if withWeb {
		handler := web.NewHandler(log, mon, activityRepo, summaryRepo)
		webServer = web.NewServer(cfg, log, handler)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Error("web server error", "error", err)
			}
		}()
	}

	go func() {
		<-sigChan
		log.Info("received shutdown signal")
		cancel()
		mon.Stop()
	}()

	log.Info("starting focus daemon", "version", version)
	log.Info("configuration loaded", "config", cfg.String())

	if err := mon.Start(ctx); err != nil && err != context.Canceled {
		log.Error("monitor error", "error", err)
	}

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down web server", "error", err)
		}
	}

	log.Info("daemon stopped")
}

func stopDaemon() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to check daemon status: %v\n", err)
		os.Exit(1)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return
	}

	fmt.Printf("Stopping daemon (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop daemon: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Daemon stopped successfully")
}

func showStatus() {
	cfg := loadConfig()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to check daemon status: %v\n", err)
		os.Exit(1)
	}

	if !running {
		fmt.Println("Status: Not running")
		return
	}

	fmt.Printf("Status: Running (PID: %d)\n", pid)
	fmt.Printf("Analysis Interval: %v\n", cfg.Monitor.AnalysisInterval)
	fmt.Printf("Rules: %s\n", cfg.Rules.Path)

	// The serve mode exposes the live snapshot over the status API.
	url := fmt.Sprintf("http://%s:%d/api/status", cfg.Web.Host, cfg.Web.Port)
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	var snap monitor.Snapshot
	if err := decodeJSON(resp, &snap); err != nil {
		return
	}

	fmt.Printf("\nCurrent State:\n")
	fmt.Printf("  Focus: %s (since %s)\n", snap.State.Status, snap.State.StatusSince.Format("15:04:05"))
	if snap.State.Status == models.StatusOffTask {
		fmt.Printf("  Off task for: %v\n", snap.State.ConsecutiveOffTask.Round(time.Second))
		fmt.Printf("  Escalation: %s\n", snap.State.EscalationLevel)
	}
	if snap.LastActivity != "" {
		fmt.Printf("  Activity: %s\n", snap.LastActivity)
	}
	for _, b := range snap.OverBudget {
		fmt.Printf("  Over budget: %s (%.0f/%d min)\n", b.Subject, b.UsedMinutes, b.MaxMinutes)
	}
}

func generateSummary() {
	cfg := loadConfig()

	day := time.Now()
	jsonOutput := false
	for _, arg := range os.Args[2:] {
		if arg == "--json" {
			jsonOutput = true
			continue
		}
		parsed, err := time.ParseInLocation(models.DateLayout, arg, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid date %q (want YYYY-MM-DD)\n", arg)
			os.Exit(1)
		}
		day = parsed
	}

	log := mustLogger(cfg, false)
	defer log.Sync()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}

	svc := summary.NewService(cfg, activity.NewRepository(db), summary.NewRepository(db), log)
	sum, err := svc.Generate(day)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate summary: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		out, err := summary.FormatJSON(sum)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to format JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(out)
	} else {
		fmt.Print(summary.FormatText(sum))
	}
}

func showReport() {
	cfg := loadConfig()

	days := 7
	if len(os.Args) > 2 {
		if _, err := fmt.Sscanf(os.Args[2], "%d", &days); err != nil || days < 1 {
			fmt.Fprintf(os.Stderr, "Invalid day count %q\n", os.Args[2])
			os.Exit(1)
		}
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	summaries, err := summary.NewRepository(db).RecentDays(days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load summaries: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(summary.FormatRecent(summaries))
}

func clearDatabase() {
	cfg := loadConfig()

	fmt.Print("This will delete all recorded data. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := activity.NewRepository(db).Clear(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to clear activity log: %v\n", err)
		os.Exit(1)
	}
	if err := db.Exec("DELETE FROM daily_summaries").Error; err != nil {
		fmt.Fprintf(os.Stderr, "Failed to clear summaries: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database cleared successfully")
}

func decodeJSON(resp *http.Response, v interface{}) error {
	return json.NewDecoder(resp.Body).Decode(v)
}

func daemonize(cfg *config.Config, withWeb bool) {
	env := os.Environ()
	env = append(env, "FOCUS_DAEMON_CHILD=1")

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}

	process, err := os.StartProcess(os.Args[0], os.Args, procAttr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start daemon process: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Daemon started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Printf("Status API: http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	}
	fmt.Printf("Logs: %s\n", cfg.Daemon.LogFile)
}
