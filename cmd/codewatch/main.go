package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codewatch/internal/config"
	"codewatch/internal/daemon"
	"codewatch/internal/database"
	"codewatch/internal/focus"
	"codewatch/internal/monitor"
	"codewatch/internal/reporter"
	"codewatch/internal/slack"
	"codewatch/internal/web"
	"codewatch/pkg/detector"
	"codewatch/pkg/sampler"
	"codewatch/pkg/window"
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

	command := os.Args[1]

	switch command {
	case "run":
		runForeground()
	case "start":
		startDaemon(false)
	case "serve":
		startDaemon(true)
	case "stop":
		stopDaemon()
	case "status":
		showStatus()
	case "report":
		generateReport()
	case "clear":
		clearJournal()
	case "version":
		fmt.Printf("codewatch version %s\n", version)
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
	fmt.Printf(`codewatch - Coding time monitor with Slack deep mode

Usage:
  codewatch <command> [options]

Commands:
  run                Run the monitor in the foreground
  start              Start the monitor daemon
  serve              Start the daemon with the web API server
  stop               Stop the monitor daemon
  status             Show daemon status and current frontmost app
  report [--json]    Show recent deep-mode engagements
  clear              Clear the engagement journal
  version            Show version information
  help               Show this help message

Examples:
  codewatch run
  codewatch serve
  codewatch status
  codewatch report --json
  codewatch stop

Environment Variables:
  CODEWATCH_CONFIG          Config file path
  CODEWATCH_SLACK_TOKEN     Slack auth token
  CODEWATCH_CODING_APPS     Comma-separated coding app patterns
  CODEWATCH_CHECK_INTERVAL  Sample interval in seconds
  CODEWATCH_DEEP_THRESHOLD  Deep mode threshold in seconds
  CODEWATCH_FOCUS_DURATION  Focus duration in minutes
  CODEWATCH_STATUS_REFRESH  Status refresh interval in seconds
  CODEWATCH_AUTO_EXPIRE     Auto-expire the focus flag (true/false)
  CODEWATCH_DB_PATH         Journal database path
  CODEWATCH_PID_FILE        PID file path

Version: %s
`, version)
}

func runForeground() {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	svc, _, cleanup := buildMonitor(cfg)
	defer cleanup()

	svc.SetStatusWriter(os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nMonitoring stopped.")
		cancel()
		svc.Stop()
	}()

	log.Println("Starting monitoring. Press Ctrl+C to exit.")
	if err := svc.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Monitor error: %v", err)
	}
}

func startDaemon(withWeb bool) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}
	if running {
		log.Fatalf("Monitor is already running (PID: %d)", pid)
	}

	if os.Getenv("CODEWATCH_DAEMON_CHILD") != "1" {
		daemonize(withWeb)
		return
	}

	runDaemon(cfg, dm, withWeb)
}

func runDaemon(cfg *config.Config, dm *daemon.Daemon, withWeb bool) {
	logFile, err := os.OpenFile("/tmp/codewatch.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	svc, repo, cleanup := buildMonitor(cfg)
	defer cleanup()

	if err := dm.WritePID(); err != nil {
		log.Fatalf("Failed to write PID file: %v", err)
	}
	defer dm.RemovePID()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var webServer *web.Server
	if withWeb {
		webServer = web.NewServer(cfg, svc, repo)
		go func() {
			if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
				log.Printf("Web server error: %v", err)
			}
		}()
	}

	go func() {
		if err := svc.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Monitor error: %v", err)
			cancel()
		}
	}()

	log.Println("Starting codewatch daemon...")
	log.Printf("Configuration:\n%s", cfg.String())

	<-sigChan
	log.Println("Received shutdown signal")

	cancel()
	svc.Stop()

	if webServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down web server: %v", err)
		}
	}

	log.Println("Daemon stopped successfully")
}

// journalRetention bounds how far back the diagnostics journal grows;
// entries older than this are pruned at startup.
const journalRetention = 90 * 24 * time.Hour

// buildMonitor wires the sampler, Slack controller and journal into a
// monitor service. The returned cleanup closes everything it opened.
func buildMonitor(cfg *config.Config) (*monitor.Service, *database.Repository, func()) {
	var closers []func()

	var repo *database.Repository
	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Printf("Journal unavailable, continuing without it: %v", err)
	} else if err := db.Initialize(); err != nil {
		log.Printf("Journal unavailable, continuing without it: %v", err)
		db.Close()
	} else {
		repo = database.NewRepository(db)
		closers = append(closers, func() { db.Close() })

		if deleted, err := repo.DeleteOldEntries(time.Now().Add(-journalRetention)); err != nil {
			log.Printf("Failed to prune old journal entries: %v", err)
		} else if deleted > 0 {
			log.Printf("Pruned %d journal entries older than %v", deleted, journalRetention)
		}
	}

	var source window.Source
	source, err = detector.New()
	if err != nil {
		log.Printf("No frontmost-app source available, samples will be Unknown: %v", err)
		source = detector.Noop()
	} else {
		log.Printf("Frontmost-app source initialized: %s", source.Name())
	}
	smp := sampler.New(source)
	closers = append(closers, func() { smp.Close() })

	if cfg.Slack.Token == "" {
		log.Println("Slack token not configured. Deep mode will be tracked locally only.")
	}

	fc := focus.NewController(slack.NewClient(cfg.Slack.Token), focus.Options{
		StatusText:      cfg.Slack.StatusText,
		StatusEmoji:     cfg.Slack.StatusEmoji,
		Duration:        cfg.Focus.Duration,
		RefreshInterval: cfg.Focus.RefreshInterval,
		AutoExpire:      cfg.Focus.AutoExpire,
	})

	svc := monitor.NewService(cfg, smp, fc, repo)

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return svc, repo, cleanup
}

func stopDaemon() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Monitor is not running")
		return
	}

	fmt.Printf("Stopping monitor (PID: %d)...\n", pid)
	if err := dm.Stop(); err != nil {
		log.Fatalf("Failed to stop monitor: %v", err)
	}

	fmt.Println("Monitor stopped successfully")
}

func showStatus() {
	cfg := config.New()
	dm := daemon.New(cfg.Daemon.PIDFile)

	running, pid, err := dm.IsRunning()
	if err != nil {
		log.Fatalf("Failed to check daemon status: %v", err)
	}

	if !running {
		fmt.Println("Status: Not running")
	} else {
		fmt.Printf("Status: Running (PID: %d)\n", pid)
		fmt.Printf("Check Interval: %v\n", cfg.Tracker.CheckInterval)
		fmt.Printf("Deep Mode Threshold: %v\n", cfg.Tracker.DeepThreshold)
	}

	if db, err := database.Connect(cfg.Database.Path); err == nil {
		repo := database.NewRepository(db)
		if last, err := repo.LatestEngageAttempt(); err == nil && last != nil {
			fmt.Printf("Last Deep Mode Engagement: %s (engaged: %v)\n",
				last.Timestamp.Format("2006-01-02 15:04:05"), last.Engaged)
		}
		db.Close()
	}

	source, err := detector.New()
	if err != nil {
		fmt.Printf("\nCould not detect frontmost app: %v\n", err)
		return
	}
	defer source.Close()

	smp := sampler.New(source)
	result := smp.Sample()
	tracker := monitor.NewTracker(cfg.Tracker.CodingApps, cfg.Tracker.CheckInterval)

	fmt.Printf("\nFrontmost App: %s (via %s)\n", result.AppName, source.Name())
	fmt.Printf("Classified As: ")
	if tracker.IsCoding(result.AppName) {
		fmt.Println("coding")
	} else {
		fmt.Println("non-coding")
	}
}

func generateReport() {
	cfg := config.New()

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	rep := reporter.New(repo)

	jsonOutput := len(os.Args) > 2 && os.Args[2] == "--json"

	attempts, err := rep.RecentEngagements(20)
	if err != nil {
		log.Fatalf("Failed to load engagements: %v", err)
	}

	if jsonOutput {
		jsonStr, err := rep.FormatJSON(attempts)
		if err != nil {
			log.Fatalf("Failed to format JSON: %v", err)
		}
		fmt.Println(jsonStr)
	} else {
		fmt.Println(rep.FormatText(attempts))
	}
}

func clearJournal() {
	cfg := config.New()

	fmt.Print("This will delete all journal entries. Are you sure? (yes/no): ")
	var response string
	fmt.Scanln(&response)

	if response != "yes" && response != "y" {
		fmt.Println("Operation cancelled")
		return
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open journal: %v", err)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	if err := repo.Clear(); err != nil {
		log.Fatalf("Failed to clear journal: %v", err)
	}

	fmt.Println("Journal cleared successfully")
}

func daemonize(withWeb bool) {
	env := os.Environ()
	env = append(env, "CODEWATCH_DAEMON_CHILD=1")

	args := os.Args

	procAttr := &os.ProcAttr{
		Env:   env,
		Files: []*os.File{nil, nil, nil}, // stdin, stdout, stderr to /dev/null
		Sys: &syscall.SysProcAttr{
			Setsid: true, // Create new session
		},
	}

	process, err := os.StartProcess(args[0], args, procAttr)
	if err != nil {
		log.Fatalf("Failed to start daemon process: %v", err)
	}

	fmt.Printf("Monitor started successfully (PID: %d)\n", process.Pid)
	if withWeb {
		fmt.Println("Web API available once the daemon is up")
	}
	fmt.Println("Logs: /tmp/codewatch.log")
}
