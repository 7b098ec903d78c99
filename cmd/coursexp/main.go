package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/coursexp/api"
	"github.com/gcbaptista/coursexp/config"
	"github.com/gcbaptista/coursexp/internal/engine"
	"github.com/gcbaptista/coursexp/internal/tui"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
		mode       = flag.String("mode", "serve", "What to run: serve, browse or ingest")
		configPath = flag.String("config", "", "Optional YAML configuration file")
		port       = flag.String("port", "", "Port to run the server on (overrides config and PORT)")
		logFile    = flag.String("log-file", "", "Write logs here while browsing (default: discard)")
	)

	flag.Parse()

	if *help {
		fmt.Printf("Course Experiences - browse and serve course reviews collected from a Telegram channel\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Serve data.json on port 8080\n", os.Args[0])
		fmt.Printf("  %s --mode browse                # Browse reviews in the terminal\n", os.Args[0])
		fmt.Printf("  BOT_TOKEN=... %s --mode ingest  # Poll the channel once\n", os.Args[0])
		return
	}

	if *showVer {
		fmt.Printf("coursexp v%s\n", version)
		return
	}

	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		settings.Server.Port = *port
	}

	switch *mode {
	case "serve":
		err = serve(settings)
	case "browse":
		err = browse(settings, *logFile)
	case "ingest":
		err = ingestOnce(settings)
	default:
		err = fmt.Errorf("unknown mode %q (want serve, browse or ingest)", *mode)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func serve(settings config.Settings) error {
	catalogue, err := engine.NewCatalogue(settings)
	if err != nil {
		return fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer catalogue.Close()

	router := api.NewRouter(settings.Server.MaxBodyBytes)
	api.SetupRoutes(router, catalogue)

	server := &http.Server{
		Addr:              ":" + settings.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on port %s...", settings.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Printf("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func browse(settings config.Settings, logFile string) error {
	// The terminal belongs to the browser; logs go to a file or nowhere.
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "coursexp")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	catalogue, err := engine.NewCatalogue(settings)
	if err != nil {
		return fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer catalogue.Close()

	return tui.Run(catalogue)
}

func ingestOnce(settings config.Settings) error {
	catalogue, err := engine.NewCatalogue(settings)
	if err != nil {
		return fmt.Errorf("failed to open catalogue: %w", err)
	}
	defer catalogue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := catalogue.Ingest(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	if result.Added == 0 {
		fmt.Printf("No new reviews (%d updates checked)\n", result.Updates)
		return nil
	}
	fmt.Printf("Added %d new reviews; last update %s\n", result.Added, result.LastUpdate)
	return nil
}
