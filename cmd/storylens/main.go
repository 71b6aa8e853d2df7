// cmd/storylens/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/storylens/storylens/internal/config"
	"github.com/storylens/storylens/internal/output"
	"github.com/storylens/storylens/internal/utils"
	"github.com/storylens/storylens/pkg/api"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// main handles CLI arguments and routes to the appropriate command.
func main() {
	// .env is optional; explicit environment always wins.
	godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "run":
		runExtract(os.Args[2:])

	case "serve":
		runServe(os.Args[2:])

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Error: config file required\n")
			fmt.Fprintf(os.Stderr, "Usage: storylens validate <config.yaml>\n")
			os.Exit(1)
		}
		validateConfig(os.Args[2])

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runExtract reads a raw tray envelope (file or stdin), extracts every
// item and writes the records through the configured output.
func runExtract(args []string) {
	opts := parseFlags(args)

	cfg := loadConfig(opts.configFile)
	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))
	if opts.verbose {
		logger = utils.NewLoggerWithLevel(utils.DebugLevel)
	}

	envelope, err := readEnvelope(opts.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client, err := api.NewClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go client.Metrics().StartMetricsServer(ctx, cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	records, err := client.ExtractEnvelope(ctx, envelope, opts.userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	manager, err := output.NewManager(&cfg.Output, client.Metrics())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := manager.Write(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write records: %v\n", err)
		os.Exit(1)
	}

	logger.WithField("records", len(records)).Info("extraction complete")
}

// runServe starts the HTTP API, reloading configuration on file changes.
func runServe(args []string) {
	opts := parseFlags(args)

	cfg := loadConfig(opts.configFile)
	logger := utils.NewLoggerWithLevel(utils.ParseLogLevel(cfg.LogLevel))
	if opts.verbose {
		logger = utils.NewLoggerWithLevel(utils.DebugLevel)
	}

	client, err := api.NewClient(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		go client.Metrics().StartMetricsServer(ctx, cfg.Metrics.ListenAddress, cfg.Metrics.Path)
	}

	if opts.configFile != "" {
		watcher, err := config.NewWatcher(opts.configFile)
		if err != nil {
			logger.WithField("error", err).Warn("config watcher unavailable")
		} else {
			defer watcher.Close()
			watcher.OnChange(func(updated *config.Config) {
				if !opts.verbose {
					if std, ok := logger.(*utils.StdLogger); ok {
						std.SetLevel(utils.ParseLogLevel(updated.LogLevel))
					}
				}
				logger.Info("configuration reloaded; log level applied, restart to apply server changes")
			})
		}
	}

	server := api.NewServer(client, cfg.Server, logger)
	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// validateConfig checks a configuration file and reports the result.
func validateConfig(configFile string) {
	if _, err := config.LoadFromFile(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration file '%s' is valid\n", configFile)
}

// cliOptions are the flags shared by run and serve.
type cliOptions struct {
	configFile string
	input      string
	userID     string
	verbose    bool
}

// parseFlags scans args for the supported flags. Unknown flags abort.
func parseFlags(args []string) cliOptions {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-c", "--config":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --config requires a path")
				os.Exit(1)
			}
			opts.configFile = args[i]
		case "-i", "--input":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --input requires a path")
				os.Exit(1)
			}
			opts.input = args[i]
		case "-u", "--user":
			i++
			if i >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --user requires an id")
				os.Exit(1)
			}
			opts.userID = args[i]
		case "-v", "--verbose":
			opts.verbose = true
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown flag '%s'\n", args[i])
			printUsage()
			os.Exit(1)
		}
	}
	return opts
}

// loadConfig loads the file when given, otherwise the built-in defaults.
func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// readEnvelope reads the raw tray JSON from a file or stdin ("-" or
// empty).
func readEnvelope(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return data, nil
}

// printUsage displays help information.
func printUsage() {
	fmt.Println("StoryLens - Story Record Extraction Engine")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  storylens run [flags]           Extract records from a raw tray envelope")
	fmt.Println("  storylens serve [flags]         Start the HTTP extraction API")
	fmt.Println("  storylens validate <config>     Validate a configuration file")
	fmt.Println("  storylens version               Show version information")
	fmt.Println("  storylens help                  Show this help message")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -c, --config <path>             Configuration file (YAML)")
	fmt.Println("  -i, --input <path>              Envelope JSON file (default: stdin)")
	fmt.Println("  -u, --user <id>                 Tray owner user id")
	fmt.Println("  -v, --verbose                   Enable debug logging")
}

// printVersion displays version information.
func printVersion() {
	fmt.Printf("StoryLens %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
