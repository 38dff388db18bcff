package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rxtech-lab/cryptogene-deployer/internal/config"
	"github.com/rxtech-lab/cryptogene-deployer/internal/models"
	"github.com/rxtech-lab/cryptogene-deployer/internal/server"
)

// Build information (set via ldflags)
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

var errHistoryDisabled = errors.New("history is disabled, set DEPLOY_HISTORY_DB")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code. Only a
// successful deployment writes to stdout.
func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("deploy", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var showVersion = flags.Bool("version", false, "Show version information")
	var showHelp = flags.Bool("help", false, "Show help information")
	var enableLog = flags.Bool("log", false, "Enable logging output")
	var pretty = flags.Bool("pretty", false, "Indent the JSON output")
	var showHistory = flags.Bool("history", false, "Print recorded deployments and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	// Disable logging by default
	if *enableLog {
		log.SetOutput(stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if *showVersion {
		fmt.Fprintf(stdout, "Cryptogene Deployer\n")
		fmt.Fprintf(stdout, "Version: %s\n", Version)
		fmt.Fprintf(stdout, "Commit: %s\n", CommitHash)
		fmt.Fprintf(stdout, "Built: %s\n", BuildTime)
		return 0
	}

	if *showHelp {
		fmt.Fprintf(stdout, "Cryptogene Deployer\n\n")
		fmt.Fprintf(stdout, "Usage: deploy [options]\n\n")
		fmt.Fprintf(stdout, "Options:\n")
		fmt.Fprintf(stdout, "  --version    Show version information\n")
		fmt.Fprintf(stdout, "  --help       Show this help message\n")
		fmt.Fprintf(stdout, "  --log        Enable logging output\n")
		fmt.Fprintf(stdout, "  --pretty     Indent the JSON output\n")
		fmt.Fprintf(stdout, "  --history    Print recorded deployments and exit\n\n")
		fmt.Fprintf(stdout, "Environment:\n")
		fmt.Fprintf(stdout, "  DEPLOY_NETWORK     %v (default neondevnet)\n", config.NetworkIDs())
		fmt.Fprintf(stdout, "  DEPLOY_CONTRACT    contract to deploy (default Cryptogene)\n")
		fmt.Fprintf(stdout, "  PRIVATE_KEY        deployer key, or <NETWORK>_PRIVATE_KEY\n")
		fmt.Fprintf(stdout, "  DEPLOY_HISTORY_DB  SQLite path or postgres:// DSN for the deployment history\n")
		return 0
	}

	cfg, err := config.Load(getenv)
	if err != nil {
		return exitErr(stderr, err)
	}

	if *showHistory {
		if err := printHistory(cfg, stdout, *pretty); err != nil {
			return exitErr(stderr, err)
		}
		return 0
	}

	svc, err := server.InitializeServices(ctx, cfg, *pretty)
	if err != nil {
		return exitErr(stderr, err)
	}
	defer svc.Close()

	if _, err := svc.Deployment.Run(ctx, stdout); err != nil {
		return exitErr(stderr, err)
	}
	return 0
}

func printHistory(cfg *config.Config, w io.Writer, pretty bool) error {
	dbService, history, err := server.InitializeHistory(cfg)
	if err != nil {
		return err
	}
	if history == nil {
		return errHistoryDisabled
	}
	defer dbService.Close()

	records, err := history.ListDeployments()
	if err != nil {
		return fmt.Errorf("failed to list deployments: %w", err)
	}
	if records == nil {
		records = []models.DeploymentRecord{}
	}

	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

func exitErr(stderr io.Writer, err error) int {
	log.SetOutput(stderr)
	log.SetFlags(0)
	log.Printf("Deployment failed: %v", err)
	return 1
}
