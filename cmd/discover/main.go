// Package main provides the discover command-line tool that turns a CSV feed
// of candidate phishing URLs into a findings file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"phishtakedown/internal/config"
	"phishtakedown/internal/formatter"
	"phishtakedown/internal/ingest"
	"phishtakedown/internal/logger"
	"phishtakedown/internal/normalizer"
	"phishtakedown/pkg/metadata"
)

const appName = "phish-takedown-orchestrator"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inputPath := fs.String("input", "", "Path to input CSV with a url column (and optional source column)")
	outputPath := fs.String("output", "", "Path to output findings JSONL file")
	configPath := fs.String("config", "", "Path to YAML config file (optional)")
	dedupBy := fs.String("dedup-by", "", "Dedup key: domain or url")
	showVersion := fs.Bool("version", false, "Show the application's version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s v%s\n", appName, version)

		return exitOK
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)

		return exitUsage
	}

	// Flags override file and environment.
	if *inputPath != "" {
		cfg.Discovery.Input = *inputPath
	}

	if *outputPath != "" {
		cfg.Discovery.Output = *outputPath
	}

	if *dedupBy != "" {
		cfg.Discovery.DedupBy = *dedupBy
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitUsage
	}

	if cfg.Discovery.Input == "" {
		fmt.Fprintln(stderr, "Usage: discover -input <seed.csv> [-output <findings.jsonl>] [-config <file.yaml>] [-dedup-by domain|url]")
		fs.PrintDefaults()

		return exitUsage
	}

	key, err := normalizer.ParseDedupKey(cfg.Discovery.DedupBy)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)

		return exitUsage
	}

	log := logger.NewLoggerWithOptions(logger.Options{
		Writer:     stderr,
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer log.Close()

	log.Info("starting discovery", "version", version, "config", cfg.String())

	if err := cfg.Paths.Ensure(); err != nil {
		log.Error("cannot prepare working directories", "root", cfg.Paths.Root, "error", err)

		return exitFailure
	}

	return discover(cfg, key, log, stdout)
}

func discover(cfg *config.Config, key normalizer.DedupKey, log *logger.Logger, stdout io.Writer) int {
	startedAt := time.Now().UTC()
	output := cfg.OutputPath()

	rows, err := ingest.ReadFile(cfg.Discovery.Input)
	if err != nil {
		logFatal(log, err)

		return exitFailure
	}

	ingestor := ingest.NewIngestor(ingest.Options{
		Logger:  log,
		DedupBy: key,
	})
	result := ingestor.Run(rows)

	written, err := ingest.PersistFile(output, result.Findings)
	if err != nil {
		logFatal(log, err)

		return exitFailure
	}

	log.Info("findings written", "run_id", result.RunID, "path", output, "count", written)

	if cfg.Discovery.WriteManifest {
		manifest := &metadata.Manifest{
			RunID:      result.RunID,
			Input:      cfg.Discovery.Input,
			Output:     output,
			StartedAt:  startedAt,
			FinishedAt: time.Now().UTC(),
			Report:     result.Report,
			Written:    written,
		}

		if err := manifest.Sign(); err != nil {
			log.Error("cannot sign manifest", "run_id", result.RunID, "error", err)

			return exitFailure
		}

		path, err := manifest.Write(cfg.Paths.RunsDir())
		if err != nil {
			log.Error("cannot write manifest", "run_id", result.RunID, "error", err)

			return exitFailure
		}

		log.Info("manifest written", "path", path)
	}

	fmt.Fprint(stdout, formatter.RenderReport(result.Report, result.Rejections))
	fmt.Fprintf(stdout, "\nAccepted %d findings -> %s\n", written, output)

	return exitOK
}

// logFatal names the resource behind a run-level failure.
func logFatal(log *logger.Logger, err error) {
	if failure, ok := ingest.IsIOFailure(err); ok {
		log.Error("discovery aborted", "op", string(failure.Op), "path", failure.Path, "error", failure.Err)

		return
	}

	log.Error("discovery aborted", "error", err)
}
