package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"arbscan/config"
	"arbscan/internal/botapi"
	"arbscan/internal/models"
	"arbscan/internal/pairs"
	"arbscan/internal/report"
	"arbscan/internal/scan"
	"arbscan/internal/venues"
	"arbscan/logger"
	"arbscan/writer"
)

func main() {
	log := logger.GetLogger()

	base := flag.String("base", "", "Base token aliases, comma-separated (e.g. BTC,WBTC)")
	quote := flag.String("quote", "", "Quote token aliases, comma-separated (e.g. USDT,USDC)")
	connectors := flag.String("connectors", "", "Connectors to scan, comma-separated (default: all available)")
	minSpread := flag.Float64("min-spread", 0, "Minimum spread percentage to report")
	jsonOut := flag.Bool("json", false, "Emit the machine-readable JSON document on stdout")
	top := flag.Int("top", 0, "Number of opportunities to show (0 = default)")
	export := flag.Bool("export", false, "Write a parquet snapshot of the collected prices")
	configPath := flag.String("config", "", "Path to configuration file")

	flag.Parse()

	if *base == "" || *quote == "" {
		fmt.Fprintln(os.Stderr, "both --base and --quote are required")
		flag.Usage()
		os.Exit(2)
	}

	if path := config.LoadEnvFiles(); path != "" {
		log.WithFields(logger.Fields{"path": path}).Debug("loaded environment file")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	if *minSpread > 0 {
		cfg.Scan.MinSpread = *minSpread
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}
	if os.Getenv("CLOUDWATCH_METRICS") == "true" {
		logger.InitCloudWatch(os.Getenv("AWS_REGION"), "")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := botapi.NewClient(cfg.API)

	requested := splitList(*connectors)
	explicit := len(requested) > 0
	if !explicit {
		requested, err = client.Connectors(ctx)
		if err != nil {
			log.WithError(err).Error("failed to list available connectors")
			fmt.Fprintf(os.Stderr, "error: cannot reach the bot API at %s: %v\n", cfg.API.URL, err)
			os.Exit(1)
		}
	}

	sources := venues.Assemble(client, requested, cfg.Direct, explicit)

	scanner := scan.New(cfg, sources,
		pairs.NewAliasSet(splitList(*base)),
		pairs.NewAliasSet(splitList(*quote)))

	rep, err := scanner.Run(ctx)
	if err != nil {
		switch {
		case errors.Is(err, scan.ErrNoVenues):
			fmt.Fprintln(os.Stderr, "error: no connectors available to scan")
		case errors.Is(err, scan.ErrNoPairs):
			fmt.Fprintf(os.Stderr, "error: no trading pairs matched %s / %s on any connector\n", *base, *quote)
		case errors.Is(err, scan.ErrNoPrices):
			fmt.Fprintln(os.Stderr, "error: no prices retrieved from any connector")
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	if *export {
		exportSnapshot(ctx, cfg, rep)
	}

	if *jsonOut {
		if err := report.WriteJSON(os.Stdout, rep, *top); err != nil {
			log.WithError(err).Error("failed to write JSON report")
			os.Exit(1)
		}
	} else {
		report.WriteText(os.Stdout, rep, *top)
	}
}

// exportSnapshot writes the parquet snapshot; a failed export never
// fails the scan.
func exportSnapshot(ctx context.Context, cfg *config.Config, rep *models.Report) {
	log := logger.GetLogger()

	exporter, err := writer.NewSnapshotExporter(cfg)
	if err != nil {
		log.WithError(err).Warn("snapshot export unavailable")
		return
	}
	path, err := exporter.Export(ctx, rep)
	if err != nil {
		log.WithError(err).Warn("snapshot export failed")
		return
	}
	fmt.Fprintf(os.Stderr, "snapshot written to %s\n", path)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
