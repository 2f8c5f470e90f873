package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"arbscan/config"
	"arbscan/internal/botapi"
	"arbscan/internal/report"
	"arbscan/logger"
)

// statusDoc is the machine-readable heartbeat document.
type statusDoc struct {
	Server          botapi.ServerInfo         `json:"server"`
	Bots            map[string]botapi.BotInfo `json:"bots"`
	ActiveExecutors []botapi.Executor         `json:"active_executors"`
	PortfolioValue  *float64                  `json:"portfolio_value,omitempty"`
	CheckedAt       time.Time                 `json:"checked_at"`
}

func main() {
	log := logger.GetLogger()

	jsonOut := flag.Bool("json", false, "Emit the status document as JSON on stdout")
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	config.LoadEnvFiles()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	ctx := context.Background()
	client := botapi.NewClient(cfg.API)

	info, err := client.Ping(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: bot API unreachable at %s: %v\n", cfg.API.URL, err)
		os.Exit(1)
	}

	doc := statusDoc{
		Server:    info,
		CheckedAt: time.Now().UTC(),
	}

	// Partial results are fine here: a heartbeat that can reach the server
	// still reports, even when one sub-query fails.
	if bots, err := client.BotStatus(ctx); err != nil {
		log.WithError(err).Warn("failed to fetch bot status")
	} else {
		doc.Bots = bots
	}
	if execs, err := client.ActiveExecutors(ctx); err != nil {
		log.WithError(err).Warn("failed to fetch executors")
	} else {
		doc.ActiveExecutors = execs
	}
	if value, err := client.PortfolioValue(ctx); err != nil {
		log.WithError(err).Warn("failed to fetch portfolio value")
	} else {
		doc.PortfolioValue = &value
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			log.WithError(err).Error("failed to write status document")
			os.Exit(1)
		}
		return
	}

	printStatus(doc)
}

func printStatus(doc statusDoc) {
	fmt.Printf("Server: %s %s\n", doc.Server.Name, doc.Server.Version)

	if len(doc.Bots) == 0 {
		fmt.Println("Bots:   none running")
	} else {
		fmt.Printf("Bots:   %d running\n", len(doc.Bots))
		ids := make([]string, 0, len(doc.Bots))
		for id := range doc.Bots {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			bot := doc.Bots[id]
			fmt.Printf("  %-25s controllers=%d  pnl=%+.2f\n",
				id, len(bot.Controllers), bot.GlobalPnlQuote)
		}
	}

	fmt.Printf("Active executors: %d\n", len(doc.ActiveExecutors))
	if doc.PortfolioValue != nil {
		fmt.Printf("Portfolio value:  %s\n", report.FormatPrice(*doc.PortfolioValue))
	}
}
