package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"arbscan/config"
	"arbscan/internal/botapi"
	"arbscan/internal/report"
	"arbscan/logger"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: portfolio [flags] <command>

Commands:
  state          balances per account and exchange
  value          total portfolio value
  distribution   per-token share of the portfolio
  history        recorded portfolio values over time
  token <SYM>    positions for one token across accounts

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	log := logger.GetLogger()

	jsonOut := flag.Bool("json", false, "Emit raw JSON on stdout")
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

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

	switch flag.Arg(0) {
	case "state":
		state, err := client.PortfolioState(ctx)
		exitOn(err)
		if *jsonOut {
			printJSON(state)
			return
		}
		printState(state)
	case "value":
		value, err := client.PortfolioValue(ctx)
		exitOn(err)
		if *jsonOut {
			printJSON(map[string]float64{"total_value": value})
			return
		}
		fmt.Printf("Total portfolio value: %s\n", report.FormatPrice(value))
	case "distribution":
		dist, err := client.PortfolioDistribution(ctx)
		exitOn(err)
		if *jsonOut {
			printJSON(dist)
			return
		}
		printDistribution(dist)
	case "history":
		history, err := client.PortfolioHistory(ctx)
		exitOn(err)
		if *jsonOut {
			printJSON(history)
			return
		}
		printHistory(history)
	case "token":
		if flag.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "token command needs a symbol, e.g. portfolio token BTC")
			os.Exit(2)
		}
		state, err := client.PortfolioState(ctx)
		exitOn(err)
		printToken(state, flag.Arg(1), *jsonOut)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}
}

func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		exitOn(err)
	}
}

func printState(state map[string]map[string][]botapi.TokenBalance) {
	accounts := sortedKeys(state)
	for _, account := range accounts {
		fmt.Printf("\nAccount: %s\n", account)
		for _, exchange := range sortedKeys(state[account]) {
			fmt.Printf("  %s\n", exchange)
			for _, bal := range state[account][exchange] {
				fmt.Printf("    %-10s %14.6f units  %s\n",
					bal.Token, bal.Units, report.FormatPrice(bal.Value))
			}
		}
	}
}

func printDistribution(dist map[string]float64) {
	tokens := make([]string, 0, len(dist))
	for t := range dist {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return dist[tokens[i]] > dist[tokens[j]] })

	fmt.Println("Portfolio distribution:")
	for _, t := range tokens {
		fmt.Printf("  %-10s %6.2f%%\n", t, dist[t])
	}
}

func printHistory(history []botapi.PortfolioSnapshot) {
	if len(history) == 0 {
		fmt.Println("No portfolio history recorded")
		return
	}

	fmt.Println("Portfolio history:")
	for _, snap := range history {
		var total float64
		for _, exchanges := range snap.State {
			for _, balances := range exchanges {
				for _, bal := range balances {
					total += bal.Value
				}
			}
		}
		ts := time.Unix(int64(snap.Timestamp), 0).UTC()
		fmt.Printf("  %s  %s\n", ts.Format(time.RFC3339), report.FormatPrice(total))
	}
}

func printToken(state map[string]map[string][]botapi.TokenBalance, symbol string, jsonOut bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	type position struct {
		Account  string  `json:"account"`
		Exchange string  `json:"exchange"`
		Units    float64 `json:"units"`
		Value    float64 `json:"value"`
	}
	var positions []position

	for _, account := range sortedKeys(state) {
		for _, exchange := range sortedKeys(state[account]) {
			for _, bal := range state[account][exchange] {
				if strings.ToUpper(bal.Token) != symbol {
					continue
				}
				positions = append(positions, position{
					Account:  account,
					Exchange: exchange,
					Units:    bal.Units,
					Value:    bal.Value,
				})
			}
		}
	}

	if jsonOut {
		printJSON(positions)
		return
	}
	if len(positions) == 0 {
		fmt.Printf("No %s positions found\n", symbol)
		return
	}

	var totalUnits, totalValue float64
	fmt.Printf("%s positions:\n", symbol)
	for _, p := range positions {
		fmt.Printf("  %-15s %-15s %14.6f units  %s\n",
			p.Account, p.Exchange, p.Units, report.FormatPrice(p.Value))
		totalUnits += p.Units
		totalValue += p.Value
	}
	fmt.Printf("Total: %.6f units, %s\n", totalUnits, report.FormatPrice(totalValue))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
