// Package main analyzes a wallet's trading history from the command line and
// prints the resulting analytics snapshot as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/config"
	"github.com/gabrxgomes/ShadowStats/internal/helius"
	"github.com/gabrxgomes/ShadowStats/internal/service"
	"github.com/gabrxgomes/ShadowStats/internal/storage/memory"
)

func main() {
	wallet := flag.String("wallet", "", "Wallet address to analyze")
	limit := flag.Int("limit", service.DefaultHistoryLimit, "Maximum transactions to fetch")
	flag.Parse()

	if *wallet == "" {
		fmt.Fprintln(os.Stderr, "Error: --wallet is required")
		os.Exit(1)
	}

	cfg := config.MustLoad()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	svc := service.New(service.Options{
		History: helius.NewClient(cfg.HeliusAPIURL, cfg.HeliusAPIKey),
		Reports: memory.NewReportStore(),
		Users:   memory.NewUserStore(),
		Cache:   memory.NewAnalyticsCache(),
		BaseURL: cfg.BaseURL,
		Log:     log,
	})

	entry, err := svc.Analyze(context.Background(), *wallet, *limit, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error analyzing wallet: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entry); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
		os.Exit(1)
	}
}
