// Package main generates or verifies privacy reports from the command line.
//
// Generate mode fetches the wallet's history, builds a committed report, and
// prints it as JSON. Verify mode reads a report document from a file and
// checks its commitment and expiry without any network access.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/gabrxgomes/ShadowStats/internal/config"
	"github.com/gabrxgomes/ShadowStats/internal/domain"
	"github.com/gabrxgomes/ShadowStats/internal/helius"
	"github.com/gabrxgomes/ShadowStats/internal/report"
	"github.com/gabrxgomes/ShadowStats/internal/service"
	"github.com/gabrxgomes/ShadowStats/internal/storage/memory"
)

func main() {
	wallet := flag.String("wallet", "", "Wallet address to report on")
	title := flag.String("title", "Trading Report", "Report title")
	description := flag.String("description", "", "Report description")
	includeVolume := flag.Bool("include-volume", true, "Disclose volume as a range")
	includeTrades := flag.Bool("include-trades", true, "Disclose trade count as a range")
	includeWinRate := flag.Bool("include-win-rate", false, "Disclose win rate")
	includePnL := flag.Bool("include-pnl", false, "Disclose profit/loss as a range")
	includeTopAssets := flag.Bool("include-top-assets", false, "Disclose top traded assets")
	revealIdentity := flag.Bool("reveal-identity", false, "Include the wallet address in the report")
	expiresInDays := flag.Int("expires-in-days", 0, "Expiry horizon in days (0 uses the 30-day default)")
	variation := flag.Float64("range-variation", 0, "Obfuscation width in percent (0 uses the 5% default)")
	verifyFile := flag.String("verify-file", "", "Verify a report JSON file instead of generating")
	flag.Parse()

	if *verifyFile != "" {
		verifyReport(*verifyFile)
		return
	}

	if *wallet == "" {
		fmt.Fprintln(os.Stderr, "Error: --wallet is required (or use --verify-file)")
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

	policy := domain.DisclosurePolicy{
		IncludeVolume:     *includeVolume,
		IncludeTradeCount: *includeTrades,
		IncludeWinRate:    *includeWinRate,
		IncludeProfitLoss: *includePnL,
		IncludeTopAssets:  *includeTopAssets,
		RevealIdentity:    *revealIdentity,
		Title:             *title,
		Description:       *description,
		ExpiresInDays:     *expiresInDays,
		RangeVariation:    *variation,
	}

	r, _, err := svc.GenerateReport(context.Background(), *wallet, policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding report: %v\n", err)
		os.Exit(1)
	}
}

func verifyReport(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report file: %v\n", err)
		os.Exit(1)
	}

	var r domain.Report
	if err := json.Unmarshal(data, &r); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing report file: %v\n", err)
		os.Exit(1)
	}

	result := report.NewVerifier().Verify(&r)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}

	if !result.Valid {
		os.Exit(1)
	}
}
