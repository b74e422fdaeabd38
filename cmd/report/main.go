package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mohamedkhairy/tvstore/internal/config"
	"github.com/mohamedkhairy/tvstore/internal/indicator"
	"github.com/mohamedkhairy/tvstore/internal/series"
	"github.com/mohamedkhairy/tvstore/internal/storage"
	indicatorpkg "github.com/mohamedkhairy/tvstore/pkg/indicator"
	"github.com/mohamedkhairy/tvstore/pkg/logger"
)

// report prints a raw CSV extract or an indicator report for data
// already collected by the webhook service, reading the store directly.
func main() {
	var (
		ticker       = flag.String("ticker", "", "ticker symbol (required)")
		start        = flag.String("start", "", "start date YYYY-MM-DD (extract mode)")
		end          = flag.String("end", "", "end date YYYY-MM-DD (extract mode)")
		indicatorArg = flag.String("indicator", "", "indicator name (report mode)")
		currDate     = flag.String("curr-date", "", "report end date YYYY-MM-DD (report mode)")
		lookBackDays = flag.Int("look-back-days", 30, "calendar days before curr-date to report")
		listNames    = flag.Bool("list", false, "list supported indicator names and exit")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	registry := indicatorpkg.DefaultRegistry()

	if *listNames {
		for _, name := range registry.List() {
			fmt.Println(name)
		}
		return
	}

	if *ticker == "" {
		fmt.Fprintln(os.Stderr, "-ticker is required")
		flag.Usage()
		os.Exit(2)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage",
			logger.ErrorField(err),
		)
	}
	defer store.Close()

	reader := series.NewReader(store)
	ctx := context.Background()

	switch {
	case *indicatorArg != "":
		if *currDate == "" {
			fmt.Fprintln(os.Stderr, "-curr-date is required with -indicator")
			os.Exit(2)
		}
		engine := indicator.NewEngine(reader, registry, cfg.Indicator.WarmupDays)
		report, err := engine.Report(ctx, *ticker, *indicatorArg, *currDate, *lookBackDays)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Report failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(indicator.Render(report))
	case *start != "" && *end != "":
		out, err := reader.Extract(ctx, *ticker, *start, *end, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Extract failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	default:
		fmt.Fprintln(os.Stderr, "Provide either -start/-end for an extract or -indicator/-curr-date for a report")
		flag.Usage()
		os.Exit(2)
	}
}
