// Command bookrec reconstructs booking events from a travel-simulation
// log and exports them as CSV, JSON, or a demand-forecast aggregate.
//
// Usage:
//
//	bookrec -log logs/tvlsim.log -csv bookings.csv
//	bookrec -log logs/tvlsim.log -json bookings.json -demand demand.csv
//	bookrec -log logs/tvlsim.log -db bookings.db
//	bookrec -log logs/tvlsim.log -stats-only
//
// A console summary is printed regardless of export selection. When no
// export is selected, the full CSV is written to bookings.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/averost/bookrec/pkg/bookrec"
	"github.com/averost/bookrec/pkg/bookrec/config"
	"github.com/averost/bookrec/pkg/bookrec/export"
	"github.com/averost/bookrec/pkg/bookrec/store"
)

const defaultCSVPath = "bookings.csv"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bookrec: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath     = flag.String("config", "", "optional yaml/json config file")
		logPath        = flag.String("log", "", "input simulation log (default from config)")
		csvPath        = flag.String("csv", "", "write the full CSV export to this path")
		simplifiedPath = flag.String("simplified", "", "write the simplified CSV export (no offered-option columns)")
		jsonPath       = flag.String("json", "", "write the JSON export to this path")
		demandPath     = flag.String("demand", "", "write the demand-forecast CSV to this path")
		dbPath         = flag.String("db", "", "persist records to this SQLite database")
		date           = flag.String("date", "", "print the demand-by-DTD breakdown for this departure date")
		statsOnly      = flag.Bool("stats-only", false, "print statistics only, no exports")
		reject         = flag.Bool("reject-in-flight", false, "abort on a request arriving while another is in flight")
		window         = flag.Int("window", 0, "correlation window size in lines (default from config)")
		verbose        = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	cfg := config.New(nil)
	if *configPath != "" {
		loaded, err := config.FromFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	input := cfg.LogPath()
	if *logPath != "" {
		input = *logPath
	}
	windowSize := cfg.WindowSize()
	if *window > 0 {
		windowSize = *window
	}
	classes := cfg.FareClasses()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	policy := bookrec.ReplaceInFlight
	if *reject || cfg.RejectInFlight() {
		policy = bookrec.RejectInFlight
	}

	eng := bookrec.New(
		bookrec.WithWindowSize(windowSize),
		bookrec.WithFareClasses(classes),
		bookrec.WithReplacePolicy(policy),
		bookrec.WithLogger(logger),
		bookrec.WithProgressInterval(cfg.ProgressInterval()),
	)

	result, err := eng.ReconstructFile(context.Background(), input)
	if err != nil {
		return err
	}

	summary := export.Summarize(result.Records, classes)
	if err := summary.WriteText(os.Stdout, classes); err != nil {
		return err
	}
	if dropped := result.Stats.Dropped(); dropped > 0 {
		fmt.Printf("Dropped records:      %d (%d replaced, %d unresolved at EOF)\n",
			dropped, result.Stats.DroppedReplaced, result.Stats.DroppedUnresolved)
	}

	if *date != "" {
		printDTDBreakdown(result.Records, *date)
	}

	if *statsOnly {
		return nil
	}

	fullCSV := *csvPath
	if fullCSV == "" && *simplifiedPath == "" && *jsonPath == "" && *demandPath == "" && *dbPath == "" && cfg.DBPath() == "" {
		fullCSV = defaultCSVPath
	}

	if fullCSV != "" {
		if err := writeFile(fullCSV, func(f *os.File) error {
			return export.WriteCSV(f, result.Records, classes)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d records)\n", fullCSV, len(result.Records))
	}

	if *simplifiedPath != "" {
		if err := writeFile(*simplifiedPath, func(f *os.File) error {
			return export.WriteSimplifiedCSV(f, result.Records, classes)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d records)\n", *simplifiedPath, len(result.Records))
	}

	if *jsonPath != "" {
		if err := writeFile(*jsonPath, func(f *os.File) error {
			return export.WriteJSON(f, input, result, classes)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *jsonPath)
	}

	if *demandPath != "" {
		rows := export.AggregateDemand(result.Records, cfg.DemandHigh(), cfg.DemandMedium())
		if err := writeFile(*demandPath, func(f *os.File) error {
			return export.WriteDemandCSV(f, rows)
		}); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d aggregates)\n", *demandPath, len(rows))
	}

	db := *dbPath
	if db == "" {
		db = cfg.DBPath()
	}
	if db != "" {
		st, err := store.NewSQLiteStore(db)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveRecords(result.RunID, result.Records); err != nil {
			return err
		}
		fmt.Printf("Stored %d records in %s (run %s)\n", len(result.Records), db, result.RunID)
	}

	return nil
}

func printDTDBreakdown(records []*bookrec.BookingRecord, date string) {
	buckets := export.DemandByDTD(records, date)
	if len(buckets) == 0 {
		fmt.Printf("No booking requests found for departure date %s\n", date)
		return
	}

	fmt.Printf("\nDemand by days to departure for %s:\n", date)
	fmt.Printf("%5s  %8s  %8s\n", "DTD", "requests", "avg WTP")
	for _, b := range buckets {
		fmt.Printf("%5d  %8d  %8.2f\n", b.DaysToDeparture, b.Requests, b.AvgWTP)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
