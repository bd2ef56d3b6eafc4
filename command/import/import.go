package cmdimport

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"osa-stats/command/app"
	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
	"osa-stats/domain/report"
)

// StatsFile holds the headline figures of the last import.
const StatsFile = "stats.csv"

// Run executes the import subcommand: fetch the quarter from DHIS2 and write
// osa_records.csv, facilities.csv and stats.csv into the data directory.
func Run(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	period := fs.String("period", "", "quarter to import as YYYYQn, e.g. 2024Q1 (default: previous quarter)")
	dataDir := fs.String("data", "", "output directory (default: data_dir from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	quarter, err := osa.ResolveQuarter(*period, time.Now())
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := app.Load(ctx)
	if err != nil {
		return err
	}
	dir := *dataDir
	if dir == "" {
		dir = a.Config.DataDir
	}

	slog.Info("import.start", "quarter", osa.QuarterLabel(quarter), "data", dir)
	res, err := a.Report.Run(ctx, quarter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		return err
	}
	if err := WriteResult(dir, res); err != nil {
		slog.Error("phase.csv.write.error", "error", err)
		return err
	}
	slog.Info("import.done", "quarter", res.Quarter, "records", len(res.Records), "facilities", len(res.Facilities))
	return nil
}

// WriteResult writes the records, facility list and stats of res into dir.
func WriteResult(dir string, res *report.Result) error {
	if err := ccsv.WriteRecords(filepath.Join(dir, ccsv.RecordsFile), res.Records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	if err := ccsv.WriteFacilities(filepath.Join(dir, ccsv.FacilitiesFile), res.Facilities); err != nil {
		return fmt.Errorf("write facilities: %w", err)
	}
	return WriteStats(filepath.Join(dir, StatsFile), res.Quarter, res.Stats())
}

// WriteStats writes a one-row stats table.
func WriteStats(path, quarter string, s osa.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "quarter,total_facilities,facilities_reporting,reporting_rate\n%s,%d,%d,%.2f\n",
		quarter, s.TotalFacilities, s.FacilitiesReporting, s.ReportingRate)
	return err
}

// ReadTotalFacilities returns total_facilities from a stats file, or 0 when unavailable.
func ReadTotalFacilities(path string) int {
	rows, err := ccsv.ReadTable(path)
	if err != nil || len(rows) == 0 {
		return 0
	}
	n, _ := strconv.Atoi(rows[0]["total_facilities"])
	return n
}
