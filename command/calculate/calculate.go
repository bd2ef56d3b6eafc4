package calculate

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	cmdimport "osa-stats/command/import"
	cfgloader "osa-stats/connectors/config"
	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
)

// Run executes the calculate command: read osa_records.csv from the data directory and write
// the product and data point summaries next to it.
func Run(args []string) error {
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	dataDir := fs.String("data", "", "directory holding osa_records.csv (default: data_dir from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}

	cfg, err := cfgloader.LoadDefault()
	if err != nil {
		return err
	}
	dir := *dataDir
	if dir == "" {
		dir = cfg.DataDir
	}

	n, err := Calculate(dir, cfg.Report.ReportingUnit)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "calculate.done records=%d\n", n)
	return nil
}

// Calculate writes summary_product.csv, summary_datapoint.csv, rates_product.csv and
// rates_datapoint.csv for the records in dir and returns the number of records read.
func Calculate(dir, reportingUnit string) (int, error) {
	records, err := ccsv.ReadRecords(filepath.Join(dir, ccsv.RecordsFile))
	if err != nil {
		return 0, err
	}
	total := cmdimport.ReadTotalFacilities(filepath.Join(dir, cmdimport.StatsFile))
	if total == 0 {
		slog.Warn("calculate.stats.missing", "reason", "no total facility count, rates will be 0")
	}

	outputs := []struct {
		file  string
		write func(path string) error
	}{
		{ccsv.SummaryProductFile, func(p string) error {
			return ccsv.WriteCountSummary(p, osa.SummarizeCounts("ProductCode", records), total)
		}},
		{ccsv.SummaryDataPointFile, func(p string) error {
			return ccsv.WriteCountSummary(p, osa.SummarizeCounts("DataPoint", records), total)
		}},
		{ccsv.RatesProductFile, func(p string) error {
			return ccsv.WriteRateSummary(p, reportingUnit, osa.SummarizeRates("ProductCode", records))
		}},
		{ccsv.RatesDataPointFile, func(p string) error {
			return ccsv.WriteRateSummary(p, reportingUnit, osa.SummarizeRates("DataPoint", records))
		}},
	}
	for _, o := range outputs {
		if err := o.write(filepath.Join(dir, o.file)); err != nil {
			return 0, fmt.Errorf("write %s: %w", o.file, err)
		}
	}
	slog.Info("calculate.written", "dir", dir, "records", len(records), "totalFacilities", total)
	return len(records), nil
}
