package cmdupload

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"osa-stats/command/app"
	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
	"osa-stats/domain/report"
)

// Run executes the upload subcommand. Records come from a fresh pipeline run, or from a
// previously imported file when -file is given.
func Run(args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	period := fs.String("period", "", "quarter being reported as YYYYQn (default: previous quarter)")
	file := fs.String("file", "", "upload an existing osa_records.csv instead of fetching")
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

	var records []osa.Record
	if *file != "" {
		records, err = ccsv.ReadRecords(*file)
		if err != nil {
			return fmt.Errorf("read %s: %w", *file, err)
		}
	} else {
		res, err := a.Report.Run(ctx, quarter)
		if err != nil {
			return err
		}
		records = res.Records
	}

	name := report.ExportName(a.Config.Report.Country, osa.QuarterLabel(quarter))
	if _, err := a.Uploader.Send(ctx, name, ccsv.EncodeRecords(records)); err != nil {
		slog.Error("upload.error", "file", name, "error", err)
		return err
	}
	fmt.Fprintf(os.Stderr, "uploaded %s (%d records)\n", name, len(records))
	return nil
}
