package main

import (
	"fmt"
	"log/slog"
	"os"
	cmdcalculate "osa-stats/command/calculate"
	cmdimport "osa-stats/command/import"
	cmdupload "osa-stats/command/upload"
	cmdweb "osa-stats/command/web"
	"strings"
)

// OSA reporting tool: pulls facility stock-on-hand and consumption from a DHIS2 analytics
// API, reshapes it into ingestion records and summaries, and uploads the CSV export.
// Usage:
//   DHIS2_TOKEN=d2pat_xxx osa-stats import [-period 2024Q1] [-data ./data]
// Notes:
// - Credentials: DHIS2_TOKEN, or DHIS2_USERNAME + DHIS2_PASSWORD; UPLOAD_CLIENT_SECRET for
//   client-credentials auth on the ingestion endpoint.
// - Everything else lives in the YAML file named by CONFIG_PATH (default ./config.yml).

func main() {
	args := os.Args
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		var run func([]string) error
		switch sub {
		case "import":
			run = cmdimport.Run
		case "calculate":
			run = cmdcalculate.Run
		case "upload":
			run = cmdupload.Run
		case "web":
			run = cmdweb.Run
		}
		if run != nil {
			if err := run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: osa-stats import [-period YYYYQn] [-data ./data] | calculate [-data ./data] | upload [-period YYYYQn] [-file osa_records.csv] | web [-addr :8080] [-data ./data] [-ui ./ui/dist]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
