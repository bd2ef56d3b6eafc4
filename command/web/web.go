package web

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	lo "github.com/samber/lo"

	"osa-stats/command/app"
	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
	"osa-stats/domain/report"
)

// Results returns the pipeline result for a quarter. *report.Cache implements it.
type Results interface {
	Get(ctx context.Context, quarter time.Time) (*report.Result, error)
}

// Uploader submits an export file. *upload.Client implements it.
type Uploader interface {
	Send(ctx context.Context, filename string, content []byte) (any, error)
}

// Options configures the dashboard server.
type Options struct {
	Results       Results
	Uploader      Uploader
	Country       string
	ReportingUnit string
	DataDir       string
	UIDir         string
	Now           func() time.Time
}

// Run starts the Echo web server exposing the dashboard APIs and an optional SPA.
//
// Usage:
//
//	osa-stats web [-addr :8080] [-data ./data] [-ui ./ui/dist]
//
// Endpoints (all accept ?period=YYYYQn, default previous quarter):
//
//	GET  /api/quarter             -> default quarter and its months
//	GET  /api/records             -> reporting records
//	GET  /api/facilities          -> country facility list
//	GET  /api/stats               -> total / reporting facilities and reporting rate
//	GET  /api/summary/:column     -> distinct reporting facilities per group
//	GET  /api/rates/:column       -> non-zero values over all values per group
//	POST /api/upload              -> send the records CSV to the ingestion endpoint
//	GET  /api/files/:name         -> <data>/<name>.csv written by import/calculate
func Run(args []string) error {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", "", "http listen address (default: web.addr from config)")
	dataDir := fs.String("data", "", "directory containing CSV files (default: data_dir from config)")
	uiDir := fs.String("ui", "./ui/dist", "directory containing built UI (Vite dist)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := app.Load(ctx)
	if err != nil {
		return err
	}
	cfg := a.Config
	if *addr == "" {
		*addr = cfg.Web.Addr
	}
	if *dataDir == "" {
		*dataDir = cfg.DataDir
	}

	e := New(Options{
		Results:       report.NewCache(a.Report, cfg.Web.CacheTTL),
		Uploader:      a.Uploader,
		Country:       cfg.Report.Country,
		ReportingUnit: cfg.Report.ReportingUnit,
		DataDir:       *dataDir,
		UIDir:         *uiDir,
	})
	return e.Start(*addr)
}

type server struct {
	Options
}

// New builds the Echo instance with every route registered.
func New(o Options) *echo.Echo {
	if o.Now == nil {
		o.Now = time.Now
	}
	s := &server{Options: o}
	e := echo.New()
	e.HideBanner = true

	e.GET("/api/quarter", s.quarter)
	e.GET("/api/records", s.withResult(func(c echo.Context, r *report.Result) error {
		return c.JSON(http.StatusOK, r.Records)
	}))
	e.GET("/api/facilities", s.withResult(func(c echo.Context, r *report.Result) error {
		return c.JSON(http.StatusOK, r.Facilities)
	}))
	e.GET("/api/stats", s.withResult(func(c echo.Context, r *report.Result) error {
		return c.JSON(http.StatusOK, map[string]any{"quarter": r.Quarter, "stats": r.Stats()})
	}))
	e.GET("/api/summary/:column", s.withResult(s.summary))
	e.GET("/api/rates/:column", s.withResult(s.rates))
	e.POST("/api/upload", s.withResult(s.upload))
	e.GET("/api/files/:name", s.file)

	s.serveUI(e)
	return e
}

func (s *server) quarter(c echo.Context) error {
	q := osa.PreviousQuarter(s.Now())
	return c.JSON(http.StatusOK, map[string]any{
		"quarter": osa.QuarterLabel(q),
		"periods": osa.QuarterMonths(q),
	})
}

// withResult resolves ?period= and loads its result before calling h.
func (s *server) withResult(h func(echo.Context, *report.Result) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := osa.ResolveQuarter(c.QueryParam("period"), s.Now())
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":   err.Error(),
				"message": "invalid period",
			})
		}
		res, err := s.Results.Get(c.Request().Context(), q)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, osa.ErrFetch) {
				status = http.StatusBadGateway
			}
			return c.JSON(status, map[string]any{
				"error":   err.Error(),
				"quarter": osa.QuarterLabel(q),
				"message": "failed to load reporting data",
			})
		}
		return h(c, res)
	}
}

func (s *server) summary(c echo.Context, r *report.Result) error {
	total := r.TotalFacilities
	rows := lo.Map(osa.SummarizeCounts(c.Param("column"), r.Records), func(row osa.CountSummary, _ int) map[string]any {
		return map[string]any{"dataPoint": row.DataPoint, "count": row.Count, "rate": row.Rate(total)}
	})
	return c.JSON(http.StatusOK, rows)
}

func (s *server) rates(c echo.Context, r *report.Result) error {
	rows := lo.Map(osa.SummarizeRates(c.Param("column"), r.Records), func(row osa.RateSummary, _ int) map[string]any {
		return map[string]any{"country": s.ReportingUnit, "dataPoint": row.DataPoint, "num": row.Num, "den": row.Den, "rate": row.Rate()}
	})
	return c.JSON(http.StatusOK, rows)
}

func (s *server) upload(c echo.Context, r *report.Result) error {
	name := report.ExportName(s.Country, r.Quarter)
	out, err := s.Uploader.Send(c.Request().Context(), name, ccsv.EncodeRecords(r.Records))
	if err != nil {
		c.Logger().Errorf("upload %s: %v", name, err)
		return c.JSON(http.StatusBadGateway, map[string]any{
			"error":   err.Error(),
			"file":    name,
			"message": "upload failed",
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"file": name, "records": len(r.Records), "result": out})
}

func (s *server) file(c echo.Context) error {
	name := c.Param("name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid file name"})
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	path := filepath.Join(s.DataDir, name)
	rows, err := ccsv.ReadTable(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c.JSON(http.StatusNotFound, map[string]any{
				"error":   "file not found",
				"path":    path,
				"message": "CSV file is missing",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]any{
			"error":   err.Error(),
			"path":    path,
			"message": "failed to read CSV",
		})
	}
	return c.JSON(http.StatusOK, rows)
}

// serveUI serves a built SPA from UIDir when index.html exists; unknown non-API routes
// fall back to index.html.
func (s *server) serveUI(e *echo.Echo) {
	if s.UIDir == "" {
		return
	}
	indexPath := filepath.Join(s.UIDir, "index.html")
	fi, err := os.Stat(indexPath)
	if err != nil || fi.IsDir() {
		return
	}
	e.Static("/", s.UIDir)
	e.GET("/", func(c echo.Context) error { return c.File(indexPath) })
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusNotFound {
			if !strings.HasPrefix(c.Request().URL.Path, "/api") {
				_ = c.File(indexPath)
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
