package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"osa-stats/domain/dhis2"
	"osa-stats/domain/osa"
)

// Source is the upstream the pipeline reads from.
type Source interface {
	Analytics(ctx context.Context, q dhis2.AnalyticsQuery) (*dhis2.Analytics, error)
	Grid(ctx context.Context, resource string) (*dhis2.Grid, error)
}

// Result is everything one pipeline run produces for a quarter.
type Result struct {
	Quarter         string         `json:"quarter"`
	Periods         osa.Periods    `json:"periods"`
	Records         []osa.Record   `json:"records"`
	Facilities      []osa.Facility `json:"facilities"`
	TotalFacilities int            `json:"totalFacilities"`
	GeneratedAt     time.Time      `json:"generatedAt"`
}

// Stats returns the headline dashboard figures.
func (r *Result) Stats() osa.Stats { return osa.ComputeStats(r.TotalFacilities, r.Records) }

// ExportName is the upload file name, e.g. Uganda_OSA_2024Q1.csv.
func ExportName(country, quarter string) string {
	return fmt.Sprintf("%s_OSA_%s.csv", country, quarter)
}

// Service runs the fetch-transform pipeline.
type Service struct {
	source           Source
	transformer      *osa.Transformer
	orgUnit          string
	facilityResource string
	now              func() time.Time
}

// NewService wires a pipeline. orgUnit is the analytics ou selector (e.g. LEVEL-5) and
// facilityResource the tabular resource holding the facility list.
func NewService(src Source, tr *osa.Transformer, orgUnit, facilityResource string) *Service {
	return &Service{source: src, transformer: tr, orgUnit: orgUnit, facilityResource: facilityResource, now: time.Now}
}

// Run fetches analytics and the facility list concurrently for the quarter containing
// quarter, then transforms both. Any fetch failure fails the whole run.
func (s *Service) Run(ctx context.Context, quarter time.Time) (*Result, error) {
	periods := osa.QuarterMonths(quarter)
	label := osa.QuarterLabel(quarter)
	q := dhis2.AnalyticsQuery{
		DataElements: s.transformer.Catalog.IDs(),
		OrgUnit:      s.orgUnit,
		Periods:      periods[:],
	}
	slog.Info("report.run.start", "quarter", label, "periods", periods.Join(";"))

	var (
		analytics *dhis2.Analytics
		grid      *dhis2.Grid
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := s.source.Analytics(gctx, q)
		if err != nil {
			return fmt.Errorf("analytics: %w", err)
		}
		analytics = a
		return nil
	})
	g.Go(func() error {
		fg, err := s.source.Grid(gctx, s.facilityResource)
		if err != nil {
			return fmt.Errorf("facilities: %w", err)
		}
		grid = fg
		return nil
	})
	if err := g.Wait(); err != nil {
		slog.Error("report.run.error", "quarter", label, "error", err)
		return nil, err
	}

	res := &Result{
		Quarter:         label,
		Periods:         periods,
		Records:         s.transformer.Transform(analytics.Rows, periods),
		Facilities:      osa.NormalizeFacilities(grid.HeaderNames(), grid.StringRows()),
		TotalFacilities: analytics.OrgUnitCount(),
		GeneratedAt:     s.now(),
	}
	slog.Info("report.run.done", "quarter", label, "rows", len(analytics.Rows), "records", len(res.Records), "facilities", len(res.Facilities))
	return res, nil
}
