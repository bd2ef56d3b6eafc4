package osa

import (
	"math"
	"time"
)

// Row positions of an analytics row.
const (
	colElement = iota
	colFacility
	colPeriod
	colValue
)

// Transformer turns raw analytics rows into reporting records.
type Transformer struct {
	Catalog       Catalog
	QuantityCodes QuantityCodes
	ReportingUnit string
	// Now supplies the capture date for stock-on-hand records. Defaults to time.Now.
	Now func() time.Time
}

// NewTransformer returns a Transformer with the default codes and reporting unit.
func NewTransformer(c Catalog) *Transformer {
	return &Transformer{Catalog: c, QuantityCodes: DefaultQuantityCodes, ReportingUnit: DefaultReportingUnit}
}

// Transform maps every row to zero, one or three records, keeping input order.
// Every record carries periods.Latest() as its reporting period; older months of the quarter
// are told apart by DataPoint instead.
func (t *Transformer) Transform(rows [][]string, periods Periods) []Record {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	stamp := Number(float64(DateStamp(now())))
	unit := t.ReportingUnit
	if unit == "" {
		unit = DefaultReportingUnit
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		entry, ok := t.Catalog.Lookup(cell(row, colElement))
		if !ok {
			continue
		}
		base := Record{
			ReportingUnit:          unit,
			FacilityCode:           cell(row, colFacility),
			ProductCode:            entry.Code,
			CurrentReportingPeriod: periods.Latest(),
		}
		period := cell(row, colPeriod)

		switch entry.DataPoint {
		case StockOnHand:
			if period != periods.Latest() {
				continue
			}
			soh, src, captured := base, base, base
			soh.DataPoint, soh.Value = DataPointStockOnHand, rowValue(row)
			src.DataPoint, src.Value = DataPointSource, Text(SourceMarker)
			captured.DataPoint, captured.Value = DataPointCaptureDate, stamp
			out = append(out, soh, src, captured)
		case QuantityUsed:
			i := periods.Index(period)
			if i < 0 {
				continue
			}
			base.DataPoint, base.Value = t.QuantityCodes[i], rowValue(row)
			out = append(out, base)
		}
	}
	return out
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// rowValue parses the value cell; a missing cell is NaN rather than zero.
func rowValue(row []string) Value {
	if colValue >= len(row) {
		return Number(math.NaN())
	}
	return ParseNumber(row[colValue])
}
