package osa

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Output data point codes.
const (
	DataPointStockOnHand = 1061
	DataPointSource      = 1064
	DataPointCaptureDate = 1066
)

// SourceMarker is the provenance value written for DataPointSource.
const SourceMarker = "DHIS2"

// DefaultReportingUnit is the country code stamped on every record.
const DefaultReportingUnit = "UGA"

// QuantityCodes maps the month position inside the quarter (0 = oldest) to the data point
// code used for a quantity-used record.
type QuantityCodes [3]int

// DefaultQuantityCodes is the canonical month-position table.
var DefaultQuantityCodes = QuantityCodes{1062, 1086, 1087}

// Value is a record value: either a number or a text marker.
// Numbers keep float64 semantics, so unparsable input stays NaN.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number wraps f.
func Number(f float64) Value { return Value{num: f} }

// Text wraps s.
func Text(s string) Value { return Value{text: s, isText: true} }

// ParseNumber converts a raw cell the way a loose numeric cast would: surrounding blanks are
// ignored, an empty cell is 0 and anything unparsable is NaN. It never fails.
func ParseNumber(s string) Value {
	t := strings.TrimSpace(s)
	if t == "" {
		return Number(0)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		// ParseFloat reports range errors with ±Inf, which is what we want.
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return Number(f)
		}
		return Number(math.NaN())
	}
	return Number(f)
}

// IsText reports whether v holds a text marker.
func (v Value) IsText() bool { return v.isText }

// Float returns the numeric value, or NaN for text.
func (v Value) Float() float64 {
	if v.isText {
		return math.NaN()
	}
	return v.num
}

// String renders v the way it appears in exports: integers without a fraction, NaN as "NaN".
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	switch {
	case math.IsNaN(v.num):
		return "NaN"
	case math.IsInf(v.num, 1):
		return "Infinity"
	case math.IsInf(v.num, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}

// IsZero reports whether v renders as the literal "0".
func (v Value) IsZero() bool { return v.String() == "0" }

// MarshalJSON writes numbers as JSON numbers, text as strings and non-finite numbers as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isText {
		return json.Marshal(v.text)
	}
	if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a number, a string or null (NaN).
func (v *Value) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*v = Number(math.NaN())
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = Number(f)
	return nil
}

// Record is one normalized reporting line.
type Record struct {
	ReportingUnit          string `json:"ReportingUnit"`
	FacilityCode           string `json:"FacilityCode"`
	ProductCode            int    `json:"ProductCode"`
	DataPoint              int    `json:"DataPoint"`
	CurrentReportingPeriod string `json:"CurrentReportingPeriod"`
	Value                  Value  `json:"Value"`
}

// RecordColumns is the export header, in order.
var RecordColumns = []string{"ReportingUnit", "FacilityCode", "ProductCode", "DataPoint", "CurrentReportingPeriod", "Value"}

// Field returns the string form of the named column and whether the column exists.
func (r Record) Field(column string) (string, bool) {
	switch column {
	case "ReportingUnit":
		return r.ReportingUnit, true
	case "FacilityCode":
		return r.FacilityCode, true
	case "ProductCode":
		return strconv.Itoa(r.ProductCode), true
	case "DataPoint":
		return strconv.Itoa(r.DataPoint), true
	case "CurrentReportingPeriod":
		return r.CurrentReportingPeriod, true
	case "Value":
		return r.Value.String(), true
	}
	return "", false
}

// Cells returns the record as export cells in RecordColumns order.
func (r Record) Cells() []string {
	return []string{
		r.ReportingUnit,
		r.FacilityCode,
		strconv.Itoa(r.ProductCode),
		strconv.Itoa(r.DataPoint),
		r.CurrentReportingPeriod,
		r.Value.String(),
	}
}
