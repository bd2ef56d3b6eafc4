package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"osa-stats/domain/osa"
)

// Output file names inside the data directory.
const (
	RecordsFile          = "osa_records.csv"
	FacilitiesFile       = "facilities.csv"
	SummaryProductFile   = "summary_product.csv"
	SummaryDataPointFile = "summary_datapoint.csv"
	RatesProductFile     = "rates_product.csv"
	RatesDataPointFile   = "rates_datapoint.csv"
)

// EncodeRecords renders records in the ingestion format: a header line, then one line per
// record, cells joined by commas with no quoting and no trailing newline. Cells holding a
// comma or quote are written as-is.
func EncodeRecords(records []osa.Record) []byte {
	var b bytes.Buffer
	b.WriteString(strings.Join(osa.RecordColumns, ","))
	for _, r := range records {
		b.WriteByte('\n')
		b.WriteString(strings.Join(r.Cells(), ","))
	}
	return b.Bytes()
}

// DecodeRecords parses the output of EncodeRecords. Values that parse as numbers come back as
// numbers, everything else as text.
func DecodeRecords(r io.Reader) ([]osa.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("records csv: missing header")
	}
	head := strings.Split(strings.TrimSuffix(sc.Text(), "\r"), ",")
	if strings.Join(head, ",") != strings.Join(osa.RecordColumns, ",") {
		return nil, fmt.Errorf("records csv: unexpected header %q", sc.Text())
	}
	var out []osa.Record
	line := 1
	for sc.Scan() {
		line++
		text := strings.TrimSuffix(sc.Text(), "\r")
		if text == "" {
			continue
		}
		cells := strings.Split(text, ",")
		if len(cells) != len(osa.RecordColumns) {
			return nil, fmt.Errorf("records csv line %d: want %d cells, got %d", line, len(osa.RecordColumns), len(cells))
		}
		product, err := strconv.Atoi(cells[2])
		if err != nil {
			return nil, fmt.Errorf("records csv line %d: product code: %w", line, err)
		}
		dataPoint, err := strconv.Atoi(cells[3])
		if err != nil {
			return nil, fmt.Errorf("records csv line %d: data point: %w", line, err)
		}
		out = append(out, osa.Record{
			ReportingUnit:          cells[0],
			FacilityCode:           cells[1],
			ProductCode:            product,
			DataPoint:              dataPoint,
			CurrentReportingPeriod: cells[4],
			Value:                  decodeValue(cells[5]),
		})
	}
	return out, sc.Err()
}

func decodeValue(s string) osa.Value {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return osa.ParseNumber(s)
	}
	return osa.Text(s)
}

// WriteRecords writes EncodeRecords output to path, creating parent directories.
func WriteRecords(path string, records []osa.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, EncodeRecords(records), 0o644)
}

// ReadRecords loads a file written by WriteRecords.
func ReadRecords(path string) ([]osa.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRecords(f)
}

func writeRows(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// WriteFacilities writes the normalized facility list.
func WriteFacilities(path string, facilities []osa.Facility) error {
	rows := make([][]string, 0, len(facilities))
	for _, f := range facilities {
		rows = append(rows, f.Cells())
	}
	return writeRows(path, osa.FacilityColumns, rows)
}

// WriteCountSummary writes Summary A rows with their rate against totalFacilities.
func WriteCountSummary(path string, rows []osa.CountSummary, totalFacilities int) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.DataPoint, strconv.Itoa(r.Count), formatRate(r.Rate(totalFacilities))})
	}
	return writeRows(path, []string{"group", "facilities_reporting", "rate"}, out)
}

// WriteRateSummary writes Summary B rows for reportingUnit.
func WriteRateSummary(path, reportingUnit string, rows []osa.RateSummary) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{reportingUnit, r.DataPoint, strconv.Itoa(r.Num), strconv.Itoa(r.Den), formatRate(r.Rate())})
	}
	return writeRows(path, []string{"country", "group", "num", "den", "rate"}, out)
}

func formatRate(pct float64) string { return fmt.Sprintf("%.2f", pct) }

// ReadTable loads a CSV file and returns a slice of objects keyed by headers.
// Values are kept as strings to avoid lossy or incorrect type coercion.
func ReadTable(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	headers := records[0]
	res := make([]map[string]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		obj := make(map[string]string, len(headers))
		for j := 0; j < len(headers) && j < len(row); j++ {
			obj[headers[j]] = row[j]
		}
		res = append(res, obj)
	}
	return res, nil
}
