package cmdimport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
	"osa-stats/domain/report"
)

func TestWriteResult(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	periods := osa.Periods{"202401", "202402", "202403"}
	res := &report.Result{
		Quarter: "2024Q1",
		Periods: periods,
		Records: osa.NewTransformer(osa.DefaultCatalog()).Transform([][]string{
			{"E6bQbrXhKgU", "FAC1", "202403", "7"},
		}, periods),
		Facilities:      osa.NormalizeFacilities([]string{"uid", "name"}, [][]string{{"FAC1", "Clinic A"}}),
		TotalFacilities: 2,
	}
	require.NoError(t, WriteResult(dir, res))

	records, err := ccsv.ReadRecords(filepath.Join(dir, ccsv.RecordsFile))
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = os.Stat(filepath.Join(dir, ccsv.FacilitiesFile))
	assert.NoError(t, err)

	stats, err := ccsv.ReadTable(filepath.Join(dir, StatsFile))
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{
		"quarter":              "2024Q1",
		"total_facilities":     "2",
		"facilities_reporting": "1",
		"reporting_rate":       "50.00",
	}}, stats)
	assert.Equal(t, 2, ReadTotalFacilities(filepath.Join(dir, StatsFile)))
}

func TestReadTotalFacilitiesMissing(t *testing.T) {
	assert.Equal(t, 0, ReadTotalFacilities(filepath.Join(t.TempDir(), StatsFile)))
}
