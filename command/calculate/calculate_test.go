package calculate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdimport "osa-stats/command/import"
	ccsv "osa-stats/connectors/csv"
	"osa-stats/domain/osa"
	"osa-stats/domain/report"
)

func TestCalculateFromImportedData(t *testing.T) {
	dir := t.TempDir()
	tr := osa.NewTransformer(osa.DefaultCatalog())
	periods := osa.Periods{"202401", "202402", "202403"}
	res := &report.Result{
		Quarter: "2024Q1",
		Periods: periods,
		Records: tr.Transform([][]string{
			{"E6bQbrXhKgU", "FAC1", "202401", "5"},
			{"E6bQbrXhKgU", "FAC2", "202402", "0"},
			{"RQ1tlXaPcar", "FAC1", "202403", "10"},
		}, periods),
		TotalFacilities: 4,
	}
	require.NoError(t, cmdimport.WriteResult(dir, res))
	assert.Equal(t, 4, cmdimport.ReadTotalFacilities(filepath.Join(dir, cmdimport.StatsFile)))

	n, err := Calculate(dir, "UGA")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	products, err := ccsv.ReadTable(filepath.Join(dir, ccsv.SummaryProductFile))
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"group": "10286", "facilities_reporting": "2", "rate": "50.00"}}, products)

	rates, err := ccsv.ReadTable(filepath.Join(dir, ccsv.RatesDataPointFile))
	require.NoError(t, err)
	require.Len(t, rates, 5)
	assert.Equal(t, "1062", rates[0]["group"])
	assert.Equal(t, "1086", rates[1]["group"])
	assert.Equal(t, "0", rates[1]["num"])
	assert.Equal(t, "0.00", rates[1]["rate"])
}

func TestCalculateMissingRecords(t *testing.T) {
	_, err := Calculate(t.TempDir(), "UGA")
	assert.Error(t, err)
}
