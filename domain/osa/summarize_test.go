package osa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rec(facility string, product, dataPoint int, v Value) Record {
	return Record{ReportingUnit: "UGA", FacilityCode: facility, ProductCode: product, DataPoint: dataPoint, CurrentReportingPeriod: "202403", Value: v}
}

var sample = []Record{
	rec("F1", 10286, 1061, Number(4)),
	rec("F1", 10286, 1064, Text("DHIS2")),
	rec("F2", 10005, 1062, Number(0)),
	rec("F3", 10286, 1062, Number(0)),
	rec("F2", 10286, 1061, Number(7)),
}

func TestSummarizeEmpty(t *testing.T) {
	for _, records := range [][]Record{nil, {}} {
		counts := SummarizeCounts("ProductCode", records)
		rates := SummarizeRates("ProductCode", records)
		assert.NotNil(t, counts)
		assert.NotNil(t, rates)
		assert.Empty(t, counts)
		assert.Empty(t, rates)
	}
}

func TestSummarizeCounts(t *testing.T) {
	assert.Equal(t, []CountSummary{
		{DataPoint: "10286", Count: 3},
		{DataPoint: "10005", Count: 1},
	}, SummarizeCounts("ProductCode", sample))

	assert.Equal(t, []CountSummary{
		{DataPoint: "1061", Count: 2},
		{DataPoint: "1064", Count: 1},
		{DataPoint: "1062", Count: 2},
	}, SummarizeCounts("DataPoint", sample))
}

func TestSummarizeRates(t *testing.T) {
	got := SummarizeRates("DataPoint", sample)
	assert.Equal(t, []RateSummary{
		{DataPoint: "1061", Den: 2, Num: 2},
		{DataPoint: "1064", Den: 1, Num: 1},
		{DataPoint: "1062", Den: 2, Num: 0},
	}, got)
	assert.InDelta(t, 100.0, got[0].Rate(), 1e-9)
	assert.Zero(t, got[2].Rate())
	assert.Zero(t, RateSummary{}.Rate())
}

func TestSummaryProperties(t *testing.T) {
	for _, column := range []string{"ProductCode", "DataPoint", "FacilityCode", "Value", "ReportingUnit"} {
		rates := SummarizeRates(column, sample)
		total := 0
		for _, r := range rates {
			total += r.Den
			assert.LessOrEqual(t, r.Num, r.Den)
		}
		assert.Equal(t, len(sample), total, column)

		counts := SummarizeCounts(column, sample)
		assert.Len(t, counts, len(rates))
		for i, c := range counts {
			assert.Equal(t, rates[i].DataPoint, c.DataPoint)
			assert.LessOrEqual(t, c.Count, rates[i].Den)
		}
	}
}

func TestSummarizeUnknownColumn(t *testing.T) {
	assert.Equal(t, []CountSummary{{DataPoint: UnknownGroup, Count: 3}}, SummarizeCounts("Nope", sample))
	assert.Equal(t, []RateSummary{{DataPoint: UnknownGroup, Den: 5, Num: 3}}, SummarizeRates("Nope", sample))
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(12, sample)
	assert.Equal(t, 12, s.TotalFacilities)
	assert.Equal(t, 3, s.FacilitiesReporting)
	assert.InDelta(t, 25.0, s.ReportingRate, 1e-9)

	assert.Zero(t, ComputeStats(0, sample).ReportingRate)
	assert.Equal(t, 0.25*100, CountSummary{Count: 1}.Rate(4))
}
