package osa

import (
	lo "github.com/samber/lo"
)

// UnknownGroup is the group key used when records are grouped by a column they do not have.
const UnknownGroup = "undefined"

// CountSummary is the number of distinct reporting facilities in one group.
type CountSummary struct {
	DataPoint string `json:"dataPoint"`
	Count     int    `json:"count"`
}

// Rate returns Count as a percentage of total, or 0 when total is not positive.
func (s CountSummary) Rate(total int) float64 { return Percent(s.Count, total) }

// RateSummary counts records with a non-zero value (Num) against all records (Den) in one group.
type RateSummary struct {
	DataPoint string `json:"dataPoint"`
	Den       int    `json:"den"`
	Num       int    `json:"num"`
}

// Rate returns Num/Den as a percentage, or 0 for an empty group.
func (s RateSummary) Rate() float64 { return Percent(s.Num, s.Den) }

// Percent returns 100*num/den, guarding den <= 0.
func Percent(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return 100 * float64(num) / float64(den)
}

type group struct {
	key     string
	records []Record
}

// groupRecords groups by column, keeping the first-occurrence order of keys.
func groupRecords(column string, records []Record) []group {
	keyOf := func(r Record) string {
		if v, ok := r.Field(column); ok {
			return v
		}
		return UnknownGroup
	}
	byKey := lo.GroupBy(records, keyOf)
	keys := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return keyOf(r) }))
	return lo.Map(keys, func(k string, _ int) group { return group{key: k, records: byKey[k]} })
}

// SummarizeCounts groups records by column and counts distinct facility codes per group.
// A nil or empty input yields an empty, non-nil result.
func SummarizeCounts(column string, records []Record) []CountSummary {
	out := make([]CountSummary, 0)
	for _, g := range groupRecords(column, records) {
		facilities := lo.Uniq(lo.Map(g.records, func(r Record, _ int) string { return r.FacilityCode }))
		out = append(out, CountSummary{DataPoint: g.key, Count: len(facilities)})
	}
	return out
}

// SummarizeRates groups records by column; Den is the group size and Num the number of
// records whose value is not the literal "0".
func SummarizeRates(column string, records []Record) []RateSummary {
	out := make([]RateSummary, 0)
	for _, g := range groupRecords(column, records) {
		num := lo.CountBy(g.records, func(r Record) bool { return !r.Value.IsZero() })
		out = append(out, RateSummary{DataPoint: g.key, Den: len(g.records), Num: num})
	}
	return out
}

// Stats are the headline dashboard figures.
type Stats struct {
	TotalFacilities     int     `json:"totalFacilities"`
	FacilitiesReporting int     `json:"facilitiesReporting"`
	ReportingRate       float64 `json:"reportingRate"`
}

// ComputeStats derives the headline figures from the records and the number of
// organisation units known upstream.
func ComputeStats(totalFacilities int, records []Record) Stats {
	reporting := len(lo.Uniq(lo.Map(records, func(r Record, _ int) string { return r.FacilityCode })))
	return Stats{
		TotalFacilities:     totalFacilities,
		FacilitiesReporting: reporting,
		ReportingRate:       Percent(reporting, totalFacilities),
	}
}
