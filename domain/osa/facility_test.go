package osa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFacilitiesMissingColumns(t *testing.T) {
	got := NormalizeFacilities([]string{"uid", "name"}, [][]string{{"F1", "Clinic A"}})

	require.Len(t, got, 1)
	f := got[0]
	require.NotNil(t, f.FacilityCode)
	require.NotNil(t, f.FacilityName)
	assert.Equal(t, "F1", *f.FacilityCode)
	assert.Equal(t, "Clinic A", *f.FacilityName)
	assert.Equal(t, HealthFacility, f.FacilityType)
	assert.Nil(t, f.FacilityLevel)
	assert.Nil(t, f.FacilityOwnerShipType)
	assert.Nil(t, f.GeographyIdentifier1)
	assert.Nil(t, f.GeographyIdentifier2)
	assert.Nil(t, f.FacilityOperationalStatus)
}

func TestNormalizeFacilitiesColumnOrder(t *testing.T) {
	header := []string{"status", "district", "region", "ownership", "name", "hflevel", "uid", "extra"}
	rows := [][]string{
		{"Functional", "Kampala", "Central", "Government", "Mulago NRH", "NRH", "uid1", "x"},
		{"Closed", "Gulu", "Northern", "PNFP", "Lacor", "RRH", "uid2", "y"},
		{"Functional", "Mbale"},
	}
	got := NormalizeFacilities(header, rows)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"uid1", "NRH", "Mulago NRH", "Government", "Central", "Kampala", HealthFacility, "Functional"}, got[0].Cells())
	assert.Equal(t, "uid2", *got[1].FacilityCode)
	assert.Equal(t, "Mbale", *got[2].GeographyIdentifier2)
	assert.Nil(t, got[2].FacilityCode)
}

func TestNormalizeFacilitiesCaseSensitive(t *testing.T) {
	got := NormalizeFacilities([]string{"UID", "Name"}, [][]string{{"F1", "A"}})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].FacilityCode)
	assert.Nil(t, got[0].FacilityName)
}

func TestNormalizeFacilitiesEmpty(t *testing.T) {
	assert.Empty(t, NormalizeFacilities(nil, nil))
}
