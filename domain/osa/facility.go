package osa

// HealthFacility is the FacilityType of every normalized facility.
const HealthFacility = "Health Facility"

// Facility is one row of the country facility list. Fields that could not be located in the
// source are nil.
type Facility struct {
	FacilityCode              *string `json:"FacilityCode"`
	FacilityLevel             *string `json:"FacilityLevel"`
	FacilityName              *string `json:"FacilityName"`
	FacilityOwnerShipType     *string `json:"FacilityOwnerShipType"`
	GeographyIdentifier1      *string `json:"GeographyIdentifier1"`
	GeographyIdentifier2      *string `json:"GeographyIdentifier2"`
	FacilityType              string  `json:"FacilityType"`
	FacilityOperationalStatus *string `json:"FacilityOperationalStatus"`
}

// FacilityColumns is the export header, in order.
var FacilityColumns = []string{
	"FacilityCode", "FacilityLevel", "FacilityName", "FacilityOwnerShipType",
	"GeographyIdentifier1", "GeographyIdentifier2", "FacilityType", "FacilityOperationalStatus",
}

// Cells returns the facility in FacilityColumns order; nil fields become empty strings.
func (f Facility) Cells() []string {
	return []string{
		deref(f.FacilityCode), deref(f.FacilityLevel), deref(f.FacilityName), deref(f.FacilityOwnerShipType),
		deref(f.GeographyIdentifier1), deref(f.GeographyIdentifier2), f.FacilityType, deref(f.FacilityOperationalStatus),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Source column names of the facility list.
const (
	srcUID       = "uid"
	srcLevel     = "hflevel"
	srcName      = "name"
	srcOwnership = "ownership"
	srcRegion    = "region"
	srcDistrict  = "district"
	srcStatus    = "status"
)

// columnIndex finds name in header by exact match, or -1.
func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// NormalizeFacilities maps facility-list rows onto Facility using the header names.
// Missing columns and short rows leave the affected fields nil; nothing fails.
func NormalizeFacilities(header []string, rows [][]string) []Facility {
	uid := columnIndex(header, srcUID)
	level := columnIndex(header, srcLevel)
	name := columnIndex(header, srcName)
	ownership := columnIndex(header, srcOwnership)
	region := columnIndex(header, srcRegion)
	district := columnIndex(header, srcDistrict)
	status := columnIndex(header, srcStatus)

	out := make([]Facility, 0, len(rows))
	for _, row := range rows {
		out = append(out, Facility{
			FacilityCode:              at(row, uid),
			FacilityLevel:             at(row, level),
			FacilityName:              at(row, name),
			FacilityOwnerShipType:     at(row, ownership),
			GeographyIdentifier1:      at(row, region),
			GeographyIdentifier2:      at(row, district),
			FacilityType:              HealthFacility,
			FacilityOperationalStatus: at(row, status),
		})
	}
	return out
}

func at(row []string, i int) *string {
	if i < 0 || i >= len(row) {
		return nil
	}
	v := row[i]
	return &v
}
