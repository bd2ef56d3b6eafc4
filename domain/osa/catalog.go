package osa

import (
	"fmt"
	"sort"

	lo "github.com/samber/lo"
)

// Kind tells what a data element measures.
type Kind string

const (
	StockOnHand  Kind = "Stock on hand"
	QuantityUsed Kind = "Quantity used"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool { return k == StockOnHand || k == QuantityUsed }

// CatalogEntry describes one upstream data element.
type CatalogEntry struct {
	ID          string `json:"id" yaml:"id"`
	Code        int    `json:"code" yaml:"code"`
	DataPoint   Kind   `json:"dataPoint" yaml:"data_point"`
	Description string `json:"description" yaml:"description"`
}

// Catalog is an immutable lookup from data element id to its product metadata.
// Build it with NewCatalog; the zero value is an empty catalog.
type Catalog struct {
	entries map[string]CatalogEntry
	ids     []string
}

// NewCatalog validates and copies entries. Duplicate ids are rejected.
func NewCatalog(entries []CatalogEntry) (Catalog, error) {
	m := make(map[string]CatalogEntry, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return Catalog{}, fmt.Errorf("catalog entry without id (code %d)", e.Code)
		}
		if _, dup := m[e.ID]; dup {
			return Catalog{}, fmt.Errorf("catalog entry %s defined twice", e.ID)
		}
		if e.Code <= 0 {
			return Catalog{}, fmt.Errorf("catalog entry %s: product code must be positive", e.ID)
		}
		if !e.DataPoint.Valid() {
			return Catalog{}, fmt.Errorf("catalog entry %s: unknown data point %q", e.ID, e.DataPoint)
		}
		m[e.ID] = e
	}
	ids := lo.Keys(m)
	sort.Strings(ids)
	return Catalog{entries: m, ids: ids}, nil
}

// MustCatalog is NewCatalog for static tables; it panics on invalid input.
func MustCatalog(entries []CatalogEntry) Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the entry for id.
func (c Catalog) Lookup(id string) (CatalogEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Len returns the number of data elements.
func (c Catalog) Len() int { return len(c.ids) }

// IDs returns all data element ids in lexical order.
func (c Catalog) IDs() []string { return append([]string(nil), c.ids...) }

// IDsOf returns the ids whose data point is k, in lexical order.
func (c Catalog) IDsOf(k Kind) []string {
	return lo.Filter(c.ids, func(id string, _ int) bool { return c.entries[id].DataPoint == k })
}

// Entries returns a copy of every entry, ordered by id.
func (c Catalog) Entries() []CatalogEntry {
	return lo.Map(c.ids, func(id string, _ int) CatalogEntry { return c.entries[id] })
}

const (
	descDetermine  = "HIV 1+2 - Determine Complete HIV Kit - accessories included - 100 tests - 7D2343SET"
	descTLD        = "Dolutegravir/Lamivudine/Tenofovir 50/300/300mg tablet, container of 90 tablets - no carton"
	descMalariaRDT = "Malaria Rapid Diagnostic Test Kit - Pf only - 25 Tests"
	descAL         = "Artemether/Lumefantrine 20/120mg 24 tablet, pack of 30 blisters"
	descXpert      = "Xpert MTB/RIF ULTRA Cartridge 50"
	descRHZE       = "Ethambutol/Isoniazid/Pyrazinamide/Rifampicin 275/75/400/150mg 28 tablet, pack of 24 blisters (672)"
	descArtesunate = "Artesunate 60mg powder for solution for injection, 1 vial"
)

// DefaultEntries is the tracked OSA product list for the Uganda HMIS.
func DefaultEntries() []CatalogEntry {
	return []CatalogEntry{
		{ID: "E6bQbrXhKgU", Code: 10286, DataPoint: QuantityUsed, Description: descDetermine},
		{ID: "RQ1tlXaPcar", Code: 10286, DataPoint: StockOnHand, Description: descDetermine},
		{ID: "VkjK3NWHyJR", Code: 10867, DataPoint: QuantityUsed, Description: descTLD},
		{ID: "L2exKCG9ZxY", Code: 10867, DataPoint: StockOnHand, Description: descTLD},
		{ID: "oCtCwUE7utd", Code: 10309, DataPoint: QuantityUsed, Description: descMalariaRDT},
		{ID: "HhhkiZDx1vo", Code: 10309, DataPoint: StockOnHand, Description: descMalariaRDT},
		{ID: "RIBMopGoWHl", Code: 10005, DataPoint: QuantityUsed, Description: descAL},
		{ID: "fy34HLoHa0x", Code: 10005, DataPoint: StockOnHand, Description: descAL},
		{ID: "LwQS4dn6CNo", Code: 17213, DataPoint: QuantityUsed, Description: descXpert},
		{ID: "tZhzAESh4sL", Code: 17213, DataPoint: StockOnHand, Description: descXpert},
		{ID: "tViJTDJyvRx", Code: 15231, DataPoint: QuantityUsed, Description: descRHZE},
		{ID: "LIyDtNQVsGo", Code: 15231, DataPoint: StockOnHand, Description: descRHZE},
		{ID: "FNT0AWnEok7", Code: 10100, DataPoint: QuantityUsed, Description: descArtesunate},
		{ID: "O3hT4aIhzLi", Code: 10100, DataPoint: StockOnHand, Description: descArtesunate},
	}
}

// DefaultCatalog returns the catalog built from DefaultEntries.
func DefaultCatalog() Catalog { return MustCatalog(DefaultEntries()) }
