package dhis2

import (
	"net/url"
	"strconv"
	"strings"
)

// Header describes one column of an analytics response.
type Header struct {
	Name      string `json:"name"`
	Column    string `json:"column"`
	ValueType string `json:"valueType"`
	Type      string `json:"type"`
	Hidden    bool   `json:"hidden"`
	Meta      bool   `json:"meta"`
}

// Dimensions lists the item ids resolved for each requested dimension.
type Dimensions struct {
	DX []string `json:"dx"`
	PE []string `json:"pe"`
	OU []string `json:"ou"`
	CO []string `json:"co"`
}

// Item is the display metadata of a dimension item.
type Item struct {
	Name string `json:"name"`
}

type MetaData struct {
	Items      map[string]Item `json:"items"`
	Dimensions Dimensions      `json:"dimensions"`
}

// Analytics is the analytics.json payload. Rows are [dx, ou, pe, value].
type Analytics struct {
	Headers     []Header   `json:"headers"`
	MetaData    MetaData   `json:"metaData"`
	Rows        [][]string `json:"rows"`
	Height      int        `json:"height"`
	Width       int        `json:"width"`
	HeaderWidth int        `json:"headerWidth"`
}

// OrgUnitCount is the number of organisation units at the requested level.
func (a *Analytics) OrgUnitCount() int { return len(a.MetaData.Dimensions.OU) }

// AnalyticsQuery selects the data elements, organisation units and periods to pull.
type AnalyticsQuery struct {
	DataElements []string
	OrgUnit      string
	Periods      []string
}

// Values encodes the query as repeated dimension parameters.
func (q AnalyticsQuery) Values() url.Values {
	v := url.Values{}
	v.Add("dimension", "dx:"+strings.Join(q.DataElements, ";"))
	v.Add("dimension", "ou:"+q.OrgUnit)
	v.Add("dimension", "pe:"+strings.Join(q.Periods, ";"))
	return v
}

// GridHeader is a column of a tabular resource such as an SQL view.
type GridHeader struct {
	Name   string `json:"name"`
	Column string `json:"column"`
}

// Grid is a header + rows table. Cells may be strings, numbers or null upstream.
type Grid struct {
	Headers []GridHeader `json:"headers"`
	Rows    [][]any      `json:"rows"`
}

// HeaderNames returns the header names in column order.
func (g *Grid) HeaderNames() []string {
	names := make([]string, len(g.Headers))
	for i, h := range g.Headers {
		names[i] = h.Name
	}
	return names
}

// StringRows renders every cell as a string; null becomes "".
func (g *Grid) StringRows() [][]string {
	out := make([][]string, len(g.Rows))
	for i, row := range g.Rows {
		cells := make([]string, len(row))
		for j, c := range row {
			cells[j] = cellString(c)
		}
		out[i] = cells
	}
	return out
}

func cellString(c any) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}
