package config

import (
	"errors"
	"fmt"
	"time"

	"osa-stats/domain/osa"
)

// Config represents the structure of config.yml used by the tool.
type Config struct {
	DHIS2   DHIS2  `yaml:"dhis2"`
	Report  Report `yaml:"report"`
	Upload  Upload `yaml:"upload"`
	Web     Web    `yaml:"web"`
	DataDir string `yaml:"data_dir"`
}

// DHIS2 describes the upstream analytics instance. Credentials come from the environment.
type DHIS2 struct {
	BaseURL          string        `yaml:"base_url"`
	OrgUnitLevel     string        `yaml:"org_unit_level"`
	FacilityResource string        `yaml:"facility_resource"`
	Timeout          time.Duration `yaml:"timeout"`

	Token    string `yaml:"-"`
	Username string `yaml:"-"`
	Password string `yaml:"-"`
}

// Report tunes how records are produced.
type Report struct {
	ReportingUnit     string             `yaml:"reporting_unit"`
	Country           string             `yaml:"country"`
	QuantityUsedCodes []int              `yaml:"quantity_used_codes"`
	Catalog           []osa.CatalogEntry `yaml:"catalog"`
}

// Upload is the CSV ingestion endpoint.
type Upload struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	OAuth2   OAuth2        `yaml:"oauth2"`
}

// OAuth2 enables client-credentials auth on the ingestion endpoint when TokenURL is set.
type OAuth2 struct {
	TokenURL     string   `yaml:"token_url"`
	ClientID     string   `yaml:"client_id"`
	Scopes       []string `yaml:"scopes"`
	ClientSecret string   `yaml:"-"`
}

// Enabled reports whether client-credentials auth is configured.
func (o OAuth2) Enabled() bool { return o.TokenURL != "" }

type Web struct {
	Addr     string        `yaml:"addr"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DHIS2: DHIS2{
			OrgUnitLevel: "LEVEL-5",
			Timeout:      60 * time.Second,
		},
		Report: Report{
			ReportingUnit:     osa.DefaultReportingUnit,
			Country:           "Uganda",
			QuantityUsedCodes: append([]int(nil), osa.DefaultQuantityCodes[:]...),
		},
		Upload: Upload{
			Endpoint: "http://localhost:3001",
			Timeout:  30 * time.Second,
		},
		Web: Web{
			Addr:     ":8080",
			CacheTTL: 5 * time.Minute,
		},
		DataDir: "./data",
	}
}

// Catalog builds the data element catalog, falling back to the built-in one.
func (c *Config) Catalog() (osa.Catalog, error) {
	if len(c.Report.Catalog) == 0 {
		return osa.DefaultCatalog(), nil
	}
	return osa.NewCatalog(c.Report.Catalog)
}

// QuantityCodes returns the month-position table for quantity-used records.
func (c *Config) QuantityCodes() (osa.QuantityCodes, error) {
	codes := c.Report.QuantityUsedCodes
	if len(codes) == 0 {
		return osa.DefaultQuantityCodes, nil
	}
	if len(codes) != 3 {
		return osa.QuantityCodes{}, fmt.Errorf("report.quantity_used_codes: want 3 codes, got %d", len(codes))
	}
	if codes[0] == codes[1] || codes[1] == codes[2] || codes[0] == codes[2] {
		return osa.QuantityCodes{}, fmt.Errorf("report.quantity_used_codes: codes must be distinct, got %v", codes)
	}
	return osa.QuantityCodes{codes[0], codes[1], codes[2]}, nil
}

// Transformer builds the row transformer described by the report section.
func (c *Config) Transformer() (*osa.Transformer, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, err
	}
	codes, err := c.QuantityCodes()
	if err != nil {
		return nil, err
	}
	return &osa.Transformer{Catalog: cat, QuantityCodes: codes, ReportingUnit: c.Report.ReportingUnit}, nil
}

// ValidateUpstream checks what the network commands need.
func (c *Config) ValidateUpstream() error {
	var errs []error
	if c.DHIS2.BaseURL == "" {
		errs = append(errs, errors.New("dhis2.base_url is required (or set DHIS2_BASE_URL)"))
	}
	if c.DHIS2.FacilityResource == "" {
		errs = append(errs, errors.New("dhis2.facility_resource is required"))
	}
	if _, err := c.Transformer(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
