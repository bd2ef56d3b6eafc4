package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"osa-stats/domain/config"
)

// DefaultPath is used when CONFIG_PATH is unset.
const DefaultPath = "./config.yml"

// Path returns CONFIG_PATH or DefaultPath.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

// Load parses the YAML configuration file at path on top of the defaults.
// A missing file is not an error: defaults plus environment are returned.
func Load(path string) (*config.Config, error) {
	c := config.Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("config.missing", "path", path)
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		slog.Info(fmt.Sprintf("Loaded config: %s", path))
	}
	applyEnv(c)
	return c, nil
}

// LoadDefault loads the file at Path().
func LoadDefault() (*config.Config, error) { return Load(Path()) }

func applyEnv(c *config.Config) {
	if v := os.Getenv("DHIS2_BASE_URL"); v != "" {
		c.DHIS2.BaseURL = v
	}
	c.DHIS2.Token = os.Getenv("DHIS2_TOKEN")
	c.DHIS2.Username = os.Getenv("DHIS2_USERNAME")
	c.DHIS2.Password = os.Getenv("DHIS2_PASSWORD")
	if v := os.Getenv("UPLOAD_ENDPOINT"); v != "" {
		c.Upload.Endpoint = v
	}
	c.Upload.OAuth2.ClientSecret = os.Getenv("UPLOAD_CLIENT_SECRET")
}
