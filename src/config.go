package libreorama

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

/*------------------------------------------------------------------
 *
 * Purpose:	Optional controller profile: maps a LOR unit id to a
 *		human-readable label and an optional circuit count. Only the
 *		label is read, for debug log output; --list-devices does not
 *		load this file.
 *
 * Description:	The search-path-then-os.Open-then-yaml.Unmarshal shape is
 *		adapted from deviceid.go's deviceid_init (tocalls.yaml); the
 *		schema is new, there's no APRS device-identifier table to
 *		carry over.
 *
 *------------------------------------------------------------------*/

// ControllerProfile describes one LOR unit for friendlier log/CLI output.
type ControllerProfile struct {
	Unit     uint8  `yaml:"unit"`
	Label    string `yaml:"label"`
	Circuits int    `yaml:"circuits"`
}

// Config is the optional controllers.yaml document.
type Config struct {
	Controllers []ControllerProfile `yaml:"controllers"`
}

func configSearchLocations(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}

	locations := []string{"controllers.yaml"}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		locations = append(locations, filepath.Join(xdg, "libreorama", "controllers.yaml"))
	}

	locations = append(locations, "/etc/libreorama/controllers.yaml")
	return locations
}

// LoadConfig searches the standard locations (or just path, if non-empty)
// for a controller profile file. Absence of the file at every location is
// not an error — it returns an empty Config.
func LoadConfig(path string) (*Config, error) {
	var fp *os.File
	for _, location := range configSearchLocations(path) {
		f, err := os.Open(location)
		if err == nil {
			fp = f
			break
		}
	}

	if fp == nil {
		return &Config{}, nil
	}
	defer fp.Close()

	data, err := io.ReadAll(fp)
	if err != nil {
		return nil, wrapErr(KindSystemError, "reading controller profile", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, wrapErr(KindSystemError, "parsing controller profile", err)
	}

	return &cfg, nil
}

// Label returns the configured label for unit, or a default placeholder.
func (c *Config) Label(unit uint8) string {
	for _, ctrl := range c.Controllers {
		if ctrl.Unit == unit {
			if ctrl.Label != "" {
				return ctrl.Label
			}
			break
		}
	}
	return "unit"
}
