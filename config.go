package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// MigrationConfig holds the full TOML-driven migration configuration.
type MigrationConfig struct {
	Method      string         `toml:"method"`     // "software" or "dump"
	BatchSize   int            `toml:"batch_size"` // rows per insert batch
	Source      Endpoint       `toml:"source"`
	Destination Endpoint       `toml:"destination"`
	Rewrite     *RewriteConfig `toml:"rewrite"`
	Hooks       HooksConfig    `toml:"hooks"`

	// configDir is the directory containing the TOML file, used to resolve relative SQL paths.
	configDir string
}

// RewriteConfig describes the optional post-migration storefront-domain
// rewrite. Presence of the [rewrite] section enables it.
type RewriteConfig struct {
	OldDomain string `toml:"old_domain"`
	NewDomain string `toml:"new_domain"`
	Table     string `toml:"table"`
}

type HooksConfig struct {
	BeforeData []string `toml:"before_data"`
	AfterData  []string `toml:"after_data"`
}

// loadConfig reads a TOML config file and returns a MigrationConfig with defaults applied.
func loadConfig(path string) (*MigrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := MigrationConfig{
		Method:      "software",
		BatchSize:   defaultBatchSize,
		Source:      Endpoint{Host: "localhost", Port: 3306},
		Destination: Endpoint{Host: "localhost", Port: 3306},
	}
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if unknown := md.Undecoded(); len(unknown) > 0 {
		keys := make([]string, len(unknown))
		for i, k := range unknown {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg.configDir = filepath.Dir(absPath)

	switch cfg.Method {
	case "software", "dump":
	default:
		return nil, fmt.Errorf("method must be one of: software, dump")
	}

	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch_size must be positive")
	}

	if err := validateEndpoint("source", &cfg.Source); err != nil {
		return nil, err
	}
	if err := validateEndpoint("destination", &cfg.Destination); err != nil {
		return nil, err
	}

	if cfg.Rewrite != nil {
		r := cfg.Rewrite
		if r.Table == "" {
			r.Table = "sales_channel_domain"
		}
		if r.OldDomain == "" || r.NewDomain == "" {
			return nil, fmt.Errorf("rewrite.old_domain and rewrite.new_domain are both required")
		}
		if r.OldDomain == r.NewDomain {
			return nil, fmt.Errorf("rewrite.old_domain and rewrite.new_domain must differ")
		}
	}

	return &cfg, nil
}

func validateEndpoint(section string, ep *Endpoint) error {
	if ep.Host == "" {
		ep.Host = "localhost"
	}
	if ep.Port == 0 {
		ep.Port = 3306
	}
	if ep.User == "" {
		return fmt.Errorf("%s.user is required", section)
	}
	if ep.Password == "" {
		return fmt.Errorf("%s.password is required", section)
	}
	if ep.Database == "" {
		return fmt.Errorf("%s.database is required", section)
	}
	return nil
}

// resolvePath resolves a path relative to the config file directory.
func (c *MigrationConfig) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.configDir, p)
}
