package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and validates its magic field, the
// Go-native analogue of MicroAPRS's EEPROM load routine rejecting a block
// whose magic byte doesn't match (original_source/Modem/cfg/cfg_default.c).
// A missing file is not an error: it returns Default().
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.Magic != configMagic {
		return Config{}, fmt.Errorf("config: %s has magic %q, want %q (erased or foreign config)", path, cfg.Magic, configMagic)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, stamping the magic field so a later
// Load can tell it apart from an unrelated file.
func Save(path string, cfg Config) error {
	cfg.Magic = configMagic
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
