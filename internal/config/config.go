package config

import (
	"fmt"
	"os"

	"github.com/danmuck/otrwire/internal/protocol"
	"github.com/pelletier/go-toml/v2"
)

// Profile is the decode policy shared by every message decoded in a run.
type Profile struct {
	MaxDataBytes  uint32 `toml:"max_data_bytes"`
	Versions      []int  `toml:"versions"`
	AllowTrailing bool   `toml:"allow_trailing"`
}

// profileFile distinguishes absent keys from zero values.
type profileFile struct {
	MaxDataBytes  *uint32 `toml:"max_data_bytes"`
	Versions      []int   `toml:"versions"`
	AllowTrailing *bool   `toml:"allow_trailing"`
}

func DefaultProfile() Profile {
	return Profile{
		MaxDataBytes: protocol.DefaultLimits().MaxDataBytes,
		Versions:     []int{2, 3},
	}
}

// Limits maps the profile onto decoder limits.
func (p Profile) Limits() protocol.Limits {
	return protocol.Limits{MaxDataBytes: p.MaxDataBytes}
}

// AcceptsVersion reports whether messages of protocol version v may be decoded.
func (p Profile) AcceptsVersion(v uint16) bool {
	for _, allowed := range p.Versions {
		if allowed == int(v) {
			return true
		}
	}
	return false
}

// LoadProfile reads a TOML profile; keys missing from the file keep their
// defaults.
func LoadProfile(path string) (Profile, error) {
	var raw profileFile
	if err := loadToml(path, &raw); err != nil {
		return Profile{}, err
	}
	cfg := DefaultProfile()
	if raw.MaxDataBytes != nil {
		cfg.MaxDataBytes = *raw.MaxDataBytes
	}
	if raw.Versions != nil {
		cfg.Versions = raw.Versions
	}
	if raw.AllowTrailing != nil {
		cfg.AllowTrailing = *raw.AllowTrailing
	}
	if err := ValidateProfile(cfg); err != nil {
		return Profile{}, fmt.Errorf("profile invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateProfile(cfg Profile) error {
	if len(cfg.Versions) == 0 {
		return fmt.Errorf("profile must accept at least one version")
	}
	for i, v := range cfg.Versions {
		if v != 2 && v != 3 {
			return fmt.Errorf("versions[%d] unsupported: %d", i, v)
		}
	}
	return nil
}
