package config

import (
	"eld-trip-planner/internal/hos"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadRules reads an HOS rule set from a .toml or .yaml file, layered over
// hos.DefaultLimits. An empty path or a missing file yields the defaults.
func LoadRules(path string) (hos.Rules, error) {
	limits := hos.DefaultLimits()
	if strings.TrimSpace(path) == "" {
		return hos.NewRules(limits)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return hos.NewRules(limits)
		}
		return hos.Rules{}, fmt.Errorf("load rules %q: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &limits)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &limits)
	default:
		return hos.Rules{}, fmt.Errorf("load rules %q: unsupported extension %q", path, ext)
	}
	if err != nil {
		return hos.Rules{}, fmt.Errorf("load rules %q: decode: %w", path, err)
	}

	rules, err := hos.NewRules(limits)
	if err != nil {
		return hos.Rules{}, fmt.Errorf("load rules %q: %w", path, err)
	}
	return rules, nil
}
