package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bradsommer/list-validator/matching"
)

// RunConfig is the persisted per-run configuration: which rules are enabled,
// which fields the run treats as required, and any curated header overrides.
// Administration of this file is outside the pipeline's scope; it only reads
// the result.
type RunConfig struct {
	// EnabledRules filters the registry. Nil (key absent) runs everything;
	// an explicit empty list runs nothing.
	EnabledRules []string `yaml:"enabled_rules"`
	// RequiredFields overrides the catalog's required flags when set.
	RequiredFields []string `yaml:"required_fields"`
	// Overrides are curated header bindings in precedence order
	// (admin override first, then manual user remaps).
	Overrides []matching.Override `yaml:"overrides"`
}

// LoadRunConfig reads a YAML run configuration.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run config: %w", err)
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse run config %s: %w", path, err)
	}
	return &cfg, nil
}
