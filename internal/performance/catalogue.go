package performance

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed districts.yaml
var defaultCatalogueYAML []byte

type catalogueState struct {
	State     string              `yaml:"state"`
	Districts []catalogueDistrict `yaml:"districts"`
}

type catalogueDistrict struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// ParseCatalogue decodes a YAML district catalogue. Duplicate state/name
// pairs are collapsed.
func ParseCatalogue(data []byte) ([]District, error) {
	var states []catalogueState
	if err := yaml.Unmarshal(data, &states); err != nil {
		return nil, fmt.Errorf("parse district catalogue: %w", err)
	}

	seen := make(map[string]bool)
	var out []District
	for _, s := range states {
		state := strings.TrimSpace(s.State)
		if state == "" {
			return nil, fmt.Errorf("parse district catalogue: state name is empty")
		}
		for _, d := range s.Districts {
			name := strings.TrimSpace(d.Name)
			if name == "" {
				return nil, fmt.Errorf("parse district catalogue: empty district in %s", state)
			}
			key := strings.ToLower(state + "|" + name)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, District{State: state, Name: name, Aliases: d.Aliases})
		}
	}
	return out, nil
}

// DefaultCatalogue returns the embedded catalogue.
func DefaultCatalogue() ([]District, error) {
	return ParseCatalogue(defaultCatalogueYAML)
}
