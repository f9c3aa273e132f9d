package listings

import (
	_ "embed"
	"fmt"
	"strings"

	"lckr_backend/internal/geocoding"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a fixed LCKR pickup location.
type Preset struct {
	Key     string           `json:"key" yaml:"key"`
	Aliases []string         `json:"aliases,omitempty" yaml:"aliases"`
	Label   string           `json:"label" yaml:"label"`
	Hidden  bool             `json:"-" yaml:"hidden"`
	Address string           `json:"address" yaml:"address"`
	Origin  geocoding.LatLng `json:"origin" yaml:"origin"`
}

// Presets is an ordered preset catalogue indexed by key and alias.
type Presets struct {
	ordered []Preset
	byKey   map[string]Preset
}

// DefaultPresets parses the embedded catalogue.
func DefaultPresets() (*Presets, error) {
	return ParsePresets(presetsYAML)
}

// ParsePresets parses a YAML preset list. Keys and aliases must be unique
// and every preset needs an address.
func ParsePresets(data []byte) (*Presets, error) {
	var list []Preset
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}

	p := &Presets{ordered: list, byKey: make(map[string]Preset, len(list))}
	for _, preset := range list {
		if preset.Key == "" || strings.TrimSpace(preset.Address) == "" {
			return nil, fmt.Errorf("preset %q: key and address are required", preset.Key)
		}
		for _, key := range append([]string{preset.Key}, preset.Aliases...) {
			if _, dup := p.byKey[key]; dup {
				return nil, fmt.Errorf("duplicate preset key %q", key)
			}
			p.byKey[key] = preset
		}
	}
	return p, nil
}

// Lookup resolves a key or alias.
func (p *Presets) Lookup(key string) (Preset, bool) {
	preset, ok := p.byKey[key]
	return preset, ok
}

// Selectable returns the presets offered in the picker, in catalogue order.
func (p *Presets) Selectable() []Preset {
	out := make([]Preset, 0, len(p.ordered))
	for _, preset := range p.ordered {
		if !preset.Hidden {
			out = append(out, preset)
		}
	}
	return out
}
