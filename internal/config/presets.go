// Package config provides configuration management for the Steady Better application.
package config

import (
	"fmt"
	"sort"
)

// Named row-filter presets for common market segments. "value" keeps every
// match priced at or above even-money-plus on all outcomes; the country
// presets target the odds bands their leagues tend to settle in.
var filterPresets = map[string]FilterConfig{
	"value": {Policy: "min_coef", Low: 2.30},
	"uk":    {Policy: "range_coef", Low: 1.50, High: f64ptr(1.99)},
	"spain": {Policy: "range_coef", Low: 1.70, High: f64ptr(2.10)},
}

// FilterPreset returns the filter configuration for a named preset.
func FilterPreset(name string) (FilterConfig, error) {
	preset, ok := filterPresets[name]
	if !ok {
		return FilterConfig{}, fmt.Errorf("unknown filter preset %q (available: %v)", name, PresetNames())
	}
	return preset, nil
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(filterPresets))
	for name := range filterPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func f64ptr(v float64) *float64 {
	return &v
}
