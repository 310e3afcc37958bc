// Package profiles holds the compiled-in threshold presets.
package profiles

import "github.com/dotcommander/aquarank/internal/scoring"

// Profile is a named threshold preset for one population.
type Profile struct {
	ID         string               `json:"id"`
	Label      string               `json:"label"`
	Thresholds scoring.ThresholdSet `json:"thresholds"`
}

// Default is the profile a session starts on.
const Default = "nourrisson"

// registry is ordered from the strictest preset to the most permissive.
var registry = []Profile{
	{
		ID:         "nourrisson",
		Label:      "Infant (ANSES guidance)",
		Thresholds: scoring.ThresholdSet{ResidueMax: 50, NitratesMax: 10, SodiumMax: 15},
	},
	{
		ID:         "sensible",
		Label:      "Sensitive public",
		Thresholds: scoring.ThresholdSet{ResidueMax: 150, NitratesMax: 20, SodiumMax: 50},
	},
	{
		ID:         "standard",
		Label:      "Daily use",
		Thresholds: scoring.ThresholdSet{ResidueMax: 500, NitratesMax: 50, SodiumMax: 200},
	},
}

// List returns every profile in display order. The slice is a copy.
func List() []Profile {
	out := make([]Profile, len(registry))
	copy(out, registry)
	return out
}

// Lookup finds a profile by id.
func Lookup(id string) (Profile, bool) {
	for _, p := range registry {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// IDs returns the profile identifiers in display order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, p := range registry {
		ids[i] = p.ID
	}
	return ids
}
