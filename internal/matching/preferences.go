package matching

import "strings"

// Preferences is the candidate profile the engine matches listings
// against. Keys follow the configuration file format.
type Preferences struct {
	// StackKeywords are skills/technologies used for keyword scoring.
	StackKeywords []string `mapstructure:"stack_technique"`
	// Locations are preferred location substrings. A "remote" entry
	// relaxes the mandatory location gate for every listing.
	Locations []string `mapstructure:"localisation"`
	// ContractTypes are acceptable contract-type substrings.
	ContractTypes []string `mapstructure:"type_contrat"`
	// MinSalary is the minimum acceptable annual salary. Zero means no
	// preference.
	MinSalary float64 `mapstructure:"salaire_min"`
	// RequiredKeywords are mandatory: at least one must appear in
	// title+description for a listing to pass the gate. Empty means the
	// gate always passes.
	RequiredKeywords []string `mapstructure:"mots_cles"`
}

// AcceptsRemote reports whether any preferred location is a remote-like
// entry, which relaxes the location gate entirely.
func (p *Preferences) AcceptsRemote() bool {
	for _, loc := range p.Locations {
		if strings.Contains(strings.ToLower(loc), "remote") {
			return true
		}
	}
	return false
}

// HasRequiredKeyword reports whether the lowercased haystack contains at
// least one mandatory keyword. An empty keyword list always passes.
func (p *Preferences) HasRequiredKeyword(text string) bool {
	if len(p.RequiredKeywords) == 0 {
		return true
	}
	for _, keyword := range p.RequiredKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// AllowsLocation applies the mandatory location rule: remote preferences
// admit everything, listings without location text pass by default, and
// anything else must substring-match a preferred location.
func (p *Preferences) AllowsLocation(location string) bool {
	if len(p.Locations) == 0 {
		return true
	}
	if p.AcceptsRemote() {
		return true
	}

	location = strings.ToLower(location)
	if location == "" {
		return true
	}
	for _, preferred := range p.Locations {
		if strings.Contains(location, strings.ToLower(preferred)) {
			return true
		}
	}
	return false
}
