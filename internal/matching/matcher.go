package matching

import (
	"errors"
	"math"
	"strings"

	"candimatch/internal/listing"
)

const (
	// neutralScore is used for every sub-score whose preference is not
	// configured: absence of a preference is never an error.
	neutralScore = 0.5

	// missingInfoScore is used when the listing lacks the information a
	// configured preference needs.
	missingInfoScore = 0.3

	// mismatchScore is used when the listing information is present but
	// matches no preference.
	mismatchScore = 0.2

	// fuzzyLocationScore rewards a near-miss location, found by the
	// similarity function instead of substring containment.
	fuzzyLocationScore = 0.8

	// fuzzyThreshold is the minimum similarity ratio for a fuzzy
	// location match.
	fuzzyThreshold = 0.8
)

// Matcher computes a normalized relevance score per listing from five
// weighted sub-scores. It holds only read-only state, so a single
// Matcher is safe to share across scoring calls.
type Matcher struct {
	prefs   *Preferences
	weights Weights
	sim     Similarity
}

func NewMatcher(prefs *Preferences, weights Weights, sim Similarity) *Matcher {
	if prefs == nil {
		prefs = &Preferences{}
	}
	if sim == nil {
		sim = NewSequenceRatio()
	}
	return &Matcher{prefs: prefs, weights: weights, sim: sim}
}

// Score returns a relevance score in [0,1] for the listing.
func (m *Matcher) Score(l *listing.Listing) (float64, error) {
	if l == nil {
		return 0, errors.New("listing is required")
	}

	text := l.SearchText()

	total := m.keywordScore(text)*m.weights.Keywords +
		m.locationScore(l.Location)*m.weights.Location +
		m.contractScore(l.Contract)*m.weights.Contract +
		m.salaryScore(l.Salary)*m.weights.Salary +
		m.companySizeScore()*m.weights.CompanySize

	// Upper clamp guards against weight drift.
	return math.Min(total, 1.0), nil
}

// keywordScore is the fraction of preferred stack keywords found in the
// listing text.
func (m *Matcher) keywordScore(text string) float64 {
	if len(m.prefs.StackKeywords) == 0 {
		return neutralScore
	}

	matches := 0
	for _, keyword := range m.prefs.StackKeywords {
		if strings.Contains(text, strings.ToLower(keyword)) {
			matches++
		}
	}
	return float64(matches) / float64(len(m.prefs.StackKeywords))
}

func (m *Matcher) locationScore(location string) float64 {
	if len(m.prefs.Locations) == 0 {
		return neutralScore
	}

	location = strings.ToLower(location)
	if location == "" {
		return missingInfoScore
	}

	for _, preferred := range m.prefs.Locations {
		if strings.Contains(location, strings.ToLower(preferred)) {
			return 1.0
		}
	}

	for _, preferred := range m.prefs.Locations {
		if m.sim.Ratio(strings.ToLower(preferred), location) >= fuzzyThreshold {
			return fuzzyLocationScore
		}
	}

	return mismatchScore
}

func (m *Matcher) contractScore(contract string) float64 {
	if len(m.prefs.ContractTypes) == 0 {
		return neutralScore
	}

	contract = strings.ToLower(contract)
	if contract == "" {
		return missingInfoScore
	}

	for _, preferred := range m.prefs.ContractTypes {
		if strings.Contains(contract, strings.ToLower(preferred)) {
			return 1.0
		}
	}
	return mismatchScore
}

func (m *Matcher) salaryScore(salary string) float64 {
	if m.prefs.MinSalary <= 0 {
		return neutralScore
	}
	if salary == "" {
		return missingInfoScore
	}

	value, ok := ExtractSalary(salary)
	if !ok {
		return missingInfoScore
	}

	switch {
	case value >= m.prefs.MinSalary:
		return 1.0
	case value >= m.prefs.MinSalary*0.8:
		return 0.7
	default:
		return missingInfoScore
	}
}

// companySizeScore is a reserved extension point: there is no company
// dataset to score against yet, so it stays neutral.
func (m *Matcher) companySizeScore() float64 {
	return neutralScore
}
