package matching

import (
	"math"
	"testing"

	"candimatch/internal/listing"
)

const scoreTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= scoreTolerance
}

func TestScoreNoPreferencesIsNeutral(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher(&Preferences{}, DefaultWeights(), nil)

	score, err := matcher.Score(&listing.Listing{
		ID:          "1",
		Title:       "Backend developer",
		Description: "Anything goes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(score, 0.5) {
		t.Fatalf("expected neutral score 0.5, got %v", score)
	}
}

func TestScorePerfectMatch(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		StackKeywords: []string{"Go", "Docker"},
		Locations:     []string{"Paris"},
		ContractTypes: []string{"CDI"},
		MinSalary:     40000,
	}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	score, err := matcher.Score(&listing.Listing{
		ID:          "1",
		Title:       "Go developer",
		Description: "Docker, Kubernetes and more",
		Location:    "Paris",
		Contract:    "CDI",
		Salary:      "45 000 €",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Everything matches except the company-size placeholder, which
	// stays neutral at 0.5 and weighs 0.10.
	if !almostEqual(score, 0.95) {
		t.Fatalf("expected score 0.95, got %v", score)
	}
}

func TestScorePerfectMatchWithoutPlaceholderWeight(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		StackKeywords: []string{"go"},
		Locations:     []string{"paris"},
		ContractTypes: []string{"cdi"},
		MinSalary:     40000,
	}
	weights := Weights{
		Keywords:    0.35,
		Location:    0.30,
		Contract:    0.20,
		Salary:      0.15,
		CompanySize: 0,
	}
	if err := weights.Validate(); err != nil {
		t.Fatalf("weights should be valid: %v", err)
	}

	matcher := NewMatcher(prefs, weights, nil)
	score, err := matcher.Score(&listing.Listing{
		ID:       "1",
		Title:    "Go developer",
		Location: "Paris",
		Contract: "CDI",
		Salary:   "45K",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(score, 1.0) {
		t.Fatalf("expected score 1.0, got %v", score)
	}
}

func TestScoreClampedAtOne(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		StackKeywords: []string{"go"},
		Locations:     []string{"paris"},
	}
	// Oversized weights simulate drift; the final score must stay
	// clamped to 1.0.
	weights := Weights{Keywords: 1, Location: 1, Contract: 1, Salary: 1, CompanySize: 1}

	matcher := NewMatcher(prefs, weights, nil)
	score, err := matcher.Score(&listing.Listing{
		ID:       "1",
		Title:    "Go developer",
		Location: "Paris",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected clamped score 1.0, got %v", score)
	}
}

func TestScoreKeywordFraction(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		StackKeywords: []string{"go", "kubernetes", "postgres", "docker"},
	}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	score, err := matcher.Score(&listing.Listing{
		ID:          "1",
		Title:       "Go developer",
		Description: "You will work with Docker every day",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 of 4 keywords matched; the other four sub-scores are neutral.
	want := 0.3*0.5 + 0.7*0.5
	if !almostEqual(score, want) {
		t.Fatalf("expected %v, got %v", want, score)
	}
}

func TestScoreLocationVariants(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{Locations: []string{"Paris"}}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	// Only the location preference is set, so score = 0.375 + 0.25*sub.
	tests := []struct {
		name     string
		location string
		want     float64
	}{
		{name: "exact substring match", location: "Paris 11e", want: 0.375 + 0.25*1.0},
		{name: "fuzzy match on typo", location: "Pariis", want: 0.375 + 0.25*0.8},
		{name: "no match", location: "Marseille", want: 0.375 + 0.25*0.2},
		{name: "missing location", location: "", want: 0.375 + 0.25*0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, err := matcher.Score(&listing.Listing{ID: "1", Location: tt.location})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(score, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, score)
			}
		})
	}
}

func TestScoreSalaryVariants(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{MinSalary: 40000}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	// Only the salary preference is set, so score = 0.425 + 0.15*sub.
	tests := []struct {
		name   string
		salary string
		want   float64
	}{
		{name: "at or above minimum", salary: "45 000 €", want: 0.425 + 0.15*1.0},
		{name: "within 80 percent", salary: "35 000 €", want: 0.425 + 0.15*0.7},
		{name: "below 80 percent", salary: "20 000 €", want: 0.425 + 0.15*0.3},
		{name: "unparsable", salary: "competitive", want: 0.425 + 0.15*0.3},
		{name: "missing", salary: "", want: 0.425 + 0.15*0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, err := matcher.Score(&listing.Listing{ID: "1", Salary: tt.salary})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(score, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, score)
			}
		})
	}
}

func TestScoreContractVariants(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{ContractTypes: []string{"CDI", "freelance"}}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	// Only the contract preference is set, so score = 0.4 + 0.2*sub.
	tests := []struct {
		name     string
		contract string
		want     float64
	}{
		{name: "exact match", contract: "CDI temps plein", want: 0.4 + 0.2*1.0},
		{name: "no match", contract: "stage", want: 0.4 + 0.2*0.2},
		{name: "missing contract", contract: "", want: 0.4 + 0.2*0.3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			score, err := matcher.Score(&listing.Listing{ID: "1", Contract: tt.contract})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !almostEqual(score, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, score)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		StackKeywords: []string{"go", "rust"},
		Locations:     []string{"Paris", "Remote"},
		ContractTypes: []string{"CDI"},
		MinSalary:     50000,
	}
	matcher := NewMatcher(prefs, DefaultWeights(), nil)

	listings := []*listing.Listing{
		{ID: "1"},
		{ID: "2", Title: "Go developer", Location: "Paris", Contract: "CDI", Salary: "60 000 €"},
		{ID: "3", Title: "Chef de projet", Location: "Tokyo", Contract: "stage", Salary: "10 000 €"},
		{ID: "4", Description: "rust and go", Location: "remote", Salary: "45K"},
	}

	for _, l := range listings {
		score, err := matcher.Score(l)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", l.ID, err)
		}
		if score < 0 || score > 1 {
			t.Fatalf("score out of bounds for %s: %v", l.ID, score)
		}
	}
}

func TestScoreNilListing(t *testing.T) {
	t.Parallel()

	matcher := NewMatcher(&Preferences{}, DefaultWeights(), nil)
	if _, err := matcher.Score(nil); err == nil {
		t.Fatalf("expected an error for a nil listing")
	}
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := Weights{Keywords: 0.5, Location: 0.5, Contract: 0.5}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected an error for weights not summing to 1.0")
	}

	negative := Weights{Keywords: -0.1, Location: 0.5, Contract: 0.3, Salary: 0.2, CompanySize: 0.1}
	if err := negative.Validate(); err == nil {
		t.Fatalf("expected an error for a negative weight")
	}
}

func TestPreferencesGates(t *testing.T) {
	t.Parallel()

	prefs := &Preferences{
		Locations:        []string{"Paris"},
		RequiredKeywords: []string{"python", "golang"},
	}

	if prefs.HasRequiredKeyword("senior java engineer") {
		t.Fatalf("expected mandatory keyword check to fail")
	}
	if !prefs.HasRequiredKeyword("senior golang engineer") {
		t.Fatalf("expected mandatory keyword check to pass")
	}
	if !(&Preferences{}).HasRequiredKeyword("anything") {
		t.Fatalf("empty mandatory keywords must always pass")
	}

	if prefs.AllowsLocation("Lyon") {
		t.Fatalf("expected location gate to reject Lyon")
	}
	if !prefs.AllowsLocation("Paris 15e") {
		t.Fatalf("expected location gate to accept Paris")
	}
	if !prefs.AllowsLocation("") {
		t.Fatalf("listings without location text pass by default")
	}

	remote := &Preferences{Locations: []string{"Full Remote"}}
	if !remote.AcceptsRemote() {
		t.Fatalf("expected a remote-like entry to be recognized")
	}
	if !remote.AllowsLocation("Anywhere") {
		t.Fatalf("remote preference must admit every location")
	}
}
