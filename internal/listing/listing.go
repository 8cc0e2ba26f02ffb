package listing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Listing is one job posting normalized to the common shape shared by all
// sources. Wire keys follow the collector output format. The matching
// pipeline never rewrites existing fields; it only sets MatchScore on
// listings that survived scoring.
type Listing struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"titre,omitempty"`
	Company     string `json:"entreprise,omitempty"`
	Location    string `json:"localisation,omitempty"`
	Description string `json:"description,omitempty"`
	Contract    string `json:"type_contrat,omitempty"`
	Salary      string `json:"salaire,omitempty"`
	URL         string `json:"url,omitempty"`
	Source      string `json:"source,omitempty"`
	// PublishedAt is an ISO date (YYYY-MM-DD). May be absent.
	PublishedAt string `json:"date_publication,omitempty"`
	Remote      *bool  `json:"remote,omitempty"`
	Experience  string `json:"niveau_experience,omitempty"`

	// MatchScore is set by the matching pipeline. Nil means the listing
	// has not been scored yet.
	MatchScore *float64 `json:"match_score,omitempty"`
}

// SearchText returns the lowercased title and description, the haystack
// for all keyword checks.
func (l *Listing) SearchText() string {
	return strings.ToLower(l.Title + " " + l.Description)
}

// SetMatchScore attaches a score to the listing.
func (l *Listing) SetMatchScore(score float64) {
	l.MatchScore = &score
}

// Score returns the match score, or 0 for an unscored listing.
func (l *Listing) Score() float64 {
	if l.MatchScore == nil {
		return 0
	}
	return *l.MatchScore
}

type Listings struct {
	Items []*Listing
}

func (ls *Listings) Len() int {
	return len(ls.Items)
}

func (ls *Listings) FindByID(id string) *Listing {
	for _, l := range ls.Items {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// SortByScore orders listings by match score, descending. The sort is
// stable so listings with equal scores keep their relative order.
func (ls *Listings) SortByScore() {
	sort.SliceStable(ls.Items, func(i, j int) bool {
		return ls.Items[i].Score() > ls.Items[j].Score()
	})
}

// FromFile loads a collector output file: a JSON array of listings.
func FromFile(path string) (*Listings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var items []*Listing
	if err := json.NewDecoder(file).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding listings from %s: %w", path, err)
	}
	return &Listings{Items: items}, nil
}

// RawFromFile loads a collector output file without assuming its shape,
// for records that still need normalization.
func RawFromFile(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw []map[string]any
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding raw listings from %s: %w", path, err)
	}
	return raw, nil
}

func (ls *Listings) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(ls.Items)
}

func (ls *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ls.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportBySource groups listings under their source identifier.
func (ls *Listings) ReportBySource() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, l := range ls.Items {
		source := l.Source
		if source == "" {
			source = "unknown"
		}
		entry := map[string]string{
			"title":    l.Title,
			"company":  l.Company,
			"location": l.Location,
			"contract": l.Contract,
			"url":      l.URL,
		}
		if l.MatchScore != nil {
			entry["match_score"] = fmt.Sprintf("%.3f", *l.MatchScore)
		}
		report[source] = append(report[source], entry)
	}
	return report
}

// MatchSummary aggregates scores of an already-matched set.
type MatchSummary struct {
	Total        int
	AverageScore float64
	Excellent    int
	Good         int
	Average      int
	Weak         int
}

// Summarize buckets scored listings by match quality.
func (ls *Listings) Summarize() MatchSummary {
	summary := MatchSummary{Total: ls.Len()}
	if summary.Total == 0 {
		return summary
	}

	var sum float64
	for _, l := range ls.Items {
		score := l.Score()
		sum += score
		switch {
		case score >= 0.8:
			summary.Excellent++
		case score >= 0.6:
			summary.Good++
		case score >= 0.4:
			summary.Average++
		default:
			summary.Weak++
		}
	}
	summary.AverageScore = sum / float64(summary.Total)
	return summary
}
