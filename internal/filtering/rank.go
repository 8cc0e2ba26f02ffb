package filtering

import (
	"context"

	"candimatch/internal/listing"
)

type rankFilter struct {
	disabled bool
	reason   string
}

// NewRank creates the ranking step: a stable sort by match score,
// descending. Ties keep their original relative order.
func NewRank() Filter {
	return &rankFilter{}
}

func (f *rankFilter) Name() string { return "rank" }

func (f *rankFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *rankFilter) IsEnabled() bool { return !f.disabled }

func (f *rankFilter) Validate(*Config) error { return nil }

func (f *rankFilter) Apply(_ context.Context, _ Deps, ls *listing.Listings) (*listing.Listings, Step, error) {
	ls.SortByScore()
	return ls, Step{Initial: ls.Len(), Dropped: 0, Left: ls.Len()}, nil
}

func (f *rankFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
