package filtering

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"candimatch/internal/listing"
)

const publicationDateLayout = "2006-01-02"

type recencyFilter struct {
	maxAgeDays int
	disabled   bool
	reason     string
}

// NewRecency creates a filter that drops listings older than the
// configured horizon. Listings without a parsable publication date are
// treated as recent: ambiguity never rejects a listing here.
func NewRecency() Filter {
	return &recencyFilter{}
}

func (f *recencyFilter) Name() string { return "recency" }

func (f *recencyFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *recencyFilter) IsEnabled() bool { return !f.disabled }

func (f *recencyFilter) Validate(cfg *Config) error {
	f.maxAgeDays = cfg.maxAgeDays()
	return nil
}

func (f *recencyFilter) Apply(_ context.Context, deps Deps, ls *listing.Listings) (*listing.Listings, Step, error) {
	initial := ls.Len()
	kept := make([]*listing.Listing, 0, initial)
	for _, l := range ls.Items {
		if f.isRecent(deps, l) {
			kept = append(kept, l)
		}
	}

	ls.Items = kept
	return ls, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *recencyFilter) isRecent(deps Deps, l *listing.Listing) bool {
	if l.PublishedAt == "" {
		return true
	}

	published, err := time.Parse(publicationDateLayout, l.PublishedAt)
	if err != nil {
		if deps.Logger != nil {
			deps.Logger.Warn("unparsable publication date, keeping listing",
				zap.String("listing_id", l.ID),
				zap.String("date", l.PublishedAt),
			)
		}
		return true
	}

	days := int(deps.Now().Sub(published).Hours() / 24)
	return days <= f.maxAgeDays
}

func (f *recencyFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"max_age_days": strconv.Itoa(f.maxAgeDays),
		},
	}
}
