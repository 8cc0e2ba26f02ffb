package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"candimatch/internal/listing"
	"candimatch/internal/matching"
)

type gateFilter struct {
	floor    float64
	prefs    *matching.Preferences
	disabled bool
	reason   string
}

// NewGate creates the final pass over the scored, ranked list. It drops
// listings under the safety floor and listings failing the mandatory
// keyword or location requirements, independent of score. Relative order
// is preserved.
func NewGate() Filter {
	return &gateFilter{}
}

func (f *gateFilter) Name() string { return "gate" }

func (f *gateFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *gateFilter) IsEnabled() bool { return !f.disabled }

func (f *gateFilter) Validate(cfg *Config) error {
	f.floor = cfg.safetyFloor()
	f.prefs = cfg.preferences()

	if f.floor >= cfg.minScore() {
		return fmt.Errorf("safety floor %v must stay below the acceptance threshold %v",
			f.floor, cfg.minScore())
	}
	return nil
}

func (f *gateFilter) Apply(_ context.Context, deps Deps, ls *listing.Listings) (*listing.Listings, Step, error) {
	initial := ls.Len()
	kept := make([]*listing.Listing, 0, initial)

	for _, l := range ls.Items {
		if reason := f.rejectReason(l); reason != "" {
			if deps.Logger != nil {
				deps.Logger.Debug("listing rejected by gate",
					zap.String("listing_id", l.ID),
					zap.String("reason", reason),
				)
			}
			continue
		}
		kept = append(kept, l)
	}

	ls.Items = kept
	return ls, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *gateFilter) rejectReason(l *listing.Listing) string {
	// Unscored listings must not reach ranked output.
	if l.MatchScore == nil || *l.MatchScore < f.floor {
		return "score below safety floor"
	}
	if !f.prefs.HasRequiredKeyword(l.SearchText()) {
		return "missing mandatory keyword"
	}
	if !f.prefs.AllowsLocation(l.Location) {
		return "location not allowed"
	}
	return ""
}

func (f *gateFilter) Status() Status {
	details := map[string]string{
		"safety_floor": fmt.Sprintf("%.2f", f.floor),
	}
	if f.prefs != nil && len(f.prefs.RequiredKeywords) > 0 {
		details["required_keywords"] = strings.Join(f.prefs.RequiredKeywords, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
