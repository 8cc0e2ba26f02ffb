package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"candimatch/internal/listing"
)

type scoreFilter struct {
	minScore float64
	skipped  int
	disabled bool
	reason   string
}

// NewScore creates the scoring step: every listing gets a match score,
// and listings below the acceptance threshold are dropped immediately.
func NewScore() Filter {
	return &scoreFilter{}
}

func (f *scoreFilter) Name() string { return "score" }

func (f *scoreFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *scoreFilter) IsEnabled() bool { return !f.disabled }

func (f *scoreFilter) Validate(cfg *Config) error {
	f.minScore = cfg.minScore()
	if f.minScore < 0 || f.minScore > 1 {
		return fmt.Errorf("acceptance threshold must be in [0,1], got %v", f.minScore)
	}
	return nil
}

func (f *scoreFilter) Apply(_ context.Context, deps Deps, ls *listing.Listings) (*listing.Listings, Step, error) {
	if deps.Matcher == nil {
		return ls, Step{}, fmt.Errorf("matcher is required")
	}

	initial := ls.Len()
	f.skipped = 0
	kept := make([]*listing.Listing, 0, initial)

	for _, l := range ls.Items {
		score, err := deps.Matcher.Score(l)
		if err != nil {
			// One malformed record never aborts the batch.
			f.skipped++
			if deps.Logger != nil {
				deps.Logger.Warn("scoring failed, skipping listing", zap.Error(err))
			}
			continue
		}

		if score < f.minScore {
			if deps.Logger != nil {
				deps.Logger.Debug("listing below acceptance threshold",
					zap.String("listing_id", l.ID),
					zap.String("company", l.Company),
					zap.Float64("score", score),
					zap.Float64("threshold", f.minScore),
				)
			}
			continue
		}

		l.SetMatchScore(score)
		kept = append(kept, l)
		if deps.Logger != nil {
			deps.Logger.Info("listing retained",
				zap.String("listing_id", l.ID),
				zap.String("company", l.Company),
				zap.Float64("score", score),
			)
		}
	}

	ls.Items = kept
	return ls, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

// Skipped returns the number of listings dropped because scoring them
// failed, an observability signal surfaced by Run.
func (f *scoreFilter) Skipped() int {
	return f.skipped
}

func (f *scoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{
			"min_score": fmt.Sprintf("%.2f", f.minScore),
		},
	}
}
