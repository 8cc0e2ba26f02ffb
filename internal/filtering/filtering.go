package filtering

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"candimatch/internal/listing"
	"candimatch/internal/matching"
)

// Default thresholds of the pipeline. MinMatchScore is the user-facing
// acceptance line applied right after scoring; ScoreSafetyFloor is a
// coarser net applied again inside the gate step. They are distinct
// checkpoints and must never be merged: the floor has to stay below the
// acceptance threshold.
const (
	DefaultMinMatchScore    = 0.60
	DefaultScoreSafetyFloor = 0.30
	DefaultMaxAgeDays       = 7
)

// Filter represents a single filtering step applied to listings.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, ls *listing.Listings) (*listing.Listings, Step, error)
}

// Deps aggregates dependencies shared across all filtering steps.
type Deps struct {
	Logger  *zap.Logger
	Matcher *matching.Matcher
	// Now supplies the reference time for the recency check. Defaults to
	// time.Now.
	Now func() time.Time
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains configuration settings consumed by the filters.
// Zero-valued thresholds mean the built-in defaults, so an explicit
// zero threshold or zero-day horizon cannot be configured.
type Config struct {
	Preferences *matching.Preferences
	// MinScore is the acceptance threshold; zero means the default.
	MinScore float64
	// SafetyFloor is the gate-step floor; zero means the default.
	SafetyFloor float64
	// MaxAgeDays is the recency horizon; zero means the default.
	MaxAgeDays int
}

func (c *Config) minScore() float64 {
	if c == nil || c.MinScore == 0 {
		return DefaultMinMatchScore
	}
	return c.MinScore
}

func (c *Config) safetyFloor() float64 {
	if c == nil || c.SafetyFloor == 0 {
		return DefaultScoreSafetyFloor
	}
	return c.SafetyFloor
}

func (c *Config) maxAgeDays() int {
	if c == nil || c.MaxAgeDays == 0 {
		return DefaultMaxAgeDays
	}
	return c.MaxAgeDays
}

func (c *Config) preferences() *matching.Preferences {
	if c == nil || c.Preferences == nil {
		return &matching.Preferences{}
	}
	return c.Preferences
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed
// status information.
type statusProvider interface {
	Status() Status
}

// skippedCounter is implemented by steps that skip individual listings
// without failing the batch.
type skippedCounter interface {
	Skipped() int
}

// Run executes the supplied filters sequentially and returns the
// resulting listings together with the number of listings skipped due to
// per-listing failures.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, ls *listing.Listings) (*listing.Listings, int, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	skipped := 0
	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				fields := []zap.Field{zap.String("name", step.Name())}
				if reporter, ok := step.(statusProvider); ok {
					if reason := reporter.Status().Reason; reason != "" {
						fields = append(fields, zap.String("reason", reason))
					}
				}
				deps.Logger.Info("filter disabled", fields...)
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, ls)
		if err != nil {
			return nil, skipped, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		ls = next

		if counter, ok := step.(skippedCounter); ok {
			skipped += counter.Skipped()
		}
	}

	return ls, skipped, nil
}

// DefaultSteps returns the matching pipeline in its fixed order:
// recency, scoring with acceptance threshold, ranking, gate.
func DefaultSteps() []Filter {
	return []Filter{
		NewRecency(),
		NewScore(),
		NewRank(),
		NewGate(),
	}
}

// DisableByName marks a filter with the provided name as disabled while
// keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
