package matching

import (
	"fmt"
	"math"
)

// weightSumTolerance allows for float drift when validating that the
// configured weights still describe a [0,1] score.
const weightSumTolerance = 0.001

// Weights holds the contribution of each sub-score to the final match
// score. They are passed in explicitly so tuning and tests can override
// them without touching the scoring logic.
type Weights struct {
	Keywords    float64 `mapstructure:"keywords"`
	Location    float64 `mapstructure:"location"`
	Contract    float64 `mapstructure:"contract"`
	Salary      float64 `mapstructure:"salary"`
	CompanySize float64 `mapstructure:"company-size"`
}

func DefaultWeights() Weights {
	return Weights{
		Keywords:    0.30,
		Location:    0.25,
		Contract:    0.20,
		Salary:      0.15,
		CompanySize: 0.10,
	}
}

func (w Weights) sum() float64 {
	return w.Keywords + w.Location + w.Contract + w.Salary + w.CompanySize
}

// Validate rejects negative weights and weight sets that no longer sum
// to 1.0.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"keywords":     w.Keywords,
		"location":     w.Location,
		"contract":     w.Contract,
		"salary":       w.Salary,
		"company-size": w.CompanySize,
	} {
		if value < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, value)
		}
	}

	if diff := math.Abs(w.sum() - 1.0); diff > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", w.sum())
	}
	return nil
}
