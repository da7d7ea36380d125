package sensitivity

import (
	"math"

	"github.com/bayneri/outlay/internal/calcerr"
	"github.com/shopspring/decimal"
)

// Sweep describes a parameter range to sample.
type Sweep struct {
	Parameter string  `yaml:"parameter" json:"parameter"`
	Min       float64 `yaml:"min" json:"min"`
	Max       float64 `yaml:"max" json:"max"`
	Steps     int     `yaml:"steps" json:"steps"`
}

func (s Sweep) Samples() ([]float64, error) {
	return Samples(s.Min, s.Max, s.Steps)
}

// Samples returns steps evenly spaced values from lo to hi inclusive.
// Spacing is computed in decimal so both ends are exact.
func Samples(lo, hi float64, steps int) ([]float64, error) {
	if steps < 2 {
		return nil, calcerr.Invalid("steps", "must be at least 2, got %d", steps)
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) {
		return nil, calcerr.Invalid("min", "must be finite, got %v", lo)
	}
	if math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, calcerr.Invalid("max", "must be finite, got %v", hi)
	}
	if !(lo < hi) {
		return nil, calcerr.Invalid("min", "must be less than max (%v >= %v)", lo, hi)
	}
	start := decimal.NewFromFloat(lo)
	width := decimal.NewFromFloat(hi).Sub(start)
	step := width.DivRound(decimal.NewFromInt(int64(steps-1)), divisionPrecision(width))

	values := make([]float64, steps)
	for i := 0; i < steps-1; i++ {
		values[i] = start.Add(step.Mul(decimal.NewFromInt(int64(i)))).InexactFloat64()
	}
	values[steps-1] = hi
	for i := 1; i < steps; i++ {
		if !(values[i] > values[i-1]) {
			return nil, calcerr.Invalid("steps", "range %v..%v is too narrow for %d distinct samples", lo, hi, steps)
		}
	}
	return values, nil
}

// divisionPrecision widens the step's decimal places with the scale of
// width so narrow ranges keep their significant digits.
func divisionPrecision(width decimal.Decimal) int32 {
	digits := int32(16)
	if exp := width.Exponent(); exp < 0 {
		digits -= exp
	}
	return digits
}
