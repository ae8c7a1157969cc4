package abtest

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Validate checks in against the input rules and returns the first
// violation as a *ValidationError. Group A is checked before group B, then
// alpha, then the alternative.
func Validate(in Input) error {
	if err := validateGroup(FieldSampleSizeA, FieldConversionsA, in.SampleSizeA, in.ConversionsA); err != nil {
		return err
	}
	if err := validateGroup(FieldSampleSizeB, FieldConversionsB, in.SampleSizeB, in.ConversionsB); err != nil {
		return err
	}
	if err := ValidateAlpha(in.Alpha); err != nil {
		return err
	}
	if !in.Alternative.Valid() {
		return &ValidationError{Field: FieldAlternative, Value: in.Alternative, Kind: ErrInvalidAlternative}
	}
	return nil
}

// ValidateAlpha reports whether alpha is a usable significance level.
func ValidateAlpha(alpha float64) error {
	// NaN fails both comparisons, so test for the valid range.
	if !(alpha > 0 && alpha < 1) {
		return &ValidationError{Field: FieldAlpha, Value: alpha, Kind: ErrInvalidSignificanceLevel}
	}
	return nil
}

func validateGroup(sizeField, convField string, n, c int) error {
	if n <= 0 {
		return &ValidationError{Field: sizeField, Value: n, Kind: ErrInvalidSampleSize}
	}
	if c < 0 {
		return &ValidationError{Field: convField, Value: c, Kind: ErrInvalidConversionCount}
	}
	if c > n {
		return &ValidationError{Field: convField, Value: c, Kind: ErrConversionsExceedSampleSize}
	}
	return nil
}

// Evaluate validates in and runs the pooled two-proportion z-test.
// On invalid input it returns a zero Result and a *ValidationError.
func Evaluate(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}

	rateA := ConversionRate(in.ConversionsA, in.SampleSizeA)
	rateB := ConversionRate(in.ConversionsB, in.SampleSizeB)
	absLift, relLift := Lift(rateA, rateB)
	pooled := PooledProportion(in.ConversionsA, in.SampleSizeA, in.ConversionsB, in.SampleSizeB)
	se := StandardError(pooled, in.SampleSizeA, in.SampleSizeB)
	z := ZScore(absLift, se)
	p := PValue(z, in.Alternative)

	return Result{
		SampleSizeA:      in.SampleSizeA,
		ConversionsA:     in.ConversionsA,
		SampleSizeB:      in.SampleSizeB,
		ConversionsB:     in.ConversionsB,
		ConversionRateA:  rateA,
		ConversionRateB:  rateB,
		AbsoluteLift:     absLift,
		RelativeLift:     relLift,
		PooledProportion: pooled,
		StandardError:    se,
		ZScore:           z,
		PValue:           p,
		IsSignificant:    p < in.Alpha,
		Alpha:            in.Alpha,
		Alternative:      in.Alternative,
	}, nil
}

// ConversionRate returns conversions/total, or 0 when total is not positive.
func ConversionRate(conversions, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(conversions) / float64(total)
}

// Lift returns the absolute lift rateB-rateA and the lift relative to rateA.
// The relative lift is 0 when rateA is 0.
func Lift(rateA, rateB float64) (absolute, relative float64) {
	absolute = rateB - rateA
	if rateA == 0 {
		return absolute, 0
	}
	return absolute, absolute / rateA
}

// PooledProportion is the combined conversion rate of both groups. The sums
// are taken in float64 so counts near math.MaxInt do not wrap.
func PooledProportion(convA, nA, convB, nB int) float64 {
	total := float64(nA) + float64(nB)
	if total <= 0 {
		return 0
	}
	return (float64(convA) + float64(convB)) / total
}

// StandardError is the standard error of the difference in proportions
// under the pooled null model.
func StandardError(pooled float64, nA, nB int) float64 {
	if nA <= 0 || nB <= 0 {
		return 0
	}
	return math.Sqrt(pooled * (1 - pooled) * (1/float64(nA) + 1/float64(nB)))
}

// ZScore divides the absolute lift by the standard error. A zero standard
// error (pooled proportion of 0 or 1) yields 0.
func ZScore(absLift, se float64) float64 {
	if se == 0 {
		return 0
	}
	return absLift / se
}

// PValue returns the tail probability of z under the standard normal for
// the given alternative. Unrecognized alternatives yield NaN.
func PValue(z float64, alt Alternative) float64 {
	var p float64
	switch alt {
	case TwoSided:
		p = 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	case Larger:
		p = 1 - distuv.UnitNormal.CDF(z)
	case Smaller:
		p = distuv.UnitNormal.CDF(z)
	default:
		return math.NaN()
	}
	return math.Min(1, math.Max(0, p))
}
