// Package proportion turns independent Bernoulli outcomes into a sample
// proportion with a 95% confidence interval, and compares intervals.
//
// Intervals use the normal approximation to the binomial, which holds when
// n*p and n*(1-p) are both reasonably large; nothing here checks that.
// Bounds are never clamped to [0, 1].
package proportion

import (
	"fmt"
	"math"
	"strconv"

	apperrors "github.com/louisbranch/turnout/internal/platform/errors"
)

// Z95 is the two-sided standard normal critical value at 95% confidence.
const Z95 = 1.96

// ErrInvalidProportion indicates a proportion outside [0, 1].
var ErrInvalidProportion = apperrors.New(apperrors.CodeProportionOutOfRange, "proportion must be within [0, 1]")

// ErrInvalidSampleSize indicates a non-positive sample size.
var ErrInvalidSampleSize = apperrors.New(apperrors.CodeSampleSizeInvalid, "sample size must be positive")

// Interval is a closed-form confidence interval around a proportion.
type Interval struct {
	Lower float64
	Upper float64
}

// Overlaps reports whether i and o share an interior point. Intervals that
// only touch at an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Lower < o.Upper && o.Lower < i.Upper
}

// Contains reports whether p lies within the closed interval.
func (i Interval) Contains(p float64) bool {
	return i.Lower <= p && p <= i.Upper
}

// Width returns Upper - Lower, twice the margin of error.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s]",
		strconv.FormatFloat(i.Lower, 'f', 4, 64),
		strconv.FormatFloat(i.Upper, 'f', 4, 64))
}

// Overlaps reports whether x and y share an interior point.
func Overlaps(x, y Interval) bool {
	return x.Overlaps(y)
}

// StandardError returns sqrt(p(1-p)/n). It is zero when p is 0 or 1.
func StandardError(p float64, n int) (float64, error) {
	if err := validate(p, n); err != nil {
		return 0, err
	}
	return standardError(p, n), nil
}

// MarginOfError returns the 95% half-width, Z95 * StandardError(p, n).
func MarginOfError(p float64, n int) (float64, error) {
	if err := validate(p, n); err != nil {
		return 0, err
	}
	return marginOfError(p, n), nil
}

// ConfidenceInterval returns (p - m, p + m) with m = MarginOfError(p, n).
// The interval collapses to the point p when p is 0 or 1.
func ConfidenceInterval(p float64, n int) (Interval, error) {
	if err := validate(p, n); err != nil {
		return Interval{}, err
	}
	return confidenceInterval(p, n), nil
}

func standardError(p float64, n int) float64 {
	return math.Sqrt(p * (1 - p) / float64(n))
}

func marginOfError(p float64, n int) float64 {
	return Z95 * standardError(p, n)
}

func confidenceInterval(p float64, n int) Interval {
	m := marginOfError(p, n)
	return Interval{Lower: p - m, Upper: p + m}
}

func validate(p float64, n int) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return apperrors.Detail(ErrInvalidProportion, map[string]string{
			"proportion": strconv.FormatFloat(p, 'g', -1, 64),
		})
	}
	if n <= 0 {
		return apperrors.Detail(ErrInvalidSampleSize, map[string]string{
			"n": strconv.Itoa(n),
		})
	}
	return nil
}
