package metadata

import (
	"fmt"
	"strconv"
	"strings"
)

// Rational is an exact fraction as the demuxer reports it (time bases, frame
// rates, aspect ratios). A zero denominator means "unknown".
type Rational struct {
	Num int64 `json:"num"`
	Den int64 `json:"den"`
}

// NewRational returns num/den without reducing it.
func NewRational(num, den int64) Rational {
	return Rational{Num: num, Den: den}
}

// ParseRational parses "N/D" or "N:D". An empty string yields the zero value.
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, nil
	}

	sep := strings.IndexAny(s, "/:")
	if sep < 0 {
		num, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Rational{}, fmt.Errorf("invalid rational %q: %w", s, err)
		}
		return Rational{Num: num, Den: 1}, nil
	}

	num, err := strconv.ParseInt(strings.TrimSpace(s[:sep]), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid rational numerator %q: %w", s, err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(s[sep+1:]), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("invalid rational denominator %q: %w", s, err)
	}
	return Rational{Num: num, Den: den}, nil
}

// IsZero reports whether the rational carries no information.
func (r Rational) IsZero() bool {
	return r.Num == 0 || r.Den == 0
}

// Float64 returns the value as a float, or 0 when the denominator is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Scale converts a timestamp expressed in units of r into seconds.
func (r Rational) Scale(ts int64) float64 {
	return float64(ts) * r.Float64()
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
