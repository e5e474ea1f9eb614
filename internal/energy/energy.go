// Package energy models a user's daily energy curve and the tiers work is matched against.
package energy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTier is returned when a tier name is not recognized.
var ErrInvalidTier = errors.New("energy must be 'high', 'medium', 'low' or 'recharge'")

// Tier is a coarse attention/capacity level.
type Tier string

const (
	High     Tier = "high"
	Medium   Tier = "medium"
	Low      Tier = "low"
	Recharge Tier = "recharge"
)

// Tiers lists every tier from highest to lowest rank.
var Tiers = []Tier{High, Medium, Low, Recharge}

// ParseTier parses a tier name, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case High:
		return High, nil
	case Medium:
		return Medium, nil
	case Low:
		return Low, nil
	case Recharge:
		return Recharge, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
}

// Valid returns true if the tier is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case High, Medium, Low, Recharge:
		return true
	default:
		return false
	}
}

// Rank orders tiers High(3) > Medium(2) > Low(1) > Recharge(0).
// Unknown tiers rank as Recharge.
func Rank(t Tier) int {
	switch t {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	default:
		return 0
	}
}

// Distance is the absolute rank difference between two tiers.
func Distance(a, b Tier) int {
	d := Rank(a) - Rank(b)
	if d < 0 {
		return -d
	}
	return d
}

// SignificantGap is the rank distance at which a mismatch becomes a warning.
const SignificantGap = 2

// IsSignificantMismatch reports whether two tiers are two or more ranks apart.
func IsSignificantMismatch(a, b Tier) bool {
	return Distance(a, b) >= SignificantGap
}

// Alignment describes how well a placed tier matches the curve's prediction.
type Alignment int

const (
	Aligned Alignment = iota
	SoftMismatch
	SignificantMismatch
)

func (a Alignment) String() string {
	switch a {
	case Aligned:
		return "aligned"
	case SoftMismatch:
		return "soft"
	case SignificantMismatch:
		return "significant"
	default:
		return "unknown"
	}
}

// Align classifies the gap between a placed tier and the expected tier.
func Align(placed, expected Tier) Alignment {
	switch d := Distance(placed, expected); {
	case d == 0:
		return Aligned
	case d >= SignificantGap:
		return SignificantMismatch
	default:
		return SoftMismatch
	}
}
