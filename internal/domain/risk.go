package domain

import "strings"

// RiskLevel is the ordinal classification attached to a proposed command.
type RiskLevel string

const (
	RiskLow       RiskLevel = "low"
	RiskMedium    RiskLevel = "medium"
	RiskHigh      RiskLevel = "high"
	RiskSuperHigh RiskLevel = "super_high"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:       1,
	RiskMedium:    2,
	RiskHigh:      3,
	RiskSuperHigh: 4,
}

// ParseRiskLevel maps a textual level onto the closed RiskLevel set.
func ParseRiskLevel(value string) (RiskLevel, bool) {
	level := RiskLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := riskOrder[level]; !ok {
		return "", false
	}
	return level, true
}

// Valid reports whether the level is one of the four known values.
func (r RiskLevel) Valid() bool {
	_, ok := riskOrder[r]
	return ok
}

// Rank returns the ordinal of the level, 0 for unknown values.
func (r RiskLevel) Rank() int {
	return riskOrder[r]
}

// AtLeast reports whether r is as severe as other.
func (r RiskLevel) AtLeast(other RiskLevel) bool {
	return r.Rank() >= other.Rank()
}
