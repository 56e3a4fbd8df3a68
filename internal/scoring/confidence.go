package scoring

import (
	"fmt"
	"strings"
)

// Level is the ordinal reliability grade of a recommendation.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Label returns the survey's Indonesian label for the level.
func (l Level) Label() string {
	switch l {
	case LevelLow:
		return "Rendah"
	case LevelMedium:
		return "Sedang"
	case LevelHigh:
		return "Tinggi"
	default:
		return string(l)
	}
}

// Confidence is a level plus the reason it was assigned.
type Confidence struct {
	Level  Level  `json:"level" yaml:"level"`
	Reason string `json:"reason" yaml:"reason"`
}

const (
	lowConfidenceUnknownRatio    = 0.4
	mediumConfidenceUnknownRatio = 0.2
)

// EstimateConfidence grades one risk's recommendation from the consistency
// verdict and the share of "unknown" answers in each tier.
func EstimateConfidence(consistent bool, t1 Tier1Scores, t2 Tier2Scores) Confidence {
	r1 := t1.UnknownRatio()
	r2 := t2.UnknownRatio()
	weak := t1.Control == nil || t1.Verifiability == nil || t2.Control == nil || t2.Verifiability == nil

	var causes []string
	if !consistent {
		causes = append(causes, "consistency ratio not accepted")
	}
	if r1 > lowConfidenceUnknownRatio {
		causes = append(causes, fmt.Sprintf("tier-1 unknown ratio %.0f%%", r1*100))
	}
	if r2 > lowConfidenceUnknownRatio {
		causes = append(causes, fmt.Sprintf("tier-2 unknown ratio %.0f%%", r2*100))
	}
	if weak {
		causes = append(causes, "control or verifiability score missing")
	}
	if len(causes) > 0 {
		return Confidence{Level: LevelLow, Reason: strings.Join(causes, "; ")}
	}

	if r1 > mediumConfidenceUnknownRatio || r2 > mediumConfidenceUnknownRatio {
		return Confidence{Level: LevelMedium, Reason: "moderate unknown ratio (20-40%)"}
	}
	return Confidence{Level: LevelHigh, Reason: "consistency accepted, low unknown ratio, complete data"}
}
