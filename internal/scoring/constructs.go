package scoring

import (
	"fmt"
	"sort"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
)

// reverseBase maps a reverse-scored Likert value v to 6-v.
const reverseBase = 6

// Coverage records how much of a tier's questionnaire produced usable data.
type Coverage struct {
	UnknownCount int `json:"unknown_count" yaml:"unknown_count"`
	TotalItems   int `json:"total_items" yaml:"total_items"`
}

// UnknownRatio is UnknownCount / TotalItems.
func (c Coverage) UnknownRatio() float64 {
	if c.TotalItems == 0 {
		return 0
	}
	return float64(c.UnknownCount) / float64(c.TotalItems)
}

// Tier1Scores are the construct means for the public <-> BU/SPV relation.
// A nil score means no item of that construct was answered.
type Tier1Scores struct {
	Control       *float64 `json:"control" yaml:"control"`
	Info          *float64 `json:"info" yaml:"info"`
	Verifiability *float64 `json:"verifiability" yaml:"verifiability"`
	// Externality is the raw (agreement) mean of the reverse-scored items.
	Externality         *float64 `json:"externality" yaml:"externality"`
	ExternalityReversed *float64 `json:"externality_reversed" yaml:"externality_reversed"`
	Capacity            *float64 `json:"capacity" yaml:"capacity"`
	Incentives          *float64 `json:"incentives" yaml:"incentives"`

	Coverage `yaml:",inline"`
}

// Tier2Scores are the construct means for the BU/SPV <-> EPC/O&M relation.
type Tier2Scores struct {
	Control       *float64 `json:"control" yaml:"control"`
	Verifiability *float64 `json:"verifiability" yaml:"verifiability"`
	Incentives    *float64 `json:"incentives" yaml:"incentives"`
	Capacity      *float64 `json:"capacity" yaml:"capacity"`

	Coverage `yaml:",inline"`
}

// ConstructScores holds both tiers' scores for every risk, keyed by risk code.
type ConstructScores struct {
	Tier1 map[string]Tier1Scores `json:"tier1" yaml:"tier1"`
	Tier2 map[string]Tier2Scores `json:"tier2" yaml:"tier2"`
}

// ForRisk returns the scores of one risk.
func (s ConstructScores) ForRisk(code string) (Tier1Scores, Tier2Scores, error) {
	t1, ok1 := s.Tier1[code]
	t2, ok2 := s.Tier2[code]
	if !ok1 || !ok2 {
		return Tier1Scores{}, Tier2Scores{}, fmt.Errorf("%w: no construct scores for risk %q", ErrInvalidInput, code)
	}
	return t1, t2, nil
}

type buckets map[catalog.Construct][]int

// AggregateConstructs averages each risk's answered items per construct.
// Unknown answers are counted, not scored; absent items are ignored.
func AggregateConstructs(tier1, tier2 Answers) (ConstructScores, error) {
	if err := checkRiskCodes(tier1, catalog.Tier1); err != nil {
		return ConstructScores{}, err
	}
	if err := checkRiskCodes(tier2, catalog.Tier2); err != nil {
		return ConstructScores{}, err
	}

	out := ConstructScores{
		Tier1: make(map[string]Tier1Scores, catalog.RiskCount),
		Tier2: make(map[string]Tier2Scores, catalog.RiskCount),
	}
	for _, code := range catalog.RiskCodes() {
		b, raw, cov, err := collect(catalog.Tier1, code, tier1[code])
		if err != nil {
			return ConstructScores{}, err
		}
		out.Tier1[code] = Tier1Scores{
			Control:             mean(b[catalog.Control]),
			Info:                mean(b[catalog.Info]),
			Verifiability:       mean(b[catalog.Verifiability]),
			Externality:         mean(raw),
			ExternalityReversed: mean(b[catalog.Externality]),
			Capacity:            mean(b[catalog.Capacity]),
			Incentives:          mean(b[catalog.Incentives]),
			Coverage:            cov,
		}

		b, _, cov, err = collect(catalog.Tier2, code, tier2[code])
		if err != nil {
			return ConstructScores{}, err
		}
		out.Tier2[code] = Tier2Scores{
			Control:       mean(b[catalog.Control]),
			Verifiability: mean(b[catalog.Verifiability]),
			Incentives:    mean(b[catalog.Incentives]),
			Capacity:      mean(b[catalog.Capacity]),
			Coverage:      cov,
		}
	}
	return out, nil
}

func checkRiskCodes(a Answers, tier catalog.Tier) error {
	codes := make([]string, 0, len(a))
	for code := range a {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, err := catalog.RiskIndex(code); err != nil {
			return fmt.Errorf("%w: %s answers: %w", ErrInvalidInput, tier, err)
		}
	}
	return nil
}

// collect partitions one risk's answers by construct. Reverse-scored items
// go to raw as answered and to the forward bucket as 6-v.
func collect(tier catalog.Tier, risk string, answers map[string]Answer) (buckets, []int, Coverage, error) {
	b := make(buckets)
	var raw []int
	cov := Coverage{TotalItems: len(catalog.Items(tier))}

	for code, a := range answers {
		item, err := catalog.LookupItem(tier, code)
		if err != nil {
			return nil, nil, Coverage{}, fmt.Errorf("%w: risk %s: %w", ErrInvalidInput, risk, err)
		}
		if a.IsUnknown() {
			cov.UnknownCount++
			continue
		}
		v, ok := a.Value()
		if !ok {
			continue
		}
		if item.Reverse {
			raw = append(raw, v)
			b[item.Construct] = append(b[item.Construct], reverseBase-v)
			continue
		}
		b[item.Construct] = append(b[item.Construct], v)
	}
	return b, raw, cov, nil
}

func mean(vals []int) *float64 {
	if len(vals) == 0 {
		return nil
	}
	var sum int
	for _, v := range vals {
		sum += v
	}
	m := float64(sum) / float64(len(vals))
	return &m
}
