package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
)

// LifecycleEntry is the exposure score and critical phase reported for a
// risk. Both are optional and passed through untransformed.
type LifecycleEntry struct {
	Exposure *int    `json:"exposure" yaml:"exposure"`
	Phase    *string `json:"phase" yaml:"phase"`
}

// BuildLifecycleMap validates exposure (1..5) and phase selections and
// returns an entry for every catalog risk. A nil exposure or empty phase
// counts as not answered.
func BuildLifecycleMap(exposure map[string]*int, phase map[string]string) (map[string]LifecycleEntry, error) {
	for code, v := range exposure {
		if _, err := catalog.RiskIndex(code); err != nil {
			return nil, fmt.Errorf("%w: exposure: %w", ErrInvalidInput, err)
		}
		if v == nil {
			continue
		}
		if *v < 1 || *v > 5 {
			return nil, fmt.Errorf("%w: exposure for %s is %d, expected 1..5", ErrInvalidInput, code, *v)
		}
	}
	for code, p := range phase {
		if _, err := catalog.RiskIndex(code); err != nil {
			return nil, fmt.Errorf("%w: phase: %w", ErrInvalidInput, err)
		}
		if p == "" {
			continue
		}
		if err := catalog.ValidPhase(p); err != nil {
			return nil, fmt.Errorf("%w: phase for %s: %w", ErrInvalidInput, code, err)
		}
	}

	out := make(map[string]LifecycleEntry, catalog.RiskCount)
	for _, code := range catalog.RiskCodes() {
		var e LifecycleEntry
		if v := exposure[code]; v != nil {
			n := *v
			e.Exposure = &n
		}
		if p, ok := phase[code]; ok && p != "" {
			e.Phase = &p
		}
		out[code] = e
	}
	return out, nil
}
