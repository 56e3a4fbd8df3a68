package scoring

import (
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
)

// Input is everything one respondent supplies to a computation.
type Input struct {
	Pairwise      map[string]catalog.Label `json:"fahp_pairwise" yaml:"fahp_pairwise"`
	Exposure      map[string]*int          `json:"lcm_exposure" yaml:"lcm_exposure"`
	PhaseCritical map[string]string        `json:"lcm_phase_critical" yaml:"lcm_phase_critical"`
	Tier1Answers  Answers                  `json:"pat1_data" yaml:"pat1_data"`
	Tier2Answers  Answers                  `json:"pat2_data" yaml:"pat2_data"`
	DualRole      bool                     `json:"dual_role" yaml:"dual_role"`
}

// Validate reports whether Compute would accept in, without computing
// anything. A nil or empty Input is valid.
func (in *Input) Validate() error {
	if in == nil {
		return nil
	}
	if _, err := parsePairwise(in.Pairwise); err != nil {
		return err
	}
	if _, err := BuildLifecycleMap(in.Exposure, in.PhaseCritical); err != nil {
		return err
	}
	_, err := AggregateConstructs(in.Tier1Answers, in.Tier2Answers)
	return err
}

// Result bundles the full computation for storage and display. Per-risk
// maps are keyed by risk code; Weights follow catalog order.
type Result struct {
	Weights         WeightsResult             `json:"fahp" yaml:"fahp"`
	Lifecycle       map[string]LifecycleEntry `json:"lcm" yaml:"lcm"`
	Constructs      ConstructScores           `json:"pat" yaml:"pat"`
	Allocations     map[string]Allocation     `json:"allocations" yaml:"allocations"`
	GovernanceLocks map[string][]string       `json:"governance_locks" yaml:"governance_locks"`
	Confidence      map[string]Confidence     `json:"confidence" yaml:"confidence"`
	ComputedAt      time.Time                 `json:"timestamp" yaml:"timestamp"`
}

// Observer receives computation outcomes, e.g. for metrics.
type Observer interface {
	ObserveResult(r *Result, elapsed time.Duration)
	ObserveError(err error)
}

// Engine runs the full pipeline for one respondent per call. It holds no
// per-call state and may be shared between goroutines.
type Engine struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

// NewEngine creates an Engine. observer may be nil; a nil logger falls
// back to slog.Default().
func NewEngine(logger *slog.Logger, observer Observer) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// Compute produces the complete result for in. Missing answers degrade
// confidence; malformed answers fail with an error wrapping ErrInvalidInput.
func (e *Engine) Compute(in *Input) (*Result, error) {
	if in == nil {
		in = &Input{}
	}
	start := e.now()
	res, err := e.compute(in)
	if err != nil {
		e.logger.Warn("computation rejected", "error", err)
		if e.observer != nil {
			e.observer.ObserveError(err)
		}
		return nil, err
	}
	res.ComputedAt = e.now().UTC()

	elapsed := e.now().Sub(start)
	e.logger.Debug("computation complete",
		"consistency_ratio", res.Weights.ConsistencyRatio,
		"consistent", res.Weights.Consistent,
		"dual_role", in.DualRole,
		"duration_ms", elapsed.Milliseconds(),
	)
	if e.observer != nil {
		e.observer.ObserveResult(res, elapsed)
	}
	return res, nil
}

func (e *Engine) compute(in *Input) (*Result, error) {
	weights, err := ComputeWeights(in.Pairwise)
	if err != nil {
		return nil, err
	}
	lifecycle, err := BuildLifecycleMap(in.Exposure, in.PhaseCritical)
	if err != nil {
		return nil, err
	}
	constructs, err := AggregateConstructs(in.Tier1Answers, in.Tier2Answers)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Weights:         weights,
		Lifecycle:       lifecycle,
		Constructs:      constructs,
		Allocations:     make(map[string]Allocation, catalog.RiskCount),
		GovernanceLocks: make(map[string][]string, catalog.RiskCount),
		Confidence:      make(map[string]Confidence, catalog.RiskCount),
	}
	for _, code := range catalog.RiskCodes() {
		t1, t2, err := constructs.ForRisk(code)
		if err != nil {
			return nil, err
		}
		a := Allocate(t1, t2)
		res.Allocations[code] = a
		res.GovernanceLocks[code] = governanceLocks(a, t1, t2, in.DualRole)
		res.Confidence[code] = EstimateConfidence(weights.Consistent, t1, t2)
	}
	return res, nil
}
