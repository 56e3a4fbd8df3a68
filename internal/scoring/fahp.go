package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
)

// WeightsResult is the Fuzzy AHP output for the six risks.
type WeightsResult struct {
	Weights          []float64 `json:"weights" yaml:"weights"`
	LambdaMax        float64   `json:"lambda_max" yaml:"lambda_max"`
	ConsistencyIndex float64   `json:"consistency_index" yaml:"consistency_index"`
	ConsistencyRatio float64   `json:"consistency_ratio" yaml:"consistency_ratio"`
	Consistent       bool      `json:"consistent" yaml:"consistent"`
}

type pair struct{ i, j int }

// ComputeWeights derives crisp priority weights from a sparse set of
// pairwise judgments keyed "Ri_Rj" (i before j in catalog order). Pairs that
// are absent or carry an empty label count as equal importance.
func ComputeWeights(pairwise map[string]catalog.Label) (WeightsResult, error) {
	judged, err := parsePairwise(pairwise)
	if err != nil {
		return WeightsResult{}, err
	}

	n := catalog.RiskCount
	fuzzy := make([][]catalog.TFN, n)
	crisp := make([][]float64, n)
	for i := 0; i < n; i++ {
		fuzzy[i] = make([]catalog.TFN, n)
		crisp[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			fuzzy[i][j] = catalog.TFN{1, 1, 1}
			crisp[i][j] = 1
		}
	}

	for p, label := range judged {
		tfn, _ := catalog.FuzzyValue(label)
		c, _ := catalog.CrispValue(label)
		fuzzy[p.i][p.j] = tfn
		fuzzy[p.j][p.i] = tfn.Reciprocal()
		crisp[p.i][p.j] = c
		crisp[p.j][p.i] = 1 / c
	}

	weights := fuzzyWeights(fuzzy)
	c, err := checkConsistency(crisp, weights)
	if err != nil {
		return WeightsResult{}, err
	}

	return WeightsResult{
		Weights:          weights,
		LambdaMax:        c.lambdaMax,
		ConsistencyIndex: c.index,
		ConsistencyRatio: c.ratio,
		Consistent:       c.passed,
	}, nil
}

func parsePairwise(pairwise map[string]catalog.Label) (map[pair]catalog.Label, error) {
	judged := make(map[pair]catalog.Label, len(pairwise))
	for key, label := range pairwise {
		if label == "" {
			continue
		}
		left, right, ok := strings.Cut(key, "_")
		if !ok {
			return nil, fmt.Errorf("%w: pairwise key %q: expected Ri_Rj", ErrInvalidInput, key)
		}
		i, err := catalog.RiskIndex(left)
		if err != nil {
			return nil, fmt.Errorf("%w: pairwise key %q: %w", ErrInvalidInput, key, err)
		}
		j, err := catalog.RiskIndex(right)
		if err != nil {
			return nil, fmt.Errorf("%w: pairwise key %q: %w", ErrInvalidInput, key, err)
		}
		if i >= j {
			return nil, fmt.Errorf("%w: pairwise key %q: risks must be distinct and in catalog order", ErrInvalidInput, key)
		}
		if _, err := catalog.FuzzyValue(label); err != nil {
			return nil, fmt.Errorf("%w: pairwise key %q: %w", ErrInvalidInput, key, err)
		}
		judged[pair{i, j}] = label
	}
	return judged, nil
}

// fuzzyWeights applies Buckley's geometric-mean method and defuzzifies by
// the centroid (l+m+u)/3, normalized to sum to 1.
func fuzzyWeights(m [][]catalog.TFN) []float64 {
	n := len(m)
	root := 1 / float64(n)

	synthetic := make([]catalog.TFN, n)
	var total catalog.TFN
	for i := range m {
		prod := catalog.TFN{1, 1, 1}
		for j := range m[i] {
			for k := 0; k < 3; k++ {
				prod[k] *= m[i][j][k]
			}
		}
		for k := 0; k < 3; k++ {
			synthetic[i][k] = math.Pow(prod[k], root)
			total[k] += synthetic[i][k]
		}
	}

	// Inverting a positive TFN swaps lower and upper.
	inv := total.Reciprocal()

	weights := make([]float64, n)
	var sum float64
	for i, g := range synthetic {
		w := (g[0]*inv[0] + g[1]*inv[1] + g[2]*inv[2]) / 3
		weights[i] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}
