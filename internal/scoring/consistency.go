package scoring

import (
	"fmt"

	"github.com/MikeSquared-Agency/RiskAlloc/internal/catalog"
)

// ConsistencyThreshold is the conventional AHP acceptance bound on CR.
const ConsistencyThreshold = 0.10

type consistency struct {
	lambdaMax float64
	index     float64
	ratio     float64
	passed    bool
}

// PassesConsistency reports whether a consistency ratio is acceptable.
func PassesConsistency(cr float64) bool {
	return cr < ConsistencyThreshold
}

// checkConsistency estimates λmax from the crisp matrix a and the weight
// vector w, then CI and CR. A zero weight contributes λ=0 for its row.
// For n < 3 the Random Index is 0, CR is undefined and reported as 0 (pass).
func checkConsistency(a [][]float64, w []float64) (consistency, error) {
	n := len(a)
	ri, ok := catalog.RandomIndex(n)
	if !ok {
		return consistency{}, fmt.Errorf("%w: n=%d", ErrUnsupportedOrder, n)
	}

	var lambdaSum float64
	for i := 0; i < n; i++ {
		var aw float64
		for j := 0; j < n; j++ {
			aw += a[i][j] * w[j]
		}
		if w[i] > 0 {
			lambdaSum += aw / w[i]
		}
	}
	lambdaMax := lambdaSum / float64(n)

	var ci float64
	if n > 1 {
		ci = (lambdaMax - float64(n)) / float64(n-1)
	}
	if ri == 0 {
		return consistency{lambdaMax: lambdaMax, index: ci, ratio: 0, passed: true}, nil
	}

	cr := ci / ri
	return consistency{lambdaMax: lambdaMax, index: ci, ratio: cr, passed: PassesConsistency(cr)}, nil
}
