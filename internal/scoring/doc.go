// Package scoring turns one respondent's questionnaire answers into a risk
// allocation recommendation.
//
// The pipeline is strictly one-way:
//
//	pairwise judgments  -> ComputeWeights       (Fuzzy AHP weights + CR)
//	Likert answers      -> AggregateConstructs  (agency-theory construct means)
//	construct scores    -> DetermineAllocation  (two-tier rule tables)
//	allocation + scores -> DeriveLocks, EstimateConfidence
//
// Every function here is pure and safe for concurrent use; the only shared
// state is the read-only catalog package.
package scoring

import "errors"

// ErrInvalidInput marks a caller contract violation: a risk, item, label or
// phase that is not in the catalog, or an answer outside 1..5. Missing data
// is never an error.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnsupportedOrder is returned when a comparison matrix is larger than
// the Random Index table covers.
var ErrUnsupportedOrder = errors.New("unsupported matrix order")
