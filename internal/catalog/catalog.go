// Package catalog holds the fixed reference data every computation reads:
// the risk categories, the fuzzy and crisp comparison scales, the Random
// Index table and the questionnaire item catalogs for both tiers.
//
// Nothing in this package is mutated after init. Accessors that return
// slices return copies.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRisk  = errors.New("unknown risk code")
	ErrUnknownLabel = errors.New("unknown comparison label")
	ErrUnknownItem  = errors.New("unknown item code")
	ErrUnknownPhase = errors.New("unknown lifecycle phase")
)

// Risk is one of the six fixed risk categories.
type Risk struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	FullName string `json:"full_name" yaml:"full_name"`
	Color    string `json:"color" yaml:"color"`
}

var risks = []Risk{
	{Code: "R1", Name: "DCC", FullName: "Design–Construction–Commissioning", Color: "#3498db"},
	{Code: "R2", Name: "Financial", FullName: "Financial", Color: "#2ecc71"},
	{Code: "R3", Name: "Operations", FullName: "Operations", Color: "#9b59b6"},
	{Code: "R4", Name: "Revenue", FullName: "Revenue", Color: "#e74c3c"},
	{Code: "R5", Name: "Interface", FullName: "Interface", Color: "#f39c12"},
	{Code: "R6", Name: "Political", FullName: "Political", Color: "#1abc9c"},
}

var riskIndex = func() map[string]int {
	m := make(map[string]int, len(risks))
	for i, r := range risks {
		m[r.Code] = i
	}
	return m
}()

// RiskCount is the number of risk categories.
const RiskCount = 6

// Risks returns the risk catalog in its canonical order.
func Risks() []Risk {
	out := make([]Risk, len(risks))
	copy(out, risks)
	return out
}

// RiskCodes returns R1..R6 in catalog order.
func RiskCodes() []string {
	out := make([]string, len(risks))
	for i, r := range risks {
		out[i] = r.Code
	}
	return out
}

// RiskIndex returns the catalog position of code.
func RiskIndex(code string) (int, error) {
	i, ok := riskIndex[code]
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrUnknownRisk, code)
	}
	return i, nil
}

// PairKey builds the pairwise-judgment key for risks i<j, e.g. "R1_R2".
func PairKey(i, j int) string {
	return risks[i].Code + "_" + risks[j].Code
}

var phases = []string{"Perencanaan", "Penyiapan", "Transaksi", "Implementasi"}

// Phases returns the four lifecycle phases.
func Phases() []string {
	out := make([]string, len(phases))
	copy(out, phases)
	return out
}

// ValidPhase reports an error unless p is a catalog phase.
func ValidPhase(p string) error {
	for _, ph := range phases {
		if ph == p {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPhase, p)
}

// randomIndex is Saaty's Random Index, keyed by matrix order.
var randomIndex = map[int]float64{
	1: 0,
	2: 0,
	3: 0.58,
	4: 0.90,
	5: 1.12,
	6: 1.24,
}

// RandomIndex returns RI for a matrix of order n. ok is false when the table
// has no entry for n.
func RandomIndex(n int) (ri float64, ok bool) {
	ri, ok = randomIndex[n]
	return ri, ok
}
