package catalog

import "fmt"

// TFN is a triangular fuzzy number (lower, modal, upper).
type TFN [3]float64

// Reciprocal returns [1/u, 1/m, 1/l].
func (t TFN) Reciprocal() TFN {
	return TFN{1 / t[2], 1 / t[1], 1 / t[0]}
}

// Label is a linguistic pairwise-comparison judgment.
type Label string

const (
	EqualImportance        Label = "SI"
	SlightlyImportant      Label = "SLI"
	Important              Label = "LI"
	VeryImportant          Label = "SVI"
	ExtremelyImportant     Label = "EI"
	SlightlyLessImportant  Label = "1/SLI"
	LessImportant          Label = "1/LI"
	MuchLessImportant      Label = "1/SVI"
	ExtremelyLessImportant Label = "1/EI"
)

type scaleEntry struct {
	tfn        TFN
	crisp      float64
	reciprocal Label
}

var scale = map[Label]scaleEntry{
	EqualImportance:        {tfn: TFN{1, 1, 1}, crisp: 1, reciprocal: EqualImportance},
	SlightlyImportant:      {tfn: TFN{1, 2, 3}, crisp: 2, reciprocal: SlightlyLessImportant},
	Important:              {tfn: TFN{2, 3, 4}, crisp: 3, reciprocal: LessImportant},
	VeryImportant:          {tfn: TFN{3, 4, 5}, crisp: 4, reciprocal: MuchLessImportant},
	ExtremelyImportant:     {tfn: TFN{4, 5, 6}, crisp: 5, reciprocal: ExtremelyLessImportant},
	SlightlyLessImportant:  {tfn: TFN{1.0 / 3, 1.0 / 2, 1}, crisp: 1.0 / 2, reciprocal: SlightlyImportant},
	LessImportant:          {tfn: TFN{1.0 / 4, 1.0 / 3, 1.0 / 2}, crisp: 1.0 / 3, reciprocal: Important},
	MuchLessImportant:      {tfn: TFN{1.0 / 5, 1.0 / 4, 1.0 / 3}, crisp: 1.0 / 4, reciprocal: VeryImportant},
	ExtremelyLessImportant: {tfn: TFN{1.0 / 6, 1.0 / 5, 1.0 / 4}, crisp: 1.0 / 5, reciprocal: ExtremelyImportant},
}

// Labels returns all nine scale labels, strongest-first then reciprocals.
func Labels() []Label {
	return []Label{
		EqualImportance, SlightlyImportant, Important, VeryImportant, ExtremelyImportant,
		SlightlyLessImportant, LessImportant, MuchLessImportant, ExtremelyLessImportant,
	}
}

func lookup(l Label) (scaleEntry, error) {
	e, ok := scale[l]
	if !ok {
		return scaleEntry{}, fmt.Errorf("%w: %q", ErrUnknownLabel, string(l))
	}
	return e, nil
}

// FuzzyValue maps a label to its TFN.
func FuzzyValue(l Label) (TFN, error) {
	e, err := lookup(l)
	return e.tfn, err
}

// CrispValue maps a label to its crisp AHP value.
func CrispValue(l Label) (float64, error) {
	e, err := lookup(l)
	return e.crisp, err
}

// Reciprocal returns the label expressing the mirrored judgment.
func Reciprocal(l Label) (Label, error) {
	e, err := lookup(l)
	return e.reciprocal, err
}
