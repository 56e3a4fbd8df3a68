package scoring

// Party is the holder a risk is allocated to.
type Party string

const (
	PartyPrivate       Party = "BU/SPV"
	PartyPublic        Party = "Publik/PDAM"
	PartyShared        Party = "Shared"
	PartySubcontractor Party = "EPC/O&M"
	PartyPrivateRetain Party = "BU/SPV-retain"
	PartyNotApplicable Party = "N/A"
)

// Decision is the outcome of one tier's rule table.
type Decision struct {
	Party  Party  `json:"allocation" yaml:"allocation"`
	Reason string `json:"reason" yaml:"reason"`
	Rule   string `json:"rule" yaml:"rule"`
}

// Tier2Decision additionally carries mitigation controls, populated only
// when tier 1 keeps the risk with the public party.
type Tier2Decision struct {
	Decision           `yaml:",inline"`
	MitigationControls []string `json:"mitigation_controls,omitempty" yaml:"mitigation_controls,omitempty"`
}

// Allocation is the two-tier recommendation for a single risk.
type Allocation struct {
	Tier1 Decision      `json:"tier1" yaml:"tier1"`
	Tier2 Tier2Decision `json:"tier2" yaml:"tier2"`
}

// Rule is one row of a decision table. Rules are evaluated in order and
// the first whose Match returns true decides.
type Rule[S any] struct {
	Name   string
	Match  func(S) bool
	Party  Party
	Reason string
}

var tier1Rules = []Rule[Tier1Scores]{
	{
		Name: "private-control",
		Match: func(s Tier1Scores) bool {
			return atLeast(s.Control, 4) && atLeast(s.Verifiability, 3) &&
				atLeast(s.Incentives, 3) && atMost(s.Externality, 3)
		},
		Party:  PartyPrivate,
		Reason: "High control with adequate verifiability and incentives.",
	},
	{
		Name:   "insufficient-private-control",
		Match:  func(s Tier1Scores) bool { return below(s.Control, 3) },
		Party:  PartyPublic,
		Reason: "BU/SPV control is low; risk retained by the public party.",
	},
	{
		Name:   "external-dominance",
		Match:  func(s Tier1Scores) bool { return atLeast(s.Externality, 4) },
		Party:  PartyPublic,
		Reason: "Externality is high (>=4); risk is dominated by external factors.",
	},
	{
		Name:   "mixed-signals",
		Match:  func(Tier1Scores) bool { return true },
		Party:  PartyShared,
		Reason: "Control is divided or verifiability is moderate.",
	},
}

var tier2Rules = []Rule[Tier2Scores]{
	{
		Name:   "transfer",
		Match:  func(s Tier2Scores) bool { return atLeast(s.Control, 4) && atLeast(s.Verifiability, 4) },
		Party:  PartySubcontractor,
		Reason: "Control and verifiability are high; transfer to EPC/O&M is feasible.",
	},
	{
		Name:   "shared-with-spv",
		Match:  func(s Tier2Scores) bool { return atLeast(s.Control, 3) && atLeast(s.Verifiability, 3) },
		Party:  PartyShared,
		Reason: "Control and verifiability are moderate; shared with BU/SPV.",
	},
	{
		Name:   "spv-retains",
		Match:  func(Tier2Scores) bool { return true },
		Party:  PartyPrivateRetain,
		Reason: "Control or verifiability is low; BU/SPV retains the risk.",
	},
}

// Tier1Rules returns the tier-1 decision table in evaluation order.
func Tier1Rules() []Rule[Tier1Scores] {
	return append([]Rule[Tier1Scores](nil), tier1Rules...)
}

// Tier2Rules returns the tier-2 decision table in evaluation order.
func Tier2Rules() []Rule[Tier2Scores] {
	return append([]Rule[Tier2Scores](nil), tier2Rules...)
}

func firstMatch[S any](rules []Rule[S], s S) Decision {
	for _, r := range rules {
		if r.Match(s) {
			return Decision{Party: r.Party, Reason: r.Reason, Rule: r.Name}
		}
	}
	// Both tables end in an unconditional rule.
	panic("scoring: decision table has no fallback rule")
}

// DetermineAllocation looks up one risk's scores and allocates it.
func DetermineAllocation(scores ConstructScores, code string) (Allocation, error) {
	t1, t2, err := scores.ForRisk(code)
	if err != nil {
		return Allocation{}, err
	}
	return Allocate(t1, t2), nil
}

// Allocate applies the tier-1 table and, unless tier 1 chose the public
// party, the tier-2 table. A public tier-1 outcome instead yields
// mitigation controls for the delivery chain.
func Allocate(t1 Tier1Scores, t2 Tier2Scores) Allocation {
	a := Allocation{Tier1: firstMatch(tier1Rules, t1)}
	if a.Tier1.Party == PartyPublic {
		a.Tier2 = Tier2Decision{
			Decision: Decision{
				Party:  PartyNotApplicable,
				Reason: "Tier 2 does not apply to public-led risks.",
				Rule:   "public-led",
			},
			MitigationControls: mitigationControls(t2),
		}
		return a
	}
	a.Tier2 = Tier2Decision{Decision: firstMatch(tier2Rules, t2)}
	return a
}

// A nil score fails every comparison, in either direction.

func atLeast(s *float64, t float64) bool { return s != nil && *s >= t }

func atMost(s *float64, t float64) bool { return s != nil && *s <= t }

func below(s *float64, t float64) bool { return s != nil && *s < t }
