package scoring

const (
	maxGovernanceLocks = 6
	minGovernanceLocks = 3
	lockThreshold      = 3.5
)

const (
	lockCompensation        = "Compensation mechanism: tariff/availability-payment adjustment for regulatory or policy change"
	lockRiskReserve         = "Risk reserve: contingency budget for the retained risk"
	lockForceMajeure        = "Escalation and force-majeure clause with clear definitions"
	lockPeriodicReview      = "Periodic review clause for changing external conditions"
	lockDashboard           = "Real-time monitoring dashboard for early detection"
	lockPerfFramework       = "Internal performance framework with reward/consequence"
	lockInterface           = "RACI/interface charter defining responsibility boundaries"
	lockAgreedKPI           = "Measurable KPIs with an agreed measurement method"
	lockAuditTrail          = "Data access and audit trail"
	lockIndependentCheck    = "Independent verification at critical milestones"
	lockKPIDefinition       = "Specific KPI definitions and measurement methods"
	lockHoldback            = "Performance-linked payment trigger/holdback"
	lockIncentives          = "Clear incentive-disincentive mechanism"
	lockDualRoleFirewall    = "Dual-role safeguard: separation of functions and information firewall"
	lockIndependentApproval = "Independent approval of critical decisions"
	lockDefinedKPI          = "Measurable KPIs with clear data definitions"
	lockDispute             = "Escalation and dispute-resolution mechanism"
)

// DeriveLocks looks up one risk's scores and derives its governance locks.
func DeriveLocks(a Allocation, scores ConstructScores, code string, dualRole bool) ([]string, error) {
	t1, t2, err := scores.ForRisk(code)
	if err != nil {
		return nil, err
	}
	return governanceLocks(a, t1, t2, dualRole), nil
}

// governanceLocks accumulates contractual safeguards, then de-duplicates
// (first occurrence wins) and keeps the first maxGovernanceLocks.
func governanceLocks(a Allocation, t1 Tier1Scores, t2 Tier2Scores, dualRole bool) []string {
	var locks []string
	publicLed := a.Tier1.Party == PartyPublic

	if publicLed {
		locks = append(locks, lockCompensation, lockRiskReserve, lockForceMajeure, lockPeriodicReview)
		if below(t1.Verifiability, lockThreshold) {
			locks = append(locks, lockDashboard)
		}
		if below(t1.Incentives, lockThreshold) {
			locks = append(locks, lockPerfFramework)
		}
	}

	if a.Tier1.Party == PartyShared || a.Tier2.Party == PartyShared {
		locks = append(locks, lockInterface, lockAgreedKPI, lockAuditTrail)
	}

	if !publicLed {
		if below(t1.Verifiability, lockThreshold) || below(t2.Verifiability, lockThreshold) {
			locks = append(locks, lockIndependentCheck, lockKPIDefinition)
		}
		if below(t1.Incentives, lockThreshold) || below(t2.Incentives, lockThreshold) {
			locks = append(locks, lockHoldback, lockIncentives)
		}
	}

	if dualRole {
		locks = append(locks, lockDualRoleFirewall, lockIndependentApproval)
	}

	if len(locks) < minGovernanceLocks {
		locks = append(locks, lockDefinedKPI, lockAuditTrail, lockDispute)
	}

	return capUnique(locks, maxGovernanceLocks)
}

func capUnique(items []string, limit int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, limit)
	for _, it := range items {
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
		if len(out) == limit {
			break
		}
	}
	return out
}
