package scoring

const maxMitigationControls = 5

const (
	controlTechnicalKPI     = "Measurable technical KPIs (availability, output quality, response time)"
	controlReadiness        = "Milestone readiness and commissioning checklist"
	controlAuditAccess      = "Audit access and data transparency clause"
	controlThirdPartyVerify = "Third-party verification at critical milestones"
	controlPerformanceBond  = "Performance bond/retention tied to technical achievement"
	controlMilestonePayment = "Milestone-based payment trigger (not lump-sum)"
	controlDefectLiability  = "Defect liability period with maintenance guarantee"
)

// mitigationControls lists the delivery-chain safeguards recommended when a
// risk stays with the public party.
func mitigationControls(t2 Tier2Scores) []string {
	controls := []string{controlTechnicalKPI, controlReadiness, controlAuditAccess}

	if below(t2.Verifiability, 3.5) {
		controls = append(controls, controlThirdPartyVerify)
	}
	if atLeast(t2.Control, 3) {
		controls = append(controls, controlPerformanceBond)
	}
	if below(t2.Incentives, 3.5) {
		controls = append(controls, controlMilestonePayment)
	}
	controls = append(controls, controlDefectLiability)

	if len(controls) > maxMitigationControls {
		controls = controls[:maxMitigationControls]
	}
	return controls
}
