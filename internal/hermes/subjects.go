package hermes

const (
	StreamName   = "RISKALLOC_EVENTS"
	StreamMaxAge = "2160h" // 90 days

	streamSubjects = "riskalloc.survey.>"
)

func SubjectSurveySaved(surveyID string) string      { return "riskalloc.survey." + surveyID + ".saved" }
func SubjectSurveyCalculated(surveyID string) string { return "riskalloc.survey." + surveyID + ".calculated" }
