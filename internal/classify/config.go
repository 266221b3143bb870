package classify

// Config holds the scoring weights and decision thresholds for the
// classification engine. The values are policy, not structure: they may be
// retuned, but AutoAssignThreshold must stay above ReviewThreshold and the
// reference weights must stay above KeywordWeightCap so that an exact
// court-file match always outranks keyword evidence.
type Config struct {
	// AutoAssignThreshold is the confidence at or above which a suggestion
	// is applied without human review, absent a conflict.
	AutoAssignThreshold float64

	// ReviewThreshold is the confidence below which a suggestion always
	// goes to the review queue.
	ReviewThreshold float64

	// ReferenceWeight is added when an extracted reference matches a case
	// file number.
	ReferenceWeight float64

	// GlobalSourceReferenceWeight replaces ReferenceWeight when the sender
	// is a registered court or agency; a file-number match from an
	// institutional sender is treated as near-certain.
	GlobalSourceReferenceWeight float64

	// ActorWeight is added when the sender matches a case actor by exact
	// address or domain pattern.
	ActorWeight float64

	// KeywordWeightCap bounds the aggregate keyword contribution.
	KeywordWeightCap float64

	// SubjectPatternWeight is added when the subject matches one of the
	// case's subject glob patterns.
	SubjectPatternWeight float64

	// SemanticWeight scales the generative model's confidence before it is
	// folded into a candidate's score.
	SemanticWeight float64

	// BatchConcurrency caps concurrent classifications in a batch run so
	// the fallback model API is not saturated.
	BatchConcurrency int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		AutoAssignThreshold:         0.85,
		ReviewThreshold:             0.50,
		ReferenceWeight:             0.30,
		GlobalSourceReferenceWeight: 0.95,
		ActorWeight:                 0.40,
		KeywordWeightCap:            0.20,
		SubjectPatternWeight:        0.15,
		SemanticWeight:              0.10,
		BatchConcurrency:            4,
	}
}
