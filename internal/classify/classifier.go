package classify

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Engine classifies emails against candidate cases using the configured
// weights and an optional semantic fallback. It is safe for concurrent use.
type Engine struct {
	cfg      Config
	semantic SemanticClassifier
	logger   *slog.Logger
}

// NewEngine creates an Engine. The semantic classifier may be nil, in which
// case the deterministic result always stands.
func NewEngine(cfg Config, semantic SemanticClassifier, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		semantic: semantic,
		logger:   logger.With("system", "classify"),
	}
}

// Config returns the engine's scoring configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Classify scores one email against the client's candidate cases and decides
// whether the best suggestion can be auto-assigned or needs human review.
// It always returns a result; data-quality problems degrade to a review
// outcome rather than an error.
func (e *Engine) Classify(ctx context.Context, email Email, candidates []Case, sources []GlobalSource) Result {
	result := Result{
		EmailID:      email.ID,
		MatchType:    MatchNone,
		Reasons:      make([]string, 0),
		Alternatives: make([]Alternative, 0),
		References:   make([]Reference, 0),
	}

	// No candidates and a single candidate are terminal states: there is no
	// real decision to make, so no scoring work is done.
	if len(candidates) == 0 {
		result.NeedsReview = true
		result.ReviewReason = ReviewNoActiveCases
		result.Reasons = append(result.Reasons, "client has no active cases")
		return result
	}

	if len(candidates) == 1 {
		only := candidates[0]
		result.SuggestedCaseID = &only.ID
		result.Confidence = 1.0
		result.MatchType = MatchActor
		result.Reasons = append(result.Reasons, "only one active case for client")
		return result
	}

	if name, ok := matchGlobalSource(email.SenderAddress, sources); ok {
		result.IsGlobalSource = true
		result.GlobalSourceName = name
	}

	result.References = ExtractReferences(email.Subject + " " + email.Snippet())

	// Candidates are scored in ascending case-id order so that tie-breaking
	// is a property of the data, not of map iteration or goroutine timing.
	ordered := slices.Clone(candidates)
	slices.SortStableFunc(ordered, func(a, b Case) int {
		return strings.Compare(a.ID.String(), b.ID.String())
	})

	scores := make([]candidateScore, len(ordered))
	for i, c := range ordered {
		scores[i] = e.scoreCandidate(&email, c, result.References, result.IsGlobalSource)
	}

	best, second := rank(scores)

	if scores[best].Score < e.cfg.ReviewThreshold && !result.IsGlobalSource {
		if e.applySemanticFallback(ctx, &email, ordered, scores) {
			best, second = rank(scores)
		}
	}

	top := scores[best]
	result.Confidence = clamp01(top.Score)
	result.MatchType = top.MatchType
	result.Reasons = append(result.Reasons, top.Reasons...)

	if top.Score > 0 {
		result.SuggestedCaseID = &top.Case.ID
	}

	// A runner-up above half the review threshold is a weak but genuine
	// ambiguity signal worth surfacing to the reviewer.
	if second >= 0 && scores[second].Score > e.cfg.ReviewThreshold/2 {
		result.Alternatives = append(result.Alternatives, Alternative{
			CaseID:     scores[second].Case.ID,
			Confidence: clamp01(scores[second].Score),
			Reason:     firstReason(scores[second].Reasons),
		})
	}

	e.decideReview(&result, scores, best, second)

	e.logger.Debug("email classified",
		"email_id", email.ID,
		"confidence", result.Confidence,
		"match_type", result.MatchType,
		"needs_review", result.NeedsReview,
	)

	return result
}

// decideReview applies the review checks in priority order; the first check
// that fires wins. The ordering is load-bearing for classification outcomes
// and must not be rearranged.
func (e *Engine) decideReview(result *Result, scores []candidateScore, best, second int) {
	switch {
	case result.IsGlobalSource && len(result.References) == 0:
		// Even a confident score without a file number is suspicious for a
		// court or agency sender.
		result.NeedsReview = true
		result.ReviewReason = ReviewCourtNoReference
		result.Reasons = append(result.Reasons, "court/authority sender, no reference number found")

	case result.SuggestedCaseID == nil:
		result.NeedsReview = true
		result.ReviewReason = ReviewNoMatchingCase
		result.Reasons = append(result.Reasons, "no case matched any signal")

	case result.Confidence < e.cfg.ReviewThreshold:
		result.NeedsReview = true
		result.ReviewReason = ReviewLowConfidence

	case result.Confidence < e.cfg.AutoAssignThreshold &&
		second >= 0 && clamp01(scores[second].Score) > 0.7*e.cfg.ReviewThreshold:
		result.NeedsReview = true
		result.ReviewReason = ReviewCaseConflict
		result.Reasons = append(result.Reasons, "multiple cases with similar confidence")
	}
}

// rank returns the indices of the best and second-best scores. Ties keep the
// earlier candidate, preserving the canonical iteration order. second is -1
// when fewer than two candidates exist.
func rank(scores []candidateScore) (best, second int) {
	best, second = 0, -1
	for i := 1; i < len(scores); i++ {
		switch {
		case scores[i].Score > scores[best].Score:
			second = best
			best = i
		case second < 0 || scores[i].Score > scores[second].Score:
			second = i
		}
	}
	return best, second
}

// matchGlobalSource checks the sender against every configured source by
// exact address, then by domain glob. The first configured match wins.
func matchGlobalSource(sender string, sources []GlobalSource) (string, bool) {
	for _, source := range sources {
		for _, address := range source.Emails {
			if address != "" && strings.EqualFold(sender, address) {
				return source.Name, true
			}
		}
		if MatchesDomain(sender, source.DomainPatterns) {
			return source.Name, true
		}
	}
	return "", false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func firstReason(reasons []string) string {
	if len(reasons) == 0 {
		return ""
	}
	return reasons[0]
}
