package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/praxislaw/docket/pkg/formatting"
)

// SemanticClassifier is the generative-model dependency used when
// deterministic scoring is inconclusive. Implementations must bound the call
// with a timeout; the engine treats any error identically to a parse failure.
type SemanticClassifier interface {
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}

const semanticSystemPrompt = `You are an assistant for a legal practice that routes ` +
	`incoming emails to the correct case file. Respond with strict JSON only, no prose.`

// semanticResponse is the strict JSON contract requested from the model.
type semanticResponse struct {
	MostLikelyCaseIndex int     `json:"mostLikelyCaseIndex"`
	Confidence          float64 `json:"confidence"`
	Reasoning           string  `json:"reasoning"`
}

// applySemanticFallback asks the generative model which candidate the email
// most likely belongs to and folds the scaled answer into that candidate's
// running score. Every failure mode (transport error, timeout, malformed
// JSON, out-of-range index) is swallowed and logged: the deterministic result
// stands unchanged. Returns true when a score was modified.
func (e *Engine) applySemanticFallback(ctx context.Context, email *Email, candidates []Case, scores []candidateScore) bool {
	if e.semantic == nil {
		return false
	}

	content, err := e.semantic.Complete(ctx, semanticSystemPrompt, buildSemanticPrompt(email, candidates))
	if err != nil {
		e.logger.Warn("semantic fallback call failed", "email_id", email.ID, "error", err)
		return false
	}

	parsed, err := formatting.Parse[semanticResponse](content)
	if err != nil {
		e.logger.Warn("semantic fallback response unparseable", "email_id", email.ID, "error", err)
		return false
	}

	if parsed.MostLikelyCaseIndex < 0 || parsed.MostLikelyCaseIndex >= len(candidates) {
		e.logger.Warn("semantic fallback index out of range",
			"email_id", email.ID,
			"index", parsed.MostLikelyCaseIndex,
			"candidates", len(candidates),
		)
		return false
	}

	target := &scores[parsed.MostLikelyCaseIndex]
	target.Score += clamp01(parsed.Confidence) * e.cfg.SemanticWeight
	target.Reasons = append(target.Reasons, fmt.Sprintf("semantic analysis: %s", parsed.Reasoning))
	if target.MatchType == MatchNone {
		target.MatchType = MatchSemantic
	}

	return true
}

// buildSemanticPrompt lists every candidate with the metadata a human would
// use to route the email, followed by the email's key fields.
func buildSemanticPrompt(email *Email, candidates []Case) string {
	var b strings.Builder

	b.WriteString("Candidate cases:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %q (%s)\n", i, c.Title, c.CaseType)
		if c.Description != "" {
			fmt.Fprintf(&b, "   description: %s\n", c.Description)
		}
		if len(c.Keywords) > 0 {
			fmt.Fprintf(&b, "   keywords: %s\n", strings.Join(c.Keywords, ", "))
		}
		if c.Notes != "" {
			fmt.Fprintf(&b, "   notes: %s\n", c.Notes)
		}
	}

	b.WriteString("\nEmail:\n")
	fmt.Fprintf(&b, "from: %s <%s>\n", email.SenderName, email.SenderAddress)
	fmt.Fprintf(&b, "subject: %s\n", email.Subject)
	fmt.Fprintf(&b, "body: %s\n", email.Snippet())

	b.WriteString("\nWhich case does this email most likely belong to? " +
		`Answer with JSON: {"mostLikelyCaseIndex": <int>, "confidence": <0..1>, "reasoning": "<short>"}`)

	return b.String()
}
