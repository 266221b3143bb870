package classify

import (
	"fmt"
	"strings"
)

// candidateScore is the running evidence for one candidate case.
// Contributions are additive, so evaluation order only affects reason
// ordering and the displayed match type, never the score itself.
type candidateScore struct {
	Case      Case
	Score     float64
	Reasons   []string
	MatchType MatchType
}

func (s *candidateScore) add(weight float64, mt MatchType, reason string) {
	s.Score += weight
	s.Reasons = append(s.Reasons, reason)
	if s.MatchType == MatchNone {
		s.MatchType = mt
	}
}

// scoreCandidate computes the weighted evidence score for one email against
// one candidate case. Signals are evaluated reference, actor, keyword,
// subject pattern; the match type records the first signal that fired.
func (e *Engine) scoreCandidate(email *Email, c Case, refs []Reference, isGlobalSource bool) candidateScore {
	cs := candidateScore{Case: c, Reasons: make([]string, 0, 2), MatchType: MatchNone}

	if ref, ok := matchReference(refs, c.ReferenceNumbers); ok {
		weight := e.cfg.ReferenceWeight
		if isGlobalSource {
			// Institutional senders never appear as case actors; the file
			// number is the routing signal and is treated as near-certain.
			weight = e.cfg.GlobalSourceReferenceWeight
		}
		cs.add(weight, MatchReference, fmt.Sprintf("reference %s matches case file number", ref.RawValue))
	}

	if !isGlobalSource {
		if actor, ok := matchActor(email.SenderAddress, c.Actors); ok {
			cs.add(e.cfg.ActorWeight, MatchActor, fmt.Sprintf("sender matches case actor %s", actorLabel(actor)))
		}
	}

	if count := countKeywords(email, c.Keywords); count > 0 {
		cs.add(e.keywordWeight(count), MatchKeyword, fmt.Sprintf("%d case keyword(s) found in email", count))
	}

	if pattern, ok := matchSubject(email.Subject, c.SubjectPatterns); ok {
		// Subject globs reinforce the score but are not a match type of
		// their own.
		cs.Score += e.cfg.SubjectPatternWeight
		cs.Reasons = append(cs.Reasons, fmt.Sprintf("subject matches pattern %q", pattern))
	}

	return cs
}

// keywordWeight scales with the match count but saturates at the configured
// cap, so keyword-stuffed cases cannot dominate stronger signals.
func (e *Engine) keywordWeight(count int) float64 {
	return e.cfg.KeywordWeightCap * float64(count) / float64(count+1)
}

func matchReference(refs []Reference, caseNumbers []string) (Reference, bool) {
	for _, number := range caseNumbers {
		normalized := NormalizeReference(number)
		if normalized == "" {
			continue
		}
		for _, ref := range refs {
			if ref.Normalized == normalized {
				return ref, true
			}
		}
	}
	return Reference{}, false
}

func matchActor(sender string, actors []Actor) (Actor, bool) {
	for _, actor := range actors {
		if actor.Email != "" && strings.EqualFold(sender, actor.Email) {
			return actor, true
		}
		if MatchesDomain(sender, actor.DomainPatterns) {
			return actor, true
		}
	}
	return Actor{}, false
}

func actorLabel(a Actor) string {
	if a.Email != "" {
		return a.Email
	}
	return a.Name
}

func countKeywords(email *Email, keywords []string) int {
	haystack := strings.ToLower(email.Subject + " " + email.Snippet())

	count := 0
	for _, keyword := range keywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" {
			continue
		}
		if strings.Contains(haystack, keyword) {
			count++
		}
	}
	return count
}

// matchSubject tests the case's subject glob patterns against the email
// subject. Patterns that fail to compile are treated as non-matching.
func matchSubject(subject string, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		re, err := compileGlob(strings.ToLower(pattern))
		if err != nil {
			continue
		}
		if re.MatchString(strings.ToLower(subject)) {
			return pattern, true
		}
	}
	return "", false
}
