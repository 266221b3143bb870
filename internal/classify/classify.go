// Package classify implements deterministic email-to-case classification for
// inbound firm correspondence. Given an email and the owning client's active
// cases, it accumulates weighted evidence (court-file references, case actors,
// keywords, subject patterns), optionally consults a generative model when the
// deterministic signals are inconclusive, and decides whether the result can
// be auto-assigned or must be confirmed by a human.
//
// The package is pure with respect to persistence: it operates on value types
// supplied by the caller and never touches a repository. The triage domain
// wires it to storage.
package classify

import (
	"time"

	"github.com/google/uuid"
)

// MatchType identifies the strongest evidence category behind a suggestion.
type MatchType string

// Match types in descending evidence strength.
const (
	MatchReference MatchType = "REFERENCE"
	MatchActor     MatchType = "ACTOR"
	MatchKeyword   MatchType = "KEYWORD"
	MatchSemantic  MatchType = "SEMANTIC"
	MatchNone      MatchType = "NONE"
)

// ReviewReason categorizes why a classification requires human confirmation.
type ReviewReason string

// Review reasons, persisted with pending queue entries.
const (
	ReviewNone             ReviewReason = ""
	ReviewNoActiveCases    ReviewReason = "no_active_cases"
	ReviewNoMatchingCase   ReviewReason = "no_matching_case"
	ReviewCourtNoReference ReviewReason = "court_no_reference"
	ReviewLowConfidence    ReviewReason = "low_confidence"
	ReviewCaseConflict     ReviewReason = "multi_case_conflict"
	ReviewUnknownContact   ReviewReason = "unknown_contact"
)

// Email is the classification view of a stored email. Immutable during
// classification; owned by the mail import subsystem.
type Email struct {
	ID             uuid.UUID `json:"id"`
	Subject        string    `json:"subject"`
	SenderName     string    `json:"sender_name"`
	SenderAddress  string    `json:"sender_address"`
	BodyText       string    `json:"body_text"`
	BodyPreview    string    `json:"body_preview"`
	ReceivedAt     time.Time `json:"received_at"`
	HasAttachments bool      `json:"has_attachments"`
}

// Snippet returns the text used for keyword and reference matching:
// the stored preview when present, otherwise the full body.
func (e *Email) Snippet() string {
	if e.BodyPreview != "" {
		return e.BodyPreview
	}
	return e.BodyText
}

// Actor is a person or entity associated with a case (opposing counsel,
// client contact, court clerk) identified by email address or sender domain.
type Actor struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	DomainPatterns []string `json:"domain_patterns"`
}

// Case is a classification candidate: one of the client's active legal cases
// with the matching metadata maintained by the practice.
type Case struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	CaseType         string    `json:"case_type"`
	Description      string    `json:"description"`
	Keywords         []string  `json:"keywords"`
	ReferenceNumbers []string  `json:"reference_numbers"`
	SubjectPatterns  []string  `json:"subject_patterns"`
	Notes            string    `json:"notes"`
	Actors           []Actor   `json:"actors"`
}

// GlobalSource is a firm-wide registered sender category (court, government
// agency) that never appears as a case actor but still routes to cases via
// extracted reference numbers.
type GlobalSource struct {
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Emails         []string `json:"emails"`
	DomainPatterns []string `json:"domain_patterns"`
}

// Reference is a structured identifier extracted from email text.
// Recomputed on every classification pass, never persisted independently.
type Reference struct {
	Type       string `json:"type"`
	RawValue   string `json:"raw_value"`
	Normalized string `json:"normalized"`
	Position   int    `json:"position"`
}

// Alternative records a runner-up candidate whose score was close enough to
// signal genuine ambiguity.
type Alternative struct {
	CaseID     uuid.UUID `json:"case_id"`
	Confidence float64   `json:"confidence"`
	Reason     string    `json:"reason"`
}

// Result is the outcome of classifying a single email. Constructed once per
// classification pass and never mutated afterwards; a reclassification
// supersedes rather than updates it.
type Result struct {
	EmailID          uuid.UUID     `json:"email_id"`
	SuggestedCaseID  *uuid.UUID    `json:"suggested_case_id"`
	Confidence       float64       `json:"confidence"`
	MatchType        MatchType     `json:"match_type"`
	Reasons          []string      `json:"reasons"`
	Alternatives     []Alternative `json:"alternatives"`
	NeedsReview      bool          `json:"needs_review"`
	ReviewReason     ReviewReason  `json:"review_reason,omitempty"`
	References       []Reference   `json:"references"`
	IsGlobalSource   bool          `json:"is_global_source"`
	GlobalSourceName string        `json:"global_source_name,omitempty"`
}
