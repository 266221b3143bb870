// Package review manages the human confirmation queue for classifications
// the engine could not auto-assign. Each email has at most one unresolved
// queue entry; re-running classification supersedes the pending suggestion
// instead of stacking a second one.
package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
)

// Resolutions recorded when a queue entry is closed.
const (
	ResolutionAssigned  = "assigned"
	ResolutionDismissed = "dismissed"
)

// PendingClassification is a queued suggestion awaiting a reviewer.
type PendingClassification struct {
	ID              uuid.UUID              `json:"id"`
	EmailID         uuid.UUID              `json:"email_id"`
	FirmID          string                 `json:"firm_id"`
	SuggestedCaseID *uuid.UUID             `json:"suggested_case_id"`
	Confidence      float64                `json:"confidence"`
	MatchType       string                 `json:"match_type"`
	ReviewReason    string                 `json:"review_reason"`
	Reasons         []string               `json:"reasons"`
	Alternatives    []classify.Alternative `json:"alternatives"`
	CreatedAt       time.Time              `json:"created_at"`
	ResolvedAt      *time.Time             `json:"resolved_at"`
	Resolution      string                 `json:"resolution,omitempty"`
	ResolvedBy      string                 `json:"resolved_by,omitempty"`
}

// EnqueueCommand contains the classification outcome to queue for review.
type EnqueueCommand struct {
	EmailID         uuid.UUID              `json:"email_id"`
	FirmID          string                 `json:"firm_id"`
	SuggestedCaseID *uuid.UUID             `json:"suggested_case_id"`
	Confidence      float64                `json:"confidence"`
	MatchType       string                 `json:"match_type"`
	ReviewReason    string                 `json:"review_reason"`
	Reasons         []string               `json:"reasons"`
	Alternatives    []classify.Alternative `json:"alternatives"`
}

// AssignCommand resolves a queue entry by attaching the email to a case.
// CaseID may differ from the suggestion; the reviewer has the final word.
// FirmID comes from the caller identity, never from the request body; a
// non-empty value must match the entry's firm.
type AssignCommand struct {
	CaseID     uuid.UUID `json:"case_id"`
	ResolvedBy string    `json:"resolved_by"`
	FirmID     string    `json:"-"`
}

// DismissCommand resolves a queue entry without assigning the email.
type DismissCommand struct {
	ResolvedBy string `json:"resolved_by"`
	FirmID     string `json:"-"`
}

// BulkAssignItem pairs one queue entry with its target case.
type BulkAssignItem struct {
	ID     uuid.UUID `json:"id"`
	CaseID uuid.UUID `json:"case_id"`
}

// BulkAssignCommand resolves multiple queue entries in one request.
type BulkAssignCommand struct {
	Items      []BulkAssignItem `json:"items"`
	ResolvedBy string           `json:"resolved_by"`
	FirmID     string           `json:"-"`
}

// BulkFailure records one item that could not be assigned.
type BulkFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
}

// BulkResult summarizes a bulk assignment. Failed items never roll back
// successful ones.
type BulkResult struct {
	Assigned int           `json:"assigned"`
	Failures []BulkFailure `json:"failures"`
}

// EnqueueFromResult builds an EnqueueCommand from an engine outcome.
func EnqueueFromResult(result *classify.Result, firmID string) EnqueueCommand {
	return EnqueueCommand{
		EmailID:         result.EmailID,
		FirmID:          firmID,
		SuggestedCaseID: result.SuggestedCaseID,
		Confidence:      result.Confidence,
		MatchType:       string(result.MatchType),
		ReviewReason:    string(result.ReviewReason),
		Reasons:         result.Reasons,
		Alternatives:    result.Alternatives,
	}
}
