// Package audit keeps the append-only history of classification decisions.
// Every assignment, move, or dismissal lands here, whether a human or the
// engine made it. Entries are never updated or deleted.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the classification log.
const (
	ActionAssigned   = "assigned"
	ActionMoved      = "moved"
	ActionIgnored    = "ignored"
	ActionUnassigned = "unassigned"
)

// LogEntry is one recorded classification decision.
type LogEntry struct {
	ID           uuid.UUID  `json:"id"`
	EmailID      uuid.UUID  `json:"email_id"`
	CaseID       *uuid.UUID `json:"case_id"`
	Action       string     `json:"action"`
	Actor        string     `json:"actor"`
	WasAutomatic bool       `json:"was_automatic"`
	Confidence   float64    `json:"confidence"`
	MatchType    string     `json:"match_type"`
	Detail       string     `json:"detail"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AppendCommand contains the fields required to record a decision.
type AppendCommand struct {
	EmailID      uuid.UUID  `json:"email_id"`
	CaseID       *uuid.UUID `json:"case_id"`
	Action       string     `json:"action"`
	Actor        string     `json:"actor"`
	WasAutomatic bool       `json:"was_automatic"`
	Confidence   float64    `json:"confidence"`
	MatchType    string     `json:"match_type"`
	Detail       string     `json:"detail"`
}
