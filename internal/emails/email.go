// Package emails manages imported firm correspondence: the stored messages
// that classification routes onto cases.
package emails

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
)

// Email is an imported message belonging to a client mailbox. CaseID is nil
// until classification or review assigns it.
type Email struct {
	ID             uuid.UUID  `json:"id"`
	ClientID       uuid.UUID  `json:"client_id"`
	FirmID         string     `json:"firm_id"`
	CaseID         *uuid.UUID `json:"case_id"`
	Subject        string     `json:"subject"`
	SenderName     string     `json:"sender_name"`
	SenderAddress  string     `json:"sender_address"`
	BodyText       string     `json:"body_text"`
	BodyPreview    string     `json:"body_preview"`
	ReceivedAt     time.Time  `json:"received_at"`
	HasAttachments bool       `json:"has_attachments"`
	AssignedAt     *time.Time `json:"assigned_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ImportCommand contains the fields required to store an inbound message.
// FirmID records which tenant the client mailbox belongs to.
type ImportCommand struct {
	ClientID       uuid.UUID `json:"client_id"`
	FirmID         string    `json:"firm_id"`
	Subject        string    `json:"subject"`
	SenderName     string    `json:"sender_name"`
	SenderAddress  string    `json:"sender_address"`
	BodyText       string    `json:"body_text"`
	BodyPreview    string    `json:"body_preview"`
	ReceivedAt     time.Time `json:"received_at"`
	HasAttachments bool      `json:"has_attachments"`
}

// ClassificationView projects the email onto the classification engine's
// input type.
func (e *Email) ClassificationView() classify.Email {
	return classify.Email{
		ID:             e.ID,
		Subject:        e.Subject,
		SenderName:     e.SenderName,
		SenderAddress:  e.SenderAddress,
		BodyText:       e.BodyText,
		BodyPreview:    e.BodyPreview,
		ReceivedAt:     e.ReceivedAt,
		HasAttachments: e.HasAttachments,
	}
}
