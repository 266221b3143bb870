package emails

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/query"
	"github.com/praxislaw/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "emails", "e").
	Project("id", "ID").
	Project("client_id", "ClientID").
	Project("firm_id", "FirmID").
	Project("case_id", "CaseID").
	Project("subject", "Subject").
	Project("sender_name", "SenderName").
	Project("sender_address", "SenderAddress").
	Project("body_text", "BodyText").
	Project("body_preview", "BodyPreview").
	Project("received_at", "ReceivedAt").
	Project("has_attachments", "HasAttachments").
	Project("assigned_at", "AssignedAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "ReceivedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for email queries.
// Nil fields are ignored. Unassigned restricts results to emails without a
// case assignment.
type Filters struct {
	ClientID      *uuid.UUID `json:"client_id,omitempty"`
	CaseID        *uuid.UUID `json:"case_id,omitempty"`
	SenderAddress *string    `json:"sender_address,omitempty"`
	Unassigned    bool       `json:"unassigned,omitempty"`
	FirmID        *string    `json:"-"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("ClientID", f.ClientID).
		WhereEquals("CaseID", f.CaseID).
		WhereEquals("SenderAddress", f.SenderAddress).
		WhereEquals("FirmID", f.FirmID)

	if f.Unassigned {
		b.WhereNullable("CaseID", nil)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("client_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.ClientID = &id
		}
	}

	if c := values.Get("case_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.CaseID = &id
		}
	}

	if s := values.Get("sender"); s != "" {
		f.SenderAddress = &s
	}

	if u := values.Get("unassigned"); u != "" {
		if unassigned, err := strconv.ParseBool(u); err == nil {
			f.Unassigned = unassigned
		}
	}

	return f
}

func scanEmail(s repository.Scanner) (Email, error) {
	var e Email

	err := s.Scan(
		&e.ID,
		&e.ClientID,
		&e.FirmID,
		&e.CaseID,
		&e.Subject,
		&e.SenderName,
		&e.SenderAddress,
		&e.BodyText,
		&e.BodyPreview,
		&e.ReceivedAt,
		&e.HasAttachments,
		&e.AssignedAt,
		&e.CreatedAt,
	)

	return e, err
}
