package review

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
	"github.com/praxislaw/docket/pkg/query"
	"github.com/praxislaw/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "pending_classifications", "pc").
	Project("id", "ID").
	Project("email_id", "EmailID").
	Project("firm_id", "FirmID").
	Project("suggested_case_id", "SuggestedCaseID").
	Project("confidence", "Confidence").
	Project("match_type", "MatchType").
	Project("review_reason", "ReviewReason").
	Project("reasons", "Reasons").
	Project("alternatives", "Alternatives").
	Project("created_at", "CreatedAt").
	Project("resolved_at", "ResolvedAt").
	Project("resolution", "Resolution").
	Project("resolved_by", "ResolvedBy")

var defaultSort = query.SortField{Field: "CreatedAt"}

// Filters contains optional filtering criteria for queue queries.
// Nil fields are ignored. Resolved distinguishes open entries from history.
type Filters struct {
	ReviewReason    *string    `json:"review_reason,omitempty"`
	SuggestedCaseID *uuid.UUID `json:"suggested_case_id,omitempty"`
	Resolved        *bool      `json:"resolved,omitempty"`
	FirmID          *string    `json:"-"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.
		WhereEquals("ReviewReason", f.ReviewReason).
		WhereEquals("SuggestedCaseID", f.SuggestedCaseID).
		WhereEquals("FirmID", f.FirmID)

	if f.Resolved != nil {
		if *f.Resolved {
			b.WhereNotNull("ResolvedAt")
		} else {
			b.WhereNullable("ResolvedAt", nil)
		}
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if reason := values.Get("reason"); reason != "" {
		f.ReviewReason = &reason
	}

	if c := values.Get("suggested_case_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.SuggestedCaseID = &id
		}
	}

	if r := values.Get("resolved"); r != "" {
		if resolved, err := strconv.ParseBool(r); err == nil {
			f.Resolved = &resolved
		}
	}

	return f
}

func scanPending(s repository.Scanner) (PendingClassification, error) {
	var p PendingClassification
	var reasonsRaw, alternativesRaw []byte
	var resolution, resolvedBy *string

	err := s.Scan(
		&p.ID,
		&p.EmailID,
		&p.FirmID,
		&p.SuggestedCaseID,
		&p.Confidence,
		&p.MatchType,
		&p.ReviewReason,
		&reasonsRaw,
		&alternativesRaw,
		&p.CreatedAt,
		&p.ResolvedAt,
		&resolution,
		&resolvedBy,
	)

	if err != nil {
		return p, err
	}

	if len(reasonsRaw) > 0 {
		if err := json.Unmarshal(reasonsRaw, &p.Reasons); err != nil {
			return p, fmt.Errorf("unmarshal reasons: %w", err)
		}
	}
	if p.Reasons == nil {
		p.Reasons = []string{}
	}

	if len(alternativesRaw) > 0 {
		if err := json.Unmarshal(alternativesRaw, &p.Alternatives); err != nil {
			return p, fmt.Errorf("unmarshal alternatives: %w", err)
		}
	}
	if p.Alternatives == nil {
		p.Alternatives = []classify.Alternative{}
	}

	if resolution != nil {
		p.Resolution = *resolution
	}
	if resolvedBy != nil {
		p.ResolvedBy = *resolvedBy
	}

	return p, nil
}
