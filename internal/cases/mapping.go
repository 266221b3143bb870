package cases

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/pkg/query"
	"github.com/praxislaw/docket/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "cases", "c").
	Project("id", "ID").
	Project("client_id", "ClientID").
	Project("title", "Title").
	Project("case_type", "CaseType").
	Project("status", "Status").
	Project("description", "Description").
	Project("keywords", "Keywords").
	Project("reference_numbers", "ReferenceNumbers").
	Project("subject_patterns", "SubjectPatterns").
	Project("notes", "Notes").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

var sourceProjection = query.
	NewProjectionMap("public", "global_sources", "gs").
	Project("id", "ID").
	Project("firm_id", "FirmID").
	Project("name", "Name").
	Project("category", "Category").
	Project("emails", "Emails").
	Project("domain_patterns", "DomainPatterns").
	Project("created_at", "CreatedAt")

var sourceSort = query.SortField{Field: "Name"}

// Filters contains optional filtering criteria for case queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	ClientID *uuid.UUID `json:"client_id,omitempty"`
	Status   *string    `json:"status,omitempty"`
	CaseType *string    `json:"case_type,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ClientID", f.ClientID).
		WhereEquals("Status", f.Status).
		WhereEquals("CaseType", f.CaseType)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("client_id"); c != "" {
		if id, err := uuid.Parse(c); err == nil {
			f.ClientID = &id
		}
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if t := values.Get("case_type"); t != "" {
		f.CaseType = &t
	}

	return f
}

func scanCase(s repository.Scanner) (Case, error) {
	var c Case
	var keywordsRaw, referencesRaw, patternsRaw []byte

	err := s.Scan(
		&c.ID,
		&c.ClientID,
		&c.Title,
		&c.CaseType,
		&c.Status,
		&c.Description,
		&keywordsRaw,
		&referencesRaw,
		&patternsRaw,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if err != nil {
		return c, err
	}

	if c.Keywords, err = decodeList(keywordsRaw, "keywords"); err != nil {
		return c, err
	}
	if c.ReferenceNumbers, err = decodeList(referencesRaw, "reference_numbers"); err != nil {
		return c, err
	}
	if c.SubjectPatterns, err = decodeList(patternsRaw, "subject_patterns"); err != nil {
		return c, err
	}

	return c, nil
}

func scanActor(s repository.Scanner) (Actor, error) {
	var a Actor
	var patternsRaw []byte

	err := s.Scan(
		&a.ID,
		&a.CaseID,
		&a.Name,
		&a.Email,
		&patternsRaw,
	)

	if err != nil {
		return a, err
	}

	if a.DomainPatterns, err = decodeList(patternsRaw, "domain_patterns"); err != nil {
		return a, err
	}

	return a, nil
}

func scanSource(s repository.Scanner) (GlobalSource, error) {
	var gs GlobalSource
	var emailsRaw, patternsRaw []byte

	err := s.Scan(
		&gs.ID,
		&gs.FirmID,
		&gs.Name,
		&gs.Category,
		&emailsRaw,
		&patternsRaw,
		&gs.CreatedAt,
	)

	if err != nil {
		return gs, err
	}

	if gs.Emails, err = decodeList(emailsRaw, "emails"); err != nil {
		return gs, err
	}
	if gs.DomainPatterns, err = decodeList(patternsRaw, "domain_patterns"); err != nil {
		return gs, err
	}

	return gs, nil
}

// decodeList unmarshals a jsonb string array column, normalizing NULL and
// empty values to an empty slice.
func decodeList(raw []byte, column string) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", column, err)
	}

	if list == nil {
		list = []string{}
	}
	return list, nil
}

func encodeList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}
