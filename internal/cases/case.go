// Package cases manages legal case records, their matching metadata, and the
// firm-wide global source registry. Case metadata (reference numbers,
// keywords, actors, subject patterns) drives email classification.
package cases

import (
	"time"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
)

// Case statuses. Only active cases are classification candidates.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// Case is a legal matter handled by the firm on behalf of a client.
type Case struct {
	ID               uuid.UUID `json:"id"`
	ClientID         uuid.UUID `json:"client_id"`
	Title            string    `json:"title"`
	CaseType         string    `json:"case_type"`
	Status           string    `json:"status"`
	Description      string    `json:"description"`
	Keywords         []string  `json:"keywords"`
	ReferenceNumbers []string  `json:"reference_numbers"`
	SubjectPatterns  []string  `json:"subject_patterns"`
	Notes            string    `json:"notes"`
	Actors           []Actor   `json:"actors,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Actor is a person or entity tied to a specific case: opposing counsel, a
// client contact, an expert. Matching runs against the email address and any
// domain patterns.
type Actor struct {
	ID             uuid.UUID `json:"id"`
	CaseID         uuid.UUID `json:"case_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	DomainPatterns []string  `json:"domain_patterns"`
}

// GlobalSource is a firm-wide sender registration (court, government agency,
// bailiff office) shared by every case rather than tied to one.
type GlobalSource struct {
	ID             uuid.UUID `json:"id"`
	FirmID         string    `json:"firm_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Emails         []string  `json:"emails"`
	DomainPatterns []string  `json:"domain_patterns"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateCommand contains the fields required to open a case.
type CreateCommand struct {
	ClientID         uuid.UUID `json:"client_id"`
	Title            string    `json:"title"`
	CaseType         string    `json:"case_type"`
	Description      string    `json:"description"`
	Keywords         []string  `json:"keywords"`
	ReferenceNumbers []string  `json:"reference_numbers"`
	SubjectPatterns  []string  `json:"subject_patterns"`
	Notes            string    `json:"notes"`
}

// UpdateCommand overwrites a case's matching metadata.
type UpdateCommand struct {
	Title            string   `json:"title"`
	CaseType         string   `json:"case_type"`
	Description      string   `json:"description"`
	Keywords         []string `json:"keywords"`
	ReferenceNumbers []string `json:"reference_numbers"`
	SubjectPatterns  []string `json:"subject_patterns"`
	Notes            string   `json:"notes"`
}

// AddActorCommand registers an actor on a case.
type AddActorCommand struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	DomainPatterns []string `json:"domain_patterns"`
}

// CreateSourceCommand registers a firm-wide global source.
type CreateSourceCommand struct {
	FirmID         string   `json:"firm_id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Emails         []string `json:"emails"`
	DomainPatterns []string `json:"domain_patterns"`
}

// ClassificationView projects the case onto the classification engine's
// candidate type.
func (c *Case) ClassificationView() classify.Case {
	actors := make([]classify.Actor, 0, len(c.Actors))
	for _, a := range c.Actors {
		actors = append(actors, classify.Actor{
			Name:           a.Name,
			Email:          a.Email,
			DomainPatterns: a.DomainPatterns,
		})
	}

	return classify.Case{
		ID:               c.ID,
		Title:            c.Title,
		CaseType:         c.CaseType,
		Description:      c.Description,
		Keywords:         c.Keywords,
		ReferenceNumbers: c.ReferenceNumbers,
		SubjectPatterns:  c.SubjectPatterns,
		Notes:            c.Notes,
		Actors:           actors,
	}
}

// ClassificationView projects the source onto the classification engine's
// global source type.
func (s *GlobalSource) ClassificationView() classify.GlobalSource {
	return classify.GlobalSource{
		Name:           s.Name,
		Category:       s.Category,
		Emails:         s.Emails,
		DomainPatterns: s.DomainPatterns,
	}
}
