package api

import (
	"github.com/praxislaw/docket/internal/audit"
	"github.com/praxislaw/docket/internal/cases"
	"github.com/praxislaw/docket/internal/classify"
	"github.com/praxislaw/docket/internal/emails"
	"github.com/praxislaw/docket/internal/llm"
	"github.com/praxislaw/docket/internal/review"
	"github.com/praxislaw/docket/internal/triage"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Cases  cases.System
	Emails emails.System
	Audit  audit.System
	Review review.System
	Triage triage.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	caseSys := cases.New(db, runtime.Logger, runtime.Pagination)
	emailSys := emails.New(db, runtime.Logger, runtime.Pagination)
	auditSys := audit.New(db, runtime.Logger)
	reviewSys := review.New(db, runtime.Logger, runtime.Pagination)

	var semantic classify.SemanticClassifier
	if runtime.Classifier.Enabled {
		semantic = llm.New(runtime.Classifier.Options(), runtime.Logger)
	}

	engine := classify.NewEngine(runtime.Engine, semantic, runtime.Logger)

	triageSys := triage.New(
		db,
		engine,
		emailSys,
		caseSys,
		reviewSys,
		runtime.Logger,
	)

	return &Domain{
		Cases:  caseSys,
		Emails: emailSys,
		Audit:  auditSys,
		Review: reviewSys,
		Triage: triageSys,
	}
}
