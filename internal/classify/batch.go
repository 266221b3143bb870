package classify

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CaseSummary aggregates batch outcomes for one suggested case.
type CaseSummary struct {
	CaseID         uuid.UUID `json:"case_id"`
	EmailCount     int       `json:"email_count"`
	AutoClassified int       `json:"auto_classified"`
	NeedsReview    int       `json:"needs_review"`
}

// BatchResult is the outcome of classifying a list of emails against one
// client's candidate cases. Unclassified counts emails with no suggested
// case; they are excluded from every summary.
type BatchResult struct {
	Results      []Result      `json:"results"`
	Summaries    []CaseSummary `json:"summaries"`
	Unclassified int           `json:"unclassified"`
}

// ClassifyBatch classifies each email independently with bounded concurrency.
// A panic while classifying one email is confined to that item: its result is
// dropped and the remaining emails are unaffected. Results retain the input
// email order regardless of completion order.
func (e *Engine) ClassifyBatch(ctx context.Context, emails []Email, candidates []Case, sources []GlobalSource) BatchResult {
	results := make([]*Result, len(emails))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.BatchConcurrency, 1))

	for i := range emails {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = e.classifyIsolated(gctx, emails[i], candidates, sources)
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	return e.aggregate(results)
}

// classifyIsolated shields the batch from a single email's failure.
func (e *Engine) classifyIsolated(ctx context.Context, email Email, candidates []Case, sources []GlobalSource) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("classification panicked, skipping email",
				"email_id", email.ID,
				"panic", r,
			)
			result = nil
		}
	}()

	r := e.Classify(ctx, email, candidates, sources)
	return &r
}

func (e *Engine) aggregate(results []*Result) BatchResult {
	batch := BatchResult{
		Results:   make([]Result, 0, len(results)),
		Summaries: make([]CaseSummary, 0),
	}

	byCase := make(map[uuid.UUID]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		batch.Results = append(batch.Results, *r)

		if r.SuggestedCaseID == nil {
			batch.Unclassified++
			continue
		}

		idx, ok := byCase[*r.SuggestedCaseID]
		if !ok {
			batch.Summaries = append(batch.Summaries, CaseSummary{CaseID: *r.SuggestedCaseID})
			idx = len(batch.Summaries) - 1
			byCase[*r.SuggestedCaseID] = idx
		}

		summary := &batch.Summaries[idx]
		summary.EmailCount++
		if r.NeedsReview {
			summary.NeedsReview++
		} else {
			summary.AutoClassified++
		}
	}

	slices.SortFunc(batch.Summaries, func(a, b CaseSummary) int {
		return strings.Compare(a.CaseID.String(), b.CaseID.String())
	})

	return batch
}
