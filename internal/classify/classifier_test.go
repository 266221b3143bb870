package classify_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/classify"
)

// fakeSemantic scripts the generative model's raw response.
type fakeSemantic struct {
	content string
	err     error
	calls   int
}

func (f *fakeSemantic) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.content, f.err
}

func newTestEngine(semantic classify.SemanticClassifier) *classify.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return classify.NewEngine(classify.DefaultConfig(), semantic, logger)
}

func caseWith(id uuid.UUID, mutate func(*classify.Case)) classify.Case {
	c := classify.Case{
		ID:       id,
		Title:    "Popescu v. Ionescu",
		CaseType: "civil",
	}
	if mutate != nil {
		mutate(&c)
	}
	return c
}

func TestClassifyNoCandidates(t *testing.T) {
	engine := newTestEngine(nil)

	email := classify.Email{ID: uuid.New(), Subject: "hello", SenderAddress: "a@b.com"}
	result := engine.Classify(context.Background(), email, nil, nil)

	if !result.NeedsReview {
		t.Error("NeedsReview = false, want true")
	}
	if result.ReviewReason != classify.ReviewNoActiveCases {
		t.Errorf("ReviewReason = %q, want %q", result.ReviewReason, classify.ReviewNoActiveCases)
	}
	if result.SuggestedCaseID != nil {
		t.Errorf("SuggestedCaseID = %v, want nil", result.SuggestedCaseID)
	}
	if result.MatchType != classify.MatchNone {
		t.Errorf("MatchType = %q, want NONE", result.MatchType)
	}
}

func TestClassifySingleCandidate(t *testing.T) {
	engine := newTestEngine(nil)

	only := caseWith(uuid.New(), nil)
	email := classify.Email{ID: uuid.New(), Subject: "anything at all", SenderAddress: "stranger@nowhere.org"}

	result := engine.Classify(context.Background(), email, []classify.Case{only}, nil)

	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != only.ID {
		t.Fatalf("SuggestedCaseID = %v, want %s", result.SuggestedCaseID, only.ID)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", result.Confidence)
	}
	if result.NeedsReview {
		t.Error("NeedsReview = true, want false")
	}
	if result.MatchType != classify.MatchActor {
		t.Errorf("MatchType = %q, want ACTOR", result.MatchType)
	}
}

func TestClassifyReferenceBeatsKeyword(t *testing.T) {
	engine := newTestEngine(nil)

	refCase := caseWith(uuid.New(), func(c *classify.Case) {
		c.ReferenceNumbers = []string{"1234/3/2024"}
	})
	keywordCase := caseWith(uuid.New(), func(c *classify.Case) {
		c.Keywords = []string{"contract", "reziliere"}
	})

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "reziliere contract",
		SenderAddress: "someone@random.ro",
		BodyPreview:   "privind dosar nr. 1234/3/2024 despre reziliere contract",
	}

	result := engine.Classify(
		context.Background(), email,
		[]classify.Case{keywordCase, refCase}, nil,
	)

	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != refCase.ID {
		t.Fatalf("SuggestedCaseID = %v, want reference case %s", result.SuggestedCaseID, refCase.ID)
	}
	if result.MatchType != classify.MatchReference {
		t.Errorf("MatchType = %q, want REFERENCE", result.MatchType)
	}
}

func TestClassifyCourtSenderWithReference(t *testing.T) {
	engine := newTestEngine(nil)

	caseA := caseWith(uuid.New(), func(c *classify.Case) {
		c.ReferenceNumbers = []string{"1234/3/2024"}
	})
	caseB := caseWith(uuid.New(), nil)

	court := classify.GlobalSource{
		Name:           "Tribunalul Bucuresti",
		Category:       "court",
		DomainPatterns: []string{"tribunalul-bucuresti.ro"},
	}

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "Citatie",
		SenderAddress: "grefa@tribunalul-bucuresti.ro",
		BodyPreview:   "In dosar nr. 1234/3/2024 sunteti citat la termen.",
	}

	result := engine.Classify(
		context.Background(), email,
		[]classify.Case{caseA, caseB},
		[]classify.GlobalSource{court},
	)

	if !result.IsGlobalSource {
		t.Fatal("IsGlobalSource = false, want true")
	}
	if result.GlobalSourceName != "Tribunalul Bucuresti" {
		t.Errorf("GlobalSourceName = %q", result.GlobalSourceName)
	}
	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != caseA.ID {
		t.Fatalf("SuggestedCaseID = %v, want %s", result.SuggestedCaseID, caseA.ID)
	}
	if result.MatchType != classify.MatchReference {
		t.Errorf("MatchType = %q, want REFERENCE", result.MatchType)
	}
	if math.Abs(result.Confidence-0.95) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.95", result.Confidence)
	}
	if result.NeedsReview {
		t.Errorf("NeedsReview = true (reason %q), want false", result.ReviewReason)
	}
}

func TestClassifyCourtSenderWithoutReference(t *testing.T) {
	semantic := &fakeSemantic{content: `{"mostLikelyCaseIndex":0,"confidence":0.9,"reasoning":"n/a"}`}
	engine := newTestEngine(semantic)

	court := classify.GlobalSource{
		Name:     "Tribunalul Bucuresti",
		Category: "court",
		Emails:   []string{"grefa@tribunalul-bucuresti.ro"},
	}

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "Comunicare",
		SenderAddress: "Grefa@Tribunalul-Bucuresti.RO",
		BodyPreview:   "Va comunicam prezenta fara numar de dosar.",
	}

	result := engine.Classify(
		context.Background(), email,
		[]classify.Case{caseWith(uuid.New(), nil), caseWith(uuid.New(), nil)},
		[]classify.GlobalSource{court},
	)

	if !result.IsGlobalSource {
		t.Fatal("IsGlobalSource = false, want true (exact address, case-insensitive)")
	}
	if !result.NeedsReview {
		t.Fatal("NeedsReview = false, want true")
	}
	if result.ReviewReason != classify.ReviewCourtNoReference {
		t.Errorf("ReviewReason = %q, want %q", result.ReviewReason, classify.ReviewCourtNoReference)
	}
	if semantic.calls != 0 {
		t.Errorf("semantic fallback called %d times for a court sender, want 0", semantic.calls)
	}
}

func TestClassifyActorMatchNeedsReviewAtDefaults(t *testing.T) {
	engine := newTestEngine(nil)

	caseA := caseWith(uuid.New(), func(c *classify.Case) {
		c.Actors = []classify.Actor{{Name: "Maria Pop", Email: "maria.pop@client.ro"}}
	})
	caseB := caseWith(uuid.New(), nil)

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "Intrebare",
		SenderAddress: "MARIA.POP@CLIENT.RO",
		BodyPreview:   "Buna ziua",
	}

	result := engine.Classify(context.Background(), email, []classify.Case{caseA, caseB}, nil)

	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != caseA.ID {
		t.Fatalf("SuggestedCaseID = %v, want %s", result.SuggestedCaseID, caseA.ID)
	}
	if result.MatchType != classify.MatchActor {
		t.Errorf("MatchType = %q, want ACTOR", result.MatchType)
	}
	if math.Abs(result.Confidence-0.40) > 1e-9 {
		t.Errorf("Confidence = %v, want 0.40", result.Confidence)
	}
	if !result.NeedsReview || result.ReviewReason != classify.ReviewLowConfidence {
		t.Errorf("review = (%v, %q), want low confidence review", result.NeedsReview, result.ReviewReason)
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	engine := newTestEngine(nil)

	// Every deterministic signal fires at once.
	loaded := caseWith(uuid.New(), func(c *classify.Case) {
		c.ReferenceNumbers = []string{"1234/3/2024"}
		c.Keywords = []string{"contract", "litigiu", "factura"}
		c.SubjectPatterns = []string{"*contract*"}
		c.Actors = []classify.Actor{{Email: "adv@parte.ro"}}
	})
	other := caseWith(uuid.New(), nil)

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "contract litigiu factura",
		SenderAddress: "adv@parte.ro",
		BodyPreview:   "dosar 1234/3/2024 contract litigiu factura",
	}

	result := engine.Classify(context.Background(), email, []classify.Case{loaded, other}, nil)

	if result.Confidence < 0 || result.Confidence > 1 {
		t.Fatalf("Confidence = %v, outside [0,1]", result.Confidence)
	}
	if result.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want clamped 1.0", result.Confidence)
	}
	if result.NeedsReview {
		t.Errorf("NeedsReview = true (reason %q), want false", result.ReviewReason)
	}
}

func TestClassifyGrayZoneConflict(t *testing.T) {
	engine := newTestEngine(nil)

	// Both cases match the sender's actor domain: each scores 0.40+keyword,
	// landing in the gray zone with a close runner-up.
	mutate := func(c *classify.Case) {
		c.Actors = []classify.Actor{{DomainPatterns: []string{"client.ro"}}}
		c.Keywords = []string{"contract"}
	}
	caseA := caseWith(uuid.New(), mutate)
	caseB := caseWith(uuid.New(), mutate)

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "contract nou",
		SenderAddress: "office@client.ro",
		BodyPreview:   "detalii contract",
	}

	result := engine.Classify(context.Background(), email, []classify.Case{caseA, caseB}, nil)

	if !result.NeedsReview {
		t.Fatal("NeedsReview = false, want true for near-tied candidates")
	}
	if result.ReviewReason != classify.ReviewCaseConflict {
		t.Errorf("ReviewReason = %q, want %q", result.ReviewReason, classify.ReviewCaseConflict)
	}
	if len(result.Alternatives) != 1 {
		t.Fatalf("Alternatives = %d, want 1", len(result.Alternatives))
	}
}

func TestClassifyTieKeepsCanonicalOrder(t *testing.T) {
	engine := newTestEngine(nil)

	low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	high := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")

	mutate := func(c *classify.Case) {
		c.Keywords = []string{"contract"}
	}
	// Present candidates in reverse canonical order; the lower case id must
	// still win the tie.
	candidates := []classify.Case{caseWith(high, mutate), caseWith(low, mutate)}

	email := classify.Email{
		ID:            uuid.New(),
		Subject:       "contract",
		SenderAddress: "x@y.ro",
		BodyPreview:   "contract",
	}

	result := engine.Classify(context.Background(), email, candidates, nil)

	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != low {
		t.Errorf("SuggestedCaseID = %v, want canonical-order winner %s", result.SuggestedCaseID, low)
	}
}

func TestClassifySemanticFallback(t *testing.T) {
	t.Run("reranks candidates on success", func(t *testing.T) {
		semantic := &fakeSemantic{
			content: "```json\n{\"mostLikelyCaseIndex\":1,\"confidence\":1.0,\"reasoning\":\"matches dispute description\"}\n```",
		}
		engine := newTestEngine(semantic)

		low := uuid.MustParse("00000000-0000-0000-0000-000000000001")
		high := uuid.MustParse("ffffffff-0000-0000-0000-000000000001")

		// Neither case has any deterministic signal; index 1 in canonical
		// order is the higher case id.
		candidates := []classify.Case{caseWith(low, nil), caseWith(high, nil)}

		email := classify.Email{ID: uuid.New(), Subject: "despagubiri", SenderAddress: "x@y.ro"}
		result := engine.Classify(context.Background(), email, candidates, nil)

		if semantic.calls != 1 {
			t.Fatalf("semantic calls = %d, want 1", semantic.calls)
		}
		if result.SuggestedCaseID == nil || *result.SuggestedCaseID != high {
			t.Fatalf("SuggestedCaseID = %v, want semantic pick %s", result.SuggestedCaseID, high)
		}
		if result.MatchType != classify.MatchSemantic {
			t.Errorf("MatchType = %q, want SEMANTIC", result.MatchType)
		}
		if math.Abs(result.Confidence-0.10) > 1e-9 {
			t.Errorf("Confidence = %v, want 0.10 (1.0 x semantic weight)", result.Confidence)
		}
		if !result.NeedsReview || result.ReviewReason != classify.ReviewLowConfidence {
			t.Errorf("review = (%v, %q), want low confidence", result.NeedsReview, result.ReviewReason)
		}
	})

	t.Run("malformed response leaves deterministic result", func(t *testing.T) {
		semantic := &fakeSemantic{content: "I think it is probably the first one."}
		engine := newTestEngine(semantic)

		caseA := caseWith(uuid.New(), func(c *classify.Case) { c.Keywords = []string{"contract"} })
		caseB := caseWith(uuid.New(), nil)

		email := classify.Email{
			ID:            uuid.New(),
			Subject:       "contract",
			SenderAddress: "x@y.ro",
			BodyPreview:   "contract",
		}
		result := engine.Classify(context.Background(), email, []classify.Case{caseA, caseB}, nil)

		if result.SuggestedCaseID == nil || *result.SuggestedCaseID != caseA.ID {
			t.Errorf("SuggestedCaseID = %v, want deterministic pick %s", result.SuggestedCaseID, caseA.ID)
		}
		if result.MatchType != classify.MatchKeyword {
			t.Errorf("MatchType = %q, want KEYWORD", result.MatchType)
		}
	})

	t.Run("out of range index ignored", func(t *testing.T) {
		semantic := &fakeSemantic{content: `{"mostLikelyCaseIndex":7,"confidence":0.9,"reasoning":"x"}`}
		engine := newTestEngine(semantic)

		candidates := []classify.Case{caseWith(uuid.New(), nil), caseWith(uuid.New(), nil)}
		email := classify.Email{ID: uuid.New(), Subject: "s", SenderAddress: "x@y.ro"}

		result := engine.Classify(context.Background(), email, candidates, nil)

		if result.SuggestedCaseID != nil {
			t.Errorf("SuggestedCaseID = %v, want nil with no usable signal", result.SuggestedCaseID)
		}
		if result.ReviewReason != classify.ReviewNoMatchingCase {
			t.Errorf("ReviewReason = %q, want %q", result.ReviewReason, classify.ReviewNoMatchingCase)
		}
	})

	t.Run("transport error ignored", func(t *testing.T) {
		semantic := &fakeSemantic{err: fmt.Errorf("model timeout")}
		engine := newTestEngine(semantic)

		candidates := []classify.Case{caseWith(uuid.New(), nil), caseWith(uuid.New(), nil)}
		email := classify.Email{ID: uuid.New(), Subject: "s", SenderAddress: "x@y.ro"}

		result := engine.Classify(context.Background(), email, candidates, nil)

		if !result.NeedsReview {
			t.Error("NeedsReview = false, want true")
		}
		if result.SuggestedCaseID != nil {
			t.Errorf("SuggestedCaseID = %v, want nil", result.SuggestedCaseID)
		}
	})

	t.Run("not invoked when deterministic score clears threshold", func(t *testing.T) {
		semantic := &fakeSemantic{content: `{"mostLikelyCaseIndex":0,"confidence":1,"reasoning":"x"}`}
		engine := newTestEngine(semantic)

		strong := caseWith(uuid.New(), func(c *classify.Case) {
			c.Actors = []classify.Actor{{Email: "adv@parte.ro"}}
			c.Keywords = []string{"contract", "litigiu"}
		})
		other := caseWith(uuid.New(), nil)

		email := classify.Email{
			ID:            uuid.New(),
			Subject:       "contract litigiu",
			SenderAddress: "adv@parte.ro",
			BodyPreview:   "contract litigiu",
		}

		engine.Classify(context.Background(), email, []classify.Case{strong, other}, nil)

		if semantic.calls != 0 {
			t.Errorf("semantic calls = %d, want 0", semantic.calls)
		}
	})
}
