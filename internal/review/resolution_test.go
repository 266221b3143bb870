package review

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/audit"
	"github.com/praxislaw/docket/pkg/query"
)

func TestDismissLogEntryRecordsUnassigned(t *testing.T) {
	pending := PendingClassification{
		EmailID:    uuid.New(),
		Confidence: 0.42,
		MatchType:  "KEYWORD",
	}
	cmd := DismissCommand{ResolvedBy: "lawyer-1"}

	entry := dismissLogEntry(pending, cmd)

	if entry.Action != audit.ActionUnassigned {
		t.Errorf("Action = %q, want %q", entry.Action, audit.ActionUnassigned)
	}
	if entry.CaseID != nil {
		t.Errorf("CaseID = %v, want nil for a dismissal", entry.CaseID)
	}
	if entry.Actor != "lawyer-1" {
		t.Errorf("Actor = %q, want lawyer-1", entry.Actor)
	}
	if entry.WasAutomatic {
		t.Error("WasAutomatic = true, want false for a manual dismissal")
	}
}

func TestAssignLogEntryAction(t *testing.T) {
	pending := PendingClassification{EmailID: uuid.New(), Confidence: 0.6}
	cmd := AssignCommand{CaseID: uuid.New(), ResolvedBy: "lawyer-1"}

	t.Run("unassigned email records assigned", func(t *testing.T) {
		entry := assignLogEntry(pending, cmd, nil)
		if entry.Action != audit.ActionAssigned {
			t.Errorf("Action = %q, want %q", entry.Action, audit.ActionAssigned)
		}
	})

	t.Run("reassigned email records moved", func(t *testing.T) {
		previous := uuid.New()
		entry := assignLogEntry(pending, cmd, &previous)
		if entry.Action != audit.ActionMoved {
			t.Errorf("Action = %q, want %q", entry.Action, audit.ActionMoved)
		}
	})
}

func TestRunBulkAssignIsolatesFailures(t *testing.T) {
	items := make([]BulkAssignItem, 5)
	for i := range items {
		items[i] = BulkAssignItem{ID: uuid.New(), CaseID: uuid.New()}
	}
	badID := items[2].ID

	result := runBulkAssign(BulkAssignCommand{Items: items}, func(item BulkAssignItem) error {
		if item.ID == badID {
			return ErrNotFound
		}
		return nil
	})

	if result.Assigned != 4 {
		t.Errorf("Assigned = %d, want 4", result.Assigned)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1", len(result.Failures))
	}
	if result.Failures[0].ID != badID {
		t.Errorf("failure ID = %s, want %s", result.Failures[0].ID, badID)
	}
	if result.Failures[0].Error != ErrNotFound.Error() {
		t.Errorf("failure Error = %q, want %q", result.Failures[0].Error, ErrNotFound)
	}
}

func TestRunBulkAssignEmptyItems(t *testing.T) {
	result := runBulkAssign(BulkAssignCommand{}, func(BulkAssignItem) error {
		t.Error("assign called for empty batch")
		return nil
	})

	if result.Assigned != 0 || len(result.Failures) != 0 {
		t.Errorf("result = %+v, want empty", result)
	}
}

func TestCheckFirm(t *testing.T) {
	tests := []struct {
		name    string
		pending string
		caller  string
		wantErr error
	}{
		{"matching firms", "firm-a", "firm-a", nil},
		{"no caller claim", "firm-a", "", nil},
		{"entry without firm", "", "firm-a", nil},
		{"foreign firm", "firm-a", "firm-b", ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkFirm(PendingClassification{FirmID: tt.pending}, tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkFirm() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFiltersResolved(t *testing.T) {
	t.Run("resolved true selects history", func(t *testing.T) {
		resolved := true
		b := Filters{Resolved: &resolved}.Apply(query.NewBuilder(projection))
		sql, _ := b.Build()

		if !strings.Contains(sql, "pc.resolved_at IS NOT NULL") {
			t.Errorf("sql = %q, want resolved_at IS NOT NULL condition", sql)
		}
	})

	t.Run("resolved false selects open entries", func(t *testing.T) {
		resolved := false
		b := Filters{Resolved: &resolved}.Apply(query.NewBuilder(projection))
		sql, _ := b.Build()

		if !strings.Contains(sql, "pc.resolved_at IS NULL") {
			t.Errorf("sql = %q, want resolved_at IS NULL condition", sql)
		}
	})

	t.Run("nil resolved leaves both", func(t *testing.T) {
		b := Filters{}.Apply(query.NewBuilder(projection))
		sql, _ := b.Build()

		if strings.Contains(sql, "resolved_at IS") {
			t.Errorf("sql = %q, want no resolved_at condition", sql)
		}
	})
}
