package tests

import (
	"testing"

	"travelpay/internal/domain"
)

// ──────────────────────────────────────────────
// 1. SELECTION SET INVARIANTS
// ──────────────────────────────────────────────

func snapshotForSelection() []domain.PendingBooking {
	return []domain.PendingBooking{
		{ID: "1", ResourceType: domain.ResourceHotel, DisplayName: "Sea View Resort", Amount: 5000, Status: domain.BookingStatusPending},
		{ID: "2", ResourceType: domain.ResourceCab, DisplayName: "Sedan", Amount: 800, Status: domain.BookingStatusPending},
		{ID: "3", ResourceType: domain.ResourceActivity, DisplayName: "City Tour", Amount: 1200, Status: domain.BookingStatusPending},
	}
}

func TestSelection_ToggleTwice_IsNoOp(t *testing.T) {
	t.Parallel()

	snapshot := snapshotForSelection()
	sel := domain.NewSelectionSet()

	sel.Toggle(snapshot[0])
	sel.Toggle(snapshot[0])

	if sel.IsSelected(snapshot[0]) {
		t.Error("expected booking to be deselected after toggling twice")
	}
	if got := sel.Total(snapshot); got != 0 {
		t.Errorf("expected total 0 after double toggle, got %v", got)
	}
}

func TestSelection_Total_MatchesSelectedSum(t *testing.T) {
	t.Parallel()

	snapshot := snapshotForSelection()
	sel := domain.NewSelectionSet()

	// Select hotel and cab: total = 5000 + 800.
	sel.Toggle(snapshot[0])
	sel.Toggle(snapshot[1])
	if got := sel.Total(snapshot); got != 5800 {
		t.Errorf("expected total 5800, got %v", got)
	}

	// Deselect cab: total = 5000.
	sel.Toggle(snapshot[1])
	if got := sel.Total(snapshot); got != 5000 {
		t.Errorf("expected total 5000 after deselecting cab, got %v", got)
	}
}

func TestSelection_Total_OrderIndependent(t *testing.T) {
	t.Parallel()

	snapshot := snapshotForSelection()

	forward := domain.NewSelectionSet()
	forward.Toggle(snapshot[0])
	forward.Toggle(snapshot[1])
	forward.Toggle(snapshot[2])

	backward := domain.NewSelectionSet()
	backward.Toggle(snapshot[2])
	backward.Toggle(snapshot[1])
	backward.Toggle(snapshot[0])

	if forward.Total(snapshot) != backward.Total(snapshot) {
		t.Errorf("expected order-independent total, got %v vs %v",
			forward.Total(snapshot), backward.Total(snapshot))
	}
}

func TestSelection_Total_EmptyIsZero(t *testing.T) {
	t.Parallel()

	sel := domain.NewSelectionSet()
	if got := sel.Total(snapshotForSelection()); got != 0 {
		t.Errorf("expected zero total for empty selection, got %v", got)
	}
	if !sel.Empty() {
		t.Error("expected empty selection")
	}
}

func TestSelection_IDsAreScopedByResourceType(t *testing.T) {
	t.Parallel()

	// Same id in two types must stay distinct.
	snapshot := []domain.PendingBooking{
		{ID: "7", ResourceType: domain.ResourceHotel, Amount: 100, Status: domain.BookingStatusPending},
		{ID: "7", ResourceType: domain.ResourceCab, Amount: 200, Status: domain.BookingStatusPending},
	}

	sel := domain.NewSelectionSet()
	sel.Toggle(snapshot[0])

	if !sel.IsSelected(snapshot[0]) {
		t.Error("expected hotel 7 to be selected")
	}
	if sel.IsSelected(snapshot[1]) {
		t.Error("expected cab 7 to remain unselected")
	}
	if got := sel.Total(snapshot); got != 100 {
		t.Errorf("expected total 100, got %v", got)
	}
}

func TestSelection_SelectAllAndClear(t *testing.T) {
	t.Parallel()

	snapshot := snapshotForSelection()
	sel := domain.NewSelectionSet()

	sel.SelectAll(snapshot)
	if got := sel.Total(snapshot); got != 7000 {
		t.Errorf("expected total 7000 after select-all, got %v", got)
	}

	sel.Clear()
	if !sel.Empty() {
		t.Error("expected empty selection after clear")
	}
	if got := sel.Total(snapshot); got != 0 {
		t.Errorf("expected zero total after clear, got %v", got)
	}
}

func TestSelection_Prune_DropsIDsMissingFromSnapshot(t *testing.T) {
	t.Parallel()

	snapshot := snapshotForSelection()
	sel := domain.NewSelectionSet()
	sel.SelectAll(snapshot)

	// The cab disappears from the next snapshot.
	refreshed := []domain.PendingBooking{snapshot[0], snapshot[2]}
	sel.Prune(refreshed)

	if sel.IsSelected(snapshot[1]) {
		t.Error("expected stale cab selection to be pruned")
	}
	if !sel.IsSelected(snapshot[0]) || !sel.IsSelected(snapshot[2]) {
		t.Error("expected surviving bookings to stay selected")
	}
	if got := sel.Total(refreshed); got != 6200 {
		t.Errorf("expected total 6200 after prune, got %v", got)
	}
}

func TestSelection_Toggle_UnknownTypeIgnored(t *testing.T) {
	t.Parallel()

	sel := domain.NewSelectionSet()
	sel.Toggle(domain.PendingBooking{ID: "1", ResourceType: "FLIGHT", Amount: 50})

	if !sel.Empty() {
		t.Error("expected selection to ignore unknown resource type")
	}
}
