package domain

// SelectionSet tracks which pending bookings, grouped by resource type, are
// currently chosen for payment. An id appears in the set for its own resource
// type only, and an id absent from the current snapshot never survives a
// refresh.
type SelectionSet struct {
	hotelIDs    []string
	cabIDs      []string
	activityIDs []string
}

// NewSelectionSet creates an empty SelectionSet.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{}
}

// Toggle flips membership of the booking's id within its type's set.
// Toggling twice is a no-op. Bookings with an unknown resource type are
// ignored rather than crashing; callers guard against ids outside the
// current snapshot.
func (s *SelectionSet) Toggle(booking PendingBooking) {
	ids := s.idsFor(booking.ResourceType)
	if ids == nil {
		return
	}
	for i, id := range *ids {
		if id == booking.ID {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return
		}
	}
	*ids = append(*ids, booking.ID)
}

// IsSelected reports whether the booking is currently selected.
func (s *SelectionSet) IsSelected(booking PendingBooking) bool {
	ids := s.idsFor(booking.ResourceType)
	if ids == nil {
		return false
	}
	for _, id := range *ids {
		if id == booking.ID {
			return true
		}
	}
	return false
}

// Total returns the sum of amounts over all bookings in the snapshot whose id
// is present in the matching type's selected set. It is zero when nothing is
// selected and is recomputed from scratch on every call, because the snapshot
// can change size between calls.
func (s *SelectionSet) Total(snapshot []PendingBooking) float64 {
	var total float64
	for _, b := range snapshot {
		if s.IsSelected(b) {
			total += b.Amount
		}
	}
	return total
}

// SelectAll replaces the selection with every booking in the snapshot.
func (s *SelectionSet) SelectAll(snapshot []PendingBooking) {
	s.Clear()
	for _, b := range snapshot {
		if ids := s.idsFor(b.ResourceType); ids != nil {
			*ids = append(*ids, b.ID)
		}
	}
}

// Clear empties all three sets.
func (s *SelectionSet) Clear() {
	s.hotelIDs = nil
	s.cabIDs = nil
	s.activityIDs = nil
}

// Prune drops selected ids that no longer appear in the snapshot. Called
// whenever the snapshot refreshes so a stale id cannot remain selected.
func (s *SelectionSet) Prune(snapshot []PendingBooking) {
	present := make(map[ResourceType]map[string]bool, len(ResourceTypes))
	for _, t := range ResourceTypes {
		present[t] = make(map[string]bool)
	}
	for _, b := range snapshot {
		if m, ok := present[b.ResourceType]; ok {
			m[b.ID] = true
		}
	}
	s.hotelIDs = keep(s.hotelIDs, present[ResourceHotel])
	s.cabIDs = keep(s.cabIDs, present[ResourceCab])
	s.activityIDs = keep(s.activityIDs, present[ResourceActivity])
}

// Empty reports whether nothing is selected.
func (s *SelectionSet) Empty() bool {
	return len(s.hotelIDs) == 0 && len(s.cabIDs) == 0 && len(s.activityIDs) == 0
}

// HotelIDs returns a copy of the selected hotel booking ids.
func (s *SelectionSet) HotelIDs() []string { return copyIDs(s.hotelIDs) }

// CabIDs returns a copy of the selected cab booking ids.
func (s *SelectionSet) CabIDs() []string { return copyIDs(s.cabIDs) }

// ActivityIDs returns a copy of the selected activity booking ids.
func (s *SelectionSet) ActivityIDs() []string { return copyIDs(s.activityIDs) }

func (s *SelectionSet) idsFor(t ResourceType) *[]string {
	switch t {
	case ResourceHotel:
		return &s.hotelIDs
	case ResourceCab:
		return &s.cabIDs
	case ResourceActivity:
		return &s.activityIDs
	}
	return nil
}

func keep(ids []string, present map[string]bool) []string {
	if len(ids) == 0 {
		return nil
	}
	kept := ids[:0]
	for _, id := range ids {
		if present[id] {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func copyIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
