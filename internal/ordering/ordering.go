// Package ordering holds pure helpers for dense 1-based sibling positions.
package ordering

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder        = errors.New("empty order")
	ErrDuplicateID       = errors.New("duplicate id in order")
	ErrDuplicatePosition = errors.New("duplicate position")
	ErrNotContiguous     = errors.New("positions are not contiguous from 1")
	ErrMissingID         = errors.New("order is missing an existing item")
	ErrUnknownID         = errors.New("order contains an unknown item")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// Slot is an item id with its 1-based position inside a parent scope.
type Slot struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

// Move returns a copy of items with the element at from reinserted at to,
// shifting the elements in between by one.
func Move[T any](items []T, from, to int) ([]T, error) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: move %d -> %d of %d", ErrIndexOutOfRange, from, to, n)
	}
	out := make([]T, 0, n)
	moving := items[from]
	for i, it := range items {
		if i != from {
			out = append(out, it)
		}
	}
	out = append(out, moving)
	copy(out[to+1:], out[to:n-1])
	out[to] = moving
	return out, nil
}

// Renumber assigns position index+1 to every id in the given order.
func Renumber(ids []uuid.UUID) []Slot {
	out := make([]Slot, len(ids))
	for i, id := range ids {
		out[i] = Slot{ID: id, Position: i + 1}
	}
	return out
}

// IDs returns the ids of slots in slice order.
func IDs(slots []Slot) []uuid.UUID {
	out := make([]uuid.UUID, len(slots))
	for i, s := range slots {
		out[i] = s.ID
	}
	return out
}

// Without removes id from slots, preserving order. The bool reports whether
// id was present.
func Without(slots []Slot, id uuid.UUID) ([]Slot, bool) {
	out := make([]Slot, 0, len(slots))
	found := false
	for _, s := range slots {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}

// Changed returns the target slots whose position differs from current.
// Ids absent from current are always reported.
func Changed(current, target []Slot) []Slot {
	prev := make(map[uuid.UUID]int, len(current))
	for _, s := range current {
		prev[s.ID] = s.Position
	}
	var out []Slot
	for _, s := range target {
		if p, ok := prev[s.ID]; ok && p == s.Position {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MatchSet checks that proposed holds exactly the ids of current, once each.
func MatchSet(current, proposed []uuid.UUID) error {
	if len(proposed) == 0 {
		return ErrEmptyOrder
	}
	want := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		want[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(proposed))
	for _, id := range proposed {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		if !want[id] {
			return fmt.Errorf("%w: %s", ErrUnknownID, id)
		}
	}
	for _, id := range current {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrMissingID, id)
		}
	}
	return nil
}

// Validate reports whether slots satisfy the at-rest invariant: unique ids
// and positions forming exactly 1..N.
func Validate(slots []Slot) error {
	ids := make(map[uuid.UUID]bool, len(slots))
	positions := make(map[int]bool, len(slots))
	for _, s := range slots {
		if ids[s.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
		}
		ids[s.ID] = true
		if positions[s.Position] {
			return fmt.Errorf("%w: %d", ErrDuplicatePosition, s.Position)
		}
		positions[s.Position] = true
	}
	for p := 1; p <= len(slots); p++ {
		if !positions[p] {
			return fmt.Errorf("%w: missing %d of %d", ErrNotContiguous, p, len(slots))
		}
	}
	return nil
}
