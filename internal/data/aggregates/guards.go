package aggregates

import (
	"github.com/google/uuid"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/ordering"
)

// RequireFound converts a failed existence check into a not-found error.
func RequireFound(ok bool, message string) error {
	if ok {
		return nil
	}
	return NotFoundError("%s", message)
}

// RequireFullOrder validates a proposed total order against the current
// sibling set and returns the proposed ids in order. Items with a non-zero
// position must sit at index position-1.
func RequireFullOrder(current []ordering.Slot, items []domainagg.PositionUpdate, emptyMessage string) ([]uuid.UUID, error) {
	if len(items) == 0 {
		return nil, ValidationError("%s", emptyMessage)
	}
	proposed := make([]uuid.UUID, len(items))
	for i, it := range items {
		if it.ID == uuid.Nil {
			return nil, ValidationError("item %d has no id", i+1)
		}
		if it.Position != 0 && it.Position != i+1 {
			return nil, ValidationError("item %s has position %d but is listed at %d", it.ID, it.Position, i+1)
		}
		proposed[i] = it.ID
	}
	if err := ordering.MatchSet(ordering.IDs(current), proposed); err != nil {
		return nil, ValidationError("order does not match current items: %v", err)
	}
	return proposed, nil
}

// RequireContiguous is the post-write check run before commit.
func RequireContiguous(slots []ordering.Slot, scope string) error {
	if err := ordering.Validate(slots); err != nil {
		return InvariantError("%s positions invalid after write: %v", scope, err)
	}
	return nil
}
