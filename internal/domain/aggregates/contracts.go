package aggregates

import "github.com/yungbote/coursecraft-backend/internal/domain"

// Contract names an aggregate and the sibling scopes it alone may reorder.
// Write methods of an aggregate open their own transaction; callers never
// pass one in.
type Contract struct {
	Name   string
	Scopes []domain.Scope
	Notes  string
}

type Aggregate interface {
	Contract() Contract
}

// Owns reports whether scope is one of the contract's sibling scopes.
func (c Contract) Owns(scope domain.Scope) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
