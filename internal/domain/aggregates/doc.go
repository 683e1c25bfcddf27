// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport details and represent the write
// boundaries where the sibling ordering invariant is enforced atomically.
package aggregates
