// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations compose table-level repos from internal/data/repos and own
// the transaction boundary of every structure write, so a sibling scope is
// never observable with gaps or duplicate positions.
package aggregates
