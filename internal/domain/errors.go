package domain

import "errors"

// Error taxonomy shared by services and handlers. Services wrap these
// with fmt.Errorf("...: %w", Err...) and handlers match with errors.Is
// to pick the HTTP status.
var (
	// ErrValidation covers malformed input: bad JSON, non-numeric
	// price, quantity below 1.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unresolved id or slug references.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState covers mutations attempted against an order that
	// is no longer editable.
	ErrInvalidState = errors.New("invalid state")

	// ErrProtected covers deletes blocked by referencing rows
	// (category/brand with products, product with order items).
	ErrProtected = errors.New("protected reference")
)

// AuditLog receives a record for every successful order or price
// mutation. Persistence and format are the implementation's business.
type AuditLog interface {
	Record(actor, action, description string)
}
