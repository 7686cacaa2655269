package seeder

import "errors"

var (
	ErrUniquenessExhausted = errors.New("uniqueness exhausted")
	ErrUnresolvedReference = errors.New("unresolved foreign key reference")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrCircularDependency  = errors.New("circular dependency")
	ErrInvalidRowCount     = errors.New("invalid row count")
)
