package schema

import "errors"

var (
	ErrUnsupportedDataType   = errors.New("unsupported data type")
	ErrUnsupportedConstraint = errors.New("unsupported custom constraint")
	ErrUnparsableReference   = errors.New("unparsable reference")
	ErrUnknownReference      = errors.New("unknown reference")
	ErrUnsupportedReference  = errors.New("unsupported reference")
	ErrDuplicateTable        = errors.New("duplicate table")
	ErrEmptySchema           = errors.New("schema has no tables")
	ErrInvalidIdentifier     = errors.New("invalid identifier")
)
