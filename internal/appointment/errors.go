package appointment

import "errors"

var (
	ErrNotFound       = errors.New("appointment not found")
	ErrFieldsRequired = errors.New("date and type are required")
	ErrActorRequired  = errors.New("appointment actor is not identified")
	ErrInvalidType    = errors.New("invalid appointment type")
	ErrInvalidStatus  = errors.New("invalid appointment status")
)
