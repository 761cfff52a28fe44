package sale

import "errors"

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrActorRequired = errors.New("sale actor is not identified")

	// ErrDuplicateRequest means the idempotency key was already used by this actor.
	ErrDuplicateRequest = errors.New("sale already registered for this idempotency key")
)
