package services

import "errors"

var (
	// ErrInvalidArgument marks a missing or blank required identifier,
	// detected before any store access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoCardAssigned marks a card return attempted while the customer has
	// no card recorded.
	ErrNoCardAssigned = errors.New("customer has no card assigned")
)
