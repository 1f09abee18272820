package domain

import "errors"

var (
	// ErrInvalidCartData means the order context carried a non-positive
	// weight or a negative dimension; no price can be computed safely.
	ErrInvalidCartData = errors.New("invalid cart data")

	// ErrSnapshotUnavailable means the shipping configuration could not
	// be loaded for the merchant.
	ErrSnapshotUnavailable = errors.New("shipping configuration unavailable")
)
