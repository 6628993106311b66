package body

import "errors"

// Construction errors. Objects that fail validation never enter a world.
var (
	// ErrNonFinite indicates a NaN or Inf parameter.
	ErrNonFinite = errors.New("body: parameter is NaN or Inf")

	// ErrInvalidMass indicates a negative mass. Zero mass marks a static body.
	ErrInvalidMass = errors.New("body: mass must be non-negative")

	// ErrInvalidRadius indicates a circle with a non-positive radius.
	ErrInvalidRadius = errors.New("body: radius must be positive")

	// ErrInvertedBox indicates a box whose min corner exceeds its max corner.
	ErrInvertedBox = errors.New("body: box min corner exceeds max corner")

	// ErrInvalidRestitution indicates a restitution outside [0, 1].
	ErrInvalidRestitution = errors.New("body: restitution must be within [0, 1]")
)
