// Package collision implements the per-pair stages of the collision pipeline:
//
//   - [Overlaps]: narrow-phase boolean test for a circle/box pair
//   - [BuildManifold]: contact normal and penetration depth for an overlap
//   - [Resolver]: impulse response followed by positional correction
//
// Every function dispatches exhaustively over the four ordered pair
// combinations of [body.KindCircle] and [body.KindBox]. An object with no
// live shape is a programming error and panics with [ErrUnreachablePair].
//
// # Orientation
//
// A [Manifold] normal always points from object A toward object B, so a
// negative velocity along the normal means the pair is approaching.
package collision
