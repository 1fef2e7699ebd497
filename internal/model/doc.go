// Package model defines the entity payloads of the optimization model graph:
// parameters, the three variable variants, reduced variables, measures,
// constraints and the objective, together with the expression and bounds
// types they share and the sentinel errors raised when the graph's
// consistency rules are violated.
//
// Payloads are plain values. All graph bookkeeping — indices, dependency
// tracking, cascades, name lookup — lives in the container package; a payload
// only carries a Handle back to the container that owns it.
package model
