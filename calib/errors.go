package calib

import "github.com/pkg/errors"

// Sentinel error kinds surfaced by the solver family (§7). Callers should use errors.Is
// against these values. Only ErrInvariantViolation carries the offending entity id (see
// wrapInvariantViolation); the other kinds are returned bare or wrapped with a plain
// message, without entity ids.
var (
	// ErrDegenerateGeometry is returned when the closed-form initializer cannot solve:
	// no small-rotation hyper-edge, fewer than two large-rotation hyper-edges, or a
	// rank-deficient ground-plane system.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrEmptyGraph is returned when there are no keyframes, or no edges connect them.
	ErrEmptyGraph = errors.New("empty graph")

	// ErrNumericFailure is returned when an SVD or LM solve reports non-finite values.
	ErrNumericFailure = errors.New("numeric failure")

	// ErrInvariantViolation is returned when an edge references an entity absent from
	// the dataset; this indicates a collaborator bug, not a solver input problem.
	ErrInvariantViolation = errors.New("invariant violation")
)

// wrapInvariantViolation wraps ErrInvariantViolation with the offending entity id so
// errors.Is still resolves to the sentinel while the message carries useful detail.
func wrapInvariantViolation(msg string, id int64) error {
	return errors.Wrapf(ErrInvariantViolation, "%s: id=%d", msg, id)
}
