package limiter

import "context"

// borrowerKey is the context key for a borrower identity; its own type to
// avoid collisions with other packages' context values.
type borrowerKey struct{}

// WithBorrower returns a copy of ctx carrying the given borrower identity.
// It lets a caller establish "who is borrowing" once, near the top of a
// call chain, and have helpers deep inside acquire and release on its
// behalf without threading the identity through every signature.
func WithBorrower(ctx context.Context, borrower any) context.Context {
	return context.WithValue(ctx, borrowerKey{}, borrower)
}

// BorrowerFromContext returns the borrower identity carried by ctx, if
// any. It reports false when WithBorrower was never applied.
func BorrowerFromContext(ctx context.Context) (any, bool) {
	b := ctx.Value(borrowerKey{})
	return b, b != nil
}
