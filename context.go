package rbac

import "context"

type claimsContextKey struct{}

// SetClaims returns a context carrying the identity's claims. Authentication
// middleware calls this once per request so authorization checks downstream
// can find the identity without replumbing handler signatures.
func SetClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// GetClaims returns the claims carried by the context, if any.
func GetClaims(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(Claims)
	return claims, ok
}
