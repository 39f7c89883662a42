package authcore

import "context"

type principalContextKey struct{}

// WithPrincipal attaches the resolved principal to ctx for downstream
// handlers. Absence of a principal in a request context means the request
// is unauthenticated.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by [WithPrincipal],
// or false when the request never passed the authentication gate.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	if ctx == nil {
		return nil, false
	}

	p, ok := ctx.Value(principalContextKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}

	return p, true
}
