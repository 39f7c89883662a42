// Package authcore is the session and authentication core of the Lumen
// course platform backend: dual-token (access + refresh) issuance and
// verification, silent rotation on access-token expiry, and a Redis-backed
// session store that acts as the single source of truth for revocation.
//
// The package is designed for concurrent server workloads: Authenticator
// methods are safe to call from multiple goroutines after construction
// through [New].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Authenticator], [Config],
// [Principal], the role gate [AuthorizeRoles], and the request-context
// helpers. Token signing lives in the token subpackage, session persistence
// in the session subpackage, and the HTTP glue (cookie carrier, guards,
// handlers) in middleware and httpapi.
//
// # What this package must NOT do
//
//   - Expose Redis clients or wire encodings in its public API.
//   - Read the process environment inside issue/verify paths; all secrets
//     and lifetimes arrive through [Config] at construction time.
//   - Return raw token or store failures to clients. Credential faults
//     collapse to a generic 401 [Error]; only session-store unavailability
//     surfaces as a 500.
//
// # Session authority
//
// A cryptographically valid token is necessary but not sufficient: the
// request is honored only while a live session record exists for the
// claimed principal. Deleting the record revokes every outstanding token
// pair at once.
package authcore
