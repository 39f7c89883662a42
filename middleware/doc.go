// Package middleware provides the HTTP glue for the authentication core:
// the cookie credential carrier and the net/http guards IsAuthenticated and
// AuthorizeRoles. Guards short-circuit failed requests with the structured
// {"success":false,"message":...} payload and attach the resolved principal
// to the request context on success.
package middleware
